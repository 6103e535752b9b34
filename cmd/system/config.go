package system

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/telecare_backend/config"
	"github.com/Alijeyrad/telecare_backend/pkg/authorize"
	"github.com/Alijeyrad/telecare_backend/pkg/database"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return cfg, nil
}

func commandContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	return context.WithTimeout(context.Background(), timeout)
}

// openAuthorization builds a casbin-backed authorizer against the policy
// database. The returned cleanup must be called once done.
func openAuthorization(cfg *config.Config) (authorize.IAuthorization, authorize.CleanupFunc, error) {
	enforcer, cleanup, err := authorize.NewEnforcer(cfg.Authorization.CasbinModelPath, database.NewDSN(cfg.CasbinDatabase))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	auth, err := authorize.NewAuthorization(enforcer, authorize.FromCentralConfig(cfg.Authorization))
	if err != nil {
		cleanup(context.Background())
		return nil, nil, fmt.Errorf("failed to create authorization: %w", err)
	}
	return auth, cleanup, nil
}
