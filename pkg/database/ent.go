package database

import (
	"context"
	"fmt"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/Alijeyrad/telecare_backend/config"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
)

// NewEntClient opens Postgres and wraps it in the repository client.
func NewEntClient(cfg config.DatabaseConfig) (*repo.Client, error) {
	return NewEntClientFromConfig(FromCentralConfig(cfg))
}

func NewEntClientFromConfig(cfg Config) (*repo.Client, error) {
	db, err := openSQLDB(cfg)
	if err != nil {
		return nil, err
	}

	var drv dialect.Driver = entsql.OpenDB(dialect.Postgres, db)
	if cfg.EnableLogging {
		drv = dialect.DebugWithContext(drv, func(ctx context.Context, args ...any) {
			slog.DebugContext(ctx, "sql", "query", fmt.Sprint(args...))
		})
	}

	return repo.NewClient(drv), nil
}

func MigrateEnt(ctx context.Context, client *repo.Client) error {
	if err := client.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
