package system

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/telecare_backend/pkg/constants"
	pasetotoken "github.com/Alijeyrad/telecare_backend/pkg/paseto"
	redispkg "github.com/Alijeyrad/telecare_backend/pkg/redis"
)

// NewTokenCommand issues an access token for a user and opens the matching
// session in Redis. Sign-in lives outside this service; this is the
// operator path for clinicians and tests.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an access token and open its session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cfg)
			defer cancel()

			mgr, err := pasetotoken.NewPasetoManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to create token manager: %w", err)
			}

			rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			defer rdb.Close()

			sessionID := uuid.Must(uuid.NewV7())
			tok, err := mgr.IssueAccess(userID, &sessionID)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			ttl := time.Duration(cfg.Authentication.SessionTTLMinutes) * time.Minute
			if ttl <= 0 {
				ttl = mgr.AccessTTL()
			}
			key := constants.RedisAuthSessionPrefix + sessionID.String()
			if err := rdb.Set(ctx, key, userID.String(), ttl).Err(); err != nil {
				return fmt.Errorf("failed to open session: %w", err)
			}

			fmt.Println(tok)
			return nil
		},
	}

	return cmd
}
