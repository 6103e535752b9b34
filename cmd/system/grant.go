package system

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/telecare_backend/pkg/authorize"
)

func NewGrantCommand() *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "grant <user-id> <role>",
		Short: "Assign or revoke a system role (superadmin, admin, clinician, patient)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}
			role, err := authorize.ParseRole(args[1])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cfg)
			defer cancel()

			auth, cleanup, err := openAuthorization(cfg)
			if err != nil {
				return err
			}
			defer cleanup(context.Background())

			if revoke {
				if err := authorize.RemoveSystemRole(ctx, auth, userID.String(), role); err != nil {
					return fmt.Errorf("failed to revoke role: %w", err)
				}
				fmt.Printf("Revoked %s from %s\n", role, userID)
				return nil
			}

			if err := authorize.AssignSystemRole(ctx, auth, userID.String(), role); err != nil {
				return fmt.Errorf("failed to assign role: %w", err)
			}
			fmt.Printf("Granted %s to %s\n", role, userID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&revoke, "revoke", false, "Remove the role instead of assigning it")

	return cmd
}
