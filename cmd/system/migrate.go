package system

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/telecare_backend/pkg/authorize"
	"github.com/Alijeyrad/telecare_backend/pkg/database"
)

func NewMigrateCommand() *cobra.Command {
	var skipPolicies bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and seed default RBAC policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cfg)
			defer cancel()

			fmt.Println("Running migrations for the application DB.")
			client, err := database.NewEntClient(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to create ent client: %w", err)
			}
			defer client.Close()

			if err := database.MigrateEnt(ctx, client); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			if skipPolicies {
				fmt.Println("Migrations executed successfully.")
				return nil
			}

			// The casbin adapter creates its own table on first load.
			fmt.Println("Running migrations for the policy DB.")
			auth, cleanup, err := openAuthorization(cfg)
			if err != nil {
				return err
			}
			defer cleanup(context.Background())

			slog.Info("seeding casbin policies")
			if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
				return fmt.Errorf("failed to seed policies: %w", err)
			}

			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPolicies, "skip-policies", false, "Only migrate the application schema")

	return cmd
}
