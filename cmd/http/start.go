package http

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/telecare_backend/config"
	"github.com/Alijeyrad/telecare_backend/internal/api/http"
	"github.com/Alijeyrad/telecare_backend/internal/app"
	"github.com/Alijeyrad/telecare_backend/pkg/logs"
)

func NewStartCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		noWorkers       bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}

			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			// Set up structured logger before fx starts so all logs use it.
			logger, closeLogs := logs.New(cfg)
			defer closeLogs()
			slog.SetDefault(logger)

			opts := []fx.Option{
				fx.Supply(cfg),
				app.InfraModule,
				app.ServiceModule,
				http.Module,
				fx.Invoke(func(*fiber.App) {}),
				fx.StopTimeout(shutdownTimeout),
				fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
			}
			if !noWorkers {
				opts = append(opts, app.WorkerModule)
			}

			fx.New(opts...).Run()
			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")
	cmd.Flags().BoolVar(&noWorkers, "no-workers", false, "Do not start the NATS notification workers")

	return cmd
}
