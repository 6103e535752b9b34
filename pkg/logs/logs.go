package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Alijeyrad/telecare_backend/config"
	"github.com/Alijeyrad/telecare_backend/pkg/constants"
)

// New builds a logger from config, supporting multi-output fan-out. The
// returned func flushes buffered outputs and must run before exit.
func New(cfg *config.Config) (*slog.Logger, func()) {
	level := parseLevel(cfg.Logging.Level)
	isDev := strings.EqualFold(cfg.Server.Environment, "development")
	flush := func() {}

	var writers []io.Writer

	// Always write to stdout if enabled or nothing else is configured
	if cfg.Logging.Output.Stdout || (!cfg.Logging.Output.File.Enabled && !cfg.Logging.Output.Loki.Enabled) {
		writers = append(writers, os.Stdout)
	}

	// File output with rotation via lumberjack
	var rotator *lumberjack.Logger
	if cfg.Logging.Output.File.Enabled {
		rotator = &lumberjack.Logger{
			Filename:   cfg.Logging.Output.File.Path,
			MaxSize:    cfg.Logging.Output.File.MaxSizeMB,
			MaxBackups: cfg.Logging.Output.File.MaxBackups,
			MaxAge:     cfg.Logging.Output.File.MaxAgeDays,
			Compress:   cfg.Logging.Output.File.Compress,
		}
		writers = append(writers, rotator)
	}

	var handlers []slog.Handler
	if len(writers) > 0 {
		handlers = append(handlers, writerHandler(io.MultiWriter(writers...), cfg.Logging.Format, level, isDev))
	}

	if cfg.Logging.Output.Loki.Enabled {
		h, client, err := newLokiHandler(cfg, level)
		if err != nil {
			// keep the other outputs; the failure is reported through them
			slog.New(writerHandler(os.Stderr, "json", level, false)).Error("loki disabled", "err", err)
		} else {
			handlers = append(handlers, h)
			flush = client.Stop
		}
	}
	if len(handlers) == 0 {
		handlers = append(handlers, writerHandler(os.Stdout, cfg.Logging.Format, level, isDev))
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = &multiHandler{handlers: handlers}
	}

	logger := slog.New(h).With(
		slog.String("service", serviceName(cfg)),
		slog.String("version", cfg.Observability.ServiceVersion),
		slog.String("env", cfg.Server.Environment),
	)
	closeAll := func() {
		flush()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return logger, closeAll
}

func writerHandler(w io.Writer, format string, level slog.Level, isDev bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: isDev,
	}
	if strings.EqualFold(format, "json") || !isDev {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func serviceName(cfg *config.Config) string {
	if cfg.Observability.ServiceName != "" {
		return cfg.Observability.ServiceName
	}
	return constants.AppName
}

func Default() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: false,
	})
	return slog.New(h).With(slog.String("service", constants.AppName))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
