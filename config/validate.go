package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPort          = errors.New("server.port must be positive")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of debug, info, warn, error")
	ErrInvalidPasetoMode    = errors.New("authentication.paseto.mode must be local or public")
	ErrInvalidEncryptionKey = errors.New("authentication.encryption_key must be 64 hex characters")
	ErrInvalidQuizTTL       = errors.New("quiz.session_ttl_minutes must be at least 1")
)

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, ErrInvalidPort)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Logging.Level))
	}

	switch c.Authentication.Paseto.Mode {
	case "local", "public":
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidPasetoMode, c.Authentication.Paseto.Mode))
	}

	if k := c.Authentication.EncryptionKey; k != "" {
		if b, err := hex.DecodeString(k); err != nil || len(b) != 32 {
			errs = append(errs, ErrInvalidEncryptionKey)
		}
	}

	if c.Quiz.SessionTTLMinutes < 1 {
		errs = append(errs, ErrInvalidQuizTTL)
	}

	return errors.Join(errs...)
}
