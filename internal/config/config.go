// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
)

var validate = validator.New()

// Config holds every setting the intake binaries read from the environment.
// CLI flags override individual fields after Load.
type Config struct {
	// Addr is the HTTP listen address. ENV: INTAKE_ADDR
	Addr string `env:"INTAKE_ADDR,default=:8080" validate:"required,hostname_port"`
	// SubmitURL is the user creation endpoint. Empty logs submissions
	// instead of posting them. ENV: INTAKE_SUBMIT_URL
	SubmitURL string `env:"INTAKE_SUBMIT_URL" validate:"omitempty,url"`
	// SubmitTimeout bounds one collaborator call. ENV: INTAKE_SUBMIT_TIMEOUT
	SubmitTimeout time.Duration `env:"INTAKE_SUBMIT_TIMEOUT,default=10s" validate:"gt=0"`
	// DefaultCountry seeds phone inputs. ENV: INTAKE_DEFAULT_COUNTRY
	DefaultCountry string `env:"INTAKE_DEFAULT_COUNTRY,default=US" validate:"required,iso3166_1_alpha2"`
	// FormFile replaces the embedded patient form. ENV: INTAKE_FORM_FILE
	FormFile string `env:"INTAKE_FORM_FILE"`
	// LogLevel is one of debug, info, warn, error. ENV: INTAKE_LOG_LEVEL
	LogLevel string `env:"INTAKE_LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	// ShutdownGrace bounds graceful HTTP shutdown. ENV: INTAKE_SHUTDOWN_GRACE
	ShutdownGrace time.Duration `env:"INTAKE_SHUTDOWN_GRACE,default=5s" validate:"gt=0"`
}

// Load decodes the environment, applying tag defaults, and validates the
// result.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalises case-insensitive fields and checks every constraint.
func (c *Config) Validate() error {
	c.DefaultCountry = strings.ToUpper(strings.TrimSpace(c.DefaultCountry))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Level maps LogLevel onto slog.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
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

// Logger builds a text logger at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
