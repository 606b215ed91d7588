package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/pdutra/ec2-chatops/internal/chat"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// Sweeper
	SweepIntervalSec int    `env:"SWEEP_INTERVAL_SEC" envDefault:"60" validate:"min=1,max=300"`
	PurgeSchedule    string `env:"PURGE_SCHEDULE" envDefault:"0 3 * * *" validate:"required"`
	PurgeAfterDays   int    `env:"PURGE_AFTER_DAYS" envDefault:"30" validate:"min=1,max=365"`

	// Authorization
	AdminEmails       []string `env:"ADMIN_EMAILS" envSeparator:","`
	UnrestrictedNames []string `env:"UNRESTRICTED_INSTANCE_NAMES" envSeparator:","`

	// Approval notifications. Mentions are "users/<id>=Display Name".
	AdminMentions  []string `env:"ADMIN_MENTIONS" envSeparator:","`
	ApprovalEmails []string `env:"APPROVAL_EMAILS" envSeparator:","`

	// All user-facing times render in this fixed offset from UTC.
	UTCOffsetHours int `env:"LOCAL_UTC_OFFSET_HOURS" envDefault:"-3" validate:"min=-12,max=14"`

	// Empty disables webhook auth, for local runs only.
	WebhookJWTSecret string `env:"WEBHOOK_JWT_SECRET" validate:"omitempty,min=32"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if _, err := cron.ParseStandard(cfg.PurgeSchedule); err != nil {
		return nil, fmt.Errorf("invalid PURGE_SCHEDULE: %w", err)
	}

	if _, err := cfg.Mentions(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location is the fixed zone user-facing times are rendered in.
func (c *Config) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+03d", c.UTCOffsetHours), c.UTCOffsetHours*60*60)
}

// Mentions parses ADMIN_MENTIONS into chat mentions.
func (c *Config) Mentions() ([]chat.Mention, error) {
	out := make([]chat.Mention, 0, len(c.AdminMentions))
	for _, raw := range c.AdminMentions {
		name, display, ok := strings.Cut(strings.TrimSpace(raw), "=")
		if !ok || name == "" || display == "" {
			return nil, fmt.Errorf("invalid ADMIN_MENTIONS entry %q, want users/<id>=Display Name", raw)
		}
		out = append(out, chat.Mention{Name: name, DisplayName: display})
	}
	return out, nil
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

func (c *Config) SlogLevel() slog.Level {
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
