package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/chrimage/atlas-divisions/core"
)

// Access groups authentication and authorization settings.
type Access struct {
	// TeamName is the trust-domain name whose signing keys validate access
	// tokens. Empty skips signature verification (a logged downgrade).
	TeamName string `env:"CF_ACCESS_TEAM_NAME"`

	// EnableAdminAuth gates admin authentication entirely.
	EnableAdminAuth bool `env:"ENABLE_ADMIN_AUTH" envDefault:"true"`

	// EnableCloudflareAccess selects token-based identity as the admin
	// access mode.
	EnableCloudflareAccess bool `env:"ENABLE_CLOUDFLARE_ACCESS" envDefault:"true"`

	// AllowedAdminEmails is the admin allow-list consulted when token-based
	// access is disabled.
	AllowedAdminEmails []string `env:"ALLOWED_ADMIN_EMAILS" envSeparator:","`
}

// Mail groups the admin notification settings.
type Mail struct {
	Enabled    bool   `env:"ENABLE_EMAIL_NOTIFICATIONS"`
	APIKey     string `env:"MG_API_KEY"`
	Domain     string `env:"MG_DOMAIN"`
	From       string `env:"FROM_EMAIL"`
	AdminEmail string `env:"ADMIN_EMAIL"`
}

// Config is the full runtime configuration, parsed from the environment.
type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	// StoreBackend selects the submission store: memory, sqlite or redis.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"atlas.db"`
	RedisURL     string `env:"REDIS_URL"`

	// EventsEnabled turns on submission lifecycle event publishing; it
	// requires a Redis URL for the stream transport.
	EventsEnabled bool `env:"EVENTS_ENABLED"`

	// ServiceTypes is the contact form's service enumeration.
	ServiceTypes []string `env:"SERVICE_TYPES" envSeparator:"," envDefault:"Auto & Home Systems Repair,Logistics & Adaptive Operations,AI Tools & Digital Infrastructure,Emergency & Crisis Response,General Inquiry,Partnership Opportunity"`

	// StatusOptions is the submission status enumeration.
	StatusOptions []string `env:"STATUS_OPTIONS" envSeparator:"," envDefault:"new,in_progress,resolved,cancelled"`

	CSRFTTL           time.Duration `env:"CSRF_TTL" envDefault:"30m"`
	CSRFSweepInterval time.Duration `env:"CSRF_SWEEP_INTERVAL" envDefault:"5m"`

	Access Access
	Mail   Mail
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	switch cfg.StoreBackend {
	case "memory", "sqlite", "redis":
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.StoreBackend == "redis" && cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("redis store backend requires REDIS_URL")
	}
	if cfg.EventsEnabled && cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("event publishing requires REDIS_URL")
	}

	if cfg.Mail.Enabled {
		if cfg.Mail.APIKey == "" || cfg.Mail.Domain == "" || cfg.Mail.From == "" || cfg.Mail.AdminEmail == "" {
			return Config{}, fmt.Errorf("email notifications require MG_API_KEY, MG_DOMAIN, FROM_EMAIL and ADMIN_EMAIL")
		}
	}

	return cfg, nil
}

// Statuses converts the configured status enumeration to domain values.
func (c Config) Statuses() []core.Status {
	out := make([]core.Status, len(c.StatusOptions))
	for i, s := range c.StatusOptions {
		out[i] = core.Status(s)
	}
	return out
}
