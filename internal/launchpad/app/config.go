package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read from the environment.
type Config struct {
	Port                int           `env:"PORT" env-default:"8080"`
	Env                 string        `env:"ENV" env-default:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" env-default:"info"`
	LogFormat           string        `env:"LOG_FORMAT" env-default:"json"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s"`

	DatabaseDriver string `env:"DATABASE_DRIVER" env-default:"sqlite"` // sqlite or postgres
	DatabaseFile   string `env:"DATABASE_FILE" env-default:"launchpad.db"`
	DatabaseURL    string `env:"DATABASE_URL"` // required for postgres
	PepperFile     string `env:"PEPPER_FILE" env-default:"pepper"`

	Issuer         string        `env:"LAUNCHPAD_ISSUER" env-default:"launchpad"`
	BaseURL        string        `env:"LAUNCHPAD_BASE_URL" env-default:"http://localhost:8080"`
	InviteTTL      time.Duration `env:"INVITE_TTL" env-default:"168h"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"1h"`

	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" env-default:"1h"`
	InviteRetention      time.Duration `env:"INVITE_RETENTION" env-default:"720h"`

	MailDriver   string `env:"MAIL_DRIVER" env-default:"none"` // none, ses or smtp
	MailFrom     string `env:"MAIL_FROM"`
	MailFromName string `env:"MAIL_FROM_NAME" env-default:"Launchpad"`
	SESRegion    string `env:"SES_REGION"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" env-default:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	RateLimit RateLimitConfig
}

// RateLimitConfig overrides the per-profile request budgets. Zero values
// keep the defaults.
type RateLimitConfig struct {
	StrictRequests    int `env:"RATELIMIT_STRICT_REQUESTS"`
	StrictWindowSec   int `env:"RATELIMIT_STRICT_WINDOW_SEC"`
	StrictBurst       int `env:"RATELIMIT_STRICT_BURST"`
	ModerateRequests  int `env:"RATELIMIT_MODERATE_REQUESTS"`
	ModerateWindowSec int `env:"RATELIMIT_MODERATE_WINDOW_SEC"`
	ModerateBurst     int `env:"RATELIMIT_MODERATE_BURST"`
	PublicRequests    int `env:"RATELIMIT_PUBLIC_REQUESTS"`
	PublicWindowSec   int `env:"RATELIMIT_PUBLIC_WINDOW_SEC"`
	PublicBurst       int `env:"RATELIMIT_PUBLIC_BURST"`
}

// LoadConfig reads and validates the configuration.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse configuration from environment: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.MailDriver {
	case "none":
	case "ses":
		if c.MailFrom == "" || c.SESRegion == "" {
			return errors.New("MAIL_FROM and SES_REGION are required for the ses mail driver")
		}
	case "smtp":
		if c.MailFrom == "" || c.SMTPHost == "" {
			return errors.New("MAIL_FROM and SMTP_HOST are required for the smtp mail driver")
		}
	default:
		return fmt.Errorf("unknown MAIL_DRIVER %q", c.MailDriver)
	}

	if c.InviteTTL <= 0 || c.AccessTokenTTL <= 0 {
		return errors.New("INVITE_TTL and ACCESS_TOKEN_TTL must be positive")
	}
	return nil
}

// Profiles applies the overrides on top of the default limits.
func (c RateLimitConfig) Profiles() httpx.RateLimitProfiles {
	p := httpx.DefaultRateLimitProfiles()
	override(&p.Strict, c.StrictRequests, c.StrictWindowSec, c.StrictBurst)
	override(&p.Moderate, c.ModerateRequests, c.ModerateWindowSec, c.ModerateBurst)
	override(&p.Public, c.PublicRequests, c.PublicWindowSec, c.PublicBurst)
	return p
}

func override(dst *httpx.RateLimitConfig, requests, windowSec, burst int) {
	if requests > 0 {
		dst.Requests = requests
	}
	if windowSec > 0 {
		dst.Window = time.Duration(windowSec) * time.Second
	}
	if burst > 0 {
		dst.Burst = burst
	}
}
