package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "none", cfg.MailDriver)
	require.Equal(t, 7*24*time.Hour, cfg.InviteTTL)
	require.Equal(t, time.Hour, cfg.AccessTokenTTL)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INVITE_TTL", "48h")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/launchpad")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "50")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 48*time.Hour, cfg.InviteTTL)
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, 50, cfg.RateLimit.StrictRequests)
}

func TestValidate(t *testing.T) {
	valid := Config{DatabaseDriver: "sqlite", MailDriver: "none", InviteTTL: time.Hour, AccessTokenTTL: time.Hour}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown database driver", func(c *Config) { c.DatabaseDriver = "mysql" }},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = "postgres" }},
		{"unknown mail driver", func(c *Config) { c.MailDriver = "pigeon" }},
		{"ses without region", func(c *Config) { c.MailDriver = "ses"; c.MailFrom = "hello@example.com" }},
		{"smtp without host", func(c *Config) { c.MailDriver = "smtp"; c.MailFrom = "hello@example.com" }},
		{"zero invite ttl", func(c *Config) { c.InviteTTL = 0 }},
		{"negative token ttl", func(c *Config) { c.AccessTokenTTL = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestRateLimitProfiles(t *testing.T) {
	p := RateLimitConfig{}.Profiles()
	require.Equal(t, 5, p.Strict.Requests)
	require.Equal(t, time.Minute, p.Strict.Window)

	p = RateLimitConfig{StrictRequests: 100, StrictWindowSec: 10, PublicBurst: 7}.Profiles()
	require.Equal(t, 100, p.Strict.Requests)
	require.Equal(t, 10*time.Second, p.Strict.Window)
	require.Equal(t, 5, p.Strict.Burst)
	require.Equal(t, 7, p.Public.Burst)
	require.Equal(t, 30, p.Moderate.Requests)
}
