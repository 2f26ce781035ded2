package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("AccessTokenTTL = %v, want 1h", cfg.AccessTokenTTL)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Errorf("RateLimitPerMinute = %d, want 120", cfg.RateLimitPerMinute)
	}
	if len(cfg.AllowedOrigins) != 1 {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("MAIL_PER_SECOND", "0.5")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg := Load()
	if cfg.AccessTokenTTL != 5*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 5m", cfg.AccessTokenTTL)
	}
	if cfg.MailPerSecond != 0.5 {
		t.Errorf("MailPerSecond = %v, want 0.5", cfg.MailPerSecond)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want fallback 587", cfg.SMTPPort)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if !cfg.MailEnabled() {
		t.Error("mail should be enabled when SMTP_HOST is set")
	}
}
