package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 37780 || cfg.Server.Bind != "127.0.0.1" {
		t.Errorf("server = %+v", cfg.Server)
	}
	sc := cfg.Scoring
	if sc.BaseRent != 30 || sc.WeeklyTokenCap != 6 || sc.SocialDailyCap != 40 {
		t.Errorf("scoring = %+v", sc)
	}
	if sc.SocialEMATarget != 8.0 || sc.SocialEMASpan != 7 {
		t.Errorf("ema config = %v/%d", sc.SocialEMATarget, sc.SocialEMASpan)
	}
	if sc.ExamModeFee != 50 || sc.ExamModeWindow != 72*time.Hour {
		t.Errorf("exam config = %d/%v", sc.ExamModeFee, sc.ExamModeWindow)
	}
	if sc.PremiumRent != "Volleyball" || sc.ExamBoostRent != "Academics" {
		t.Errorf("rent names = %q/%q", sc.PremiumRent, sc.ExamBoostRent)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORTFOLIO_BIND", "0.0.0.0")
	t.Setenv("PORTFOLIO_PORT", "8080")
	t.Setenv("PORTFOLIO_DB", "/tmp/test.db")

	cfg := FromEnv()
	if cfg.Server.Bind != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if got := cfg.ListenAddr(); got != "0.0.0.0:8080" {
		t.Errorf("addr = %q", got)
	}
}

func TestFromEnvIgnoresBadPort(t *testing.T) {
	t.Setenv("PORTFOLIO_PORT", "not-a-port")

	cfg := FromEnv()
	if cfg.Server.Port != 37780 {
		t.Errorf("port = %d, want the default", cfg.Server.Port)
	}
}
