package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all portfolio configuration. Scoring constants live here so
// the evaluator and aggregator stay pure and testable in isolation.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Scoring  ScoringConfig
}

type ServerConfig struct {
	Bind string
	Port int
}

type DatabaseConfig struct {
	Path string
}

// ScoringConfig is the rule book shared by the evaluator and aggregator.
type ScoringConfig struct {
	BaseRent        int           // daily rent subtracted from every day's net
	WeeklyTokenCap  int           // display-only cap on long deep-work sessions per week
	SocialEMATarget float64       // daily social points the EMA is measured against
	SocialEMASpan   int           // EMA span in days
	SocialDailyCap  int           // per-activity prior-accumulation cap per day
	ExamModeFee     int           // points deducted on each exam mode activation
	ExamModeWindow  time.Duration // how long one activation lasts
	VampireEndHour  int           // the penalty window is [00:00, VampireEndHour)
	MorningEndHour  int           // core morning bonus applies before this hour
	PremiumRent     string        // rent activity with the raised first-of-day award
	ExamBoostRent   string        // rent activity that surges while exam mode is on
}

// Default returns a Config with the stock rule book.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37780,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Scoring: ScoringConfig{
			BaseRent:        30,
			WeeklyTokenCap:  6,
			SocialEMATarget: 8.0,
			SocialEMASpan:   7,
			SocialDailyCap:  40,
			ExamModeFee:     50,
			ExamModeWindow:  72 * time.Hour,
			VampireEndHour:  6,
			MorningEndHour:  17,
			PremiumRent:     "Volleyball",
			ExamBoostRent:   "Academics",
		},
	}
}

// FromEnv returns Default() with PORTFOLIO_* environment overrides applied.
// Only deployment knobs are overridable; the rule book stays fixed per
// process.
func FromEnv() Config {
	cfg := Default()
	if v := os.Getenv("PORTFOLIO_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("PORTFOLIO_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("PORTFOLIO_DB"); v != "" {
		cfg.Database.Path = v
	}
	return cfg
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
