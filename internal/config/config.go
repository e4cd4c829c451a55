package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the bot. The admin allow-list is
// injected here instead of living as a constant anywhere in the code.
type Config struct {
	TelegramToken string `mapstructure:"telegram_token"`
	DatabaseURL   string `mapstructure:"database_url"`
	AdminIDs      []int64

	FreeApplications int           `mapstructure:"free_applications"`
	PremiumDuration  time.Duration `mapstructure:"premium_duration"`
	FeedPageSize     int           `mapstructure:"feed_page_size"`
	SavedPageSize    int           `mapstructure:"saved_page_size"`
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
	DigestInterval   time.Duration `mapstructure:"digest_interval"`
	SeedSamples      bool          `mapstructure:"seed_samples"`

	LogJSON  bool `mapstructure:"log_json"`
	LogDebug bool `mapstructure:"log_debug"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBBOT")
	v.AutomaticEnv()

	v.SetDefault("telegram_token", "")
	v.SetDefault("database_url", "jobs.db")
	v.SetDefault("admin_ids", "")
	v.SetDefault("free_applications", 10)
	v.SetDefault("premium_duration", 30*24*time.Hour)
	v.SetDefault("feed_page_size", 5)
	v.SetDefault("saved_page_size", 10)
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("digest_interval", 5*time.Hour)
	v.SetDefault("seed_samples", true)
	v.SetDefault("log_json", false)
	v.SetDefault("log_debug", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	adminIDs, err := parseAdminIDs(v.GetString("admin_ids"))
	if err != nil {
		return cfg, err
	}
	cfg.AdminIDs = adminIDs

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("JOBBOT_TELEGRAM_TOKEN is required")
	}
	if cfg.FreeApplications < 0 {
		return cfg, fmt.Errorf("free_applications must not be negative")
	}
	if cfg.FeedPageSize <= 0 {
		cfg.FeedPageSize = 5
	}
	if cfg.SavedPageSize <= 0 {
		cfg.SavedPageSize = 10
	}

	return cfg, nil
}

// parseAdminIDs accepts a comma-separated list of Telegram user ids.
func parseAdminIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// IsAdmin reports whether the given user is on the allow-list.
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
