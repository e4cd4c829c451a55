package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JOBBOT_TELEGRAM_TOKEN", "test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.TelegramToken != "test-token" {
		t.Errorf("token = %q", cfg.TelegramToken)
	}
	if cfg.FreeApplications != 10 {
		t.Errorf("free applications = %d, want 10", cfg.FreeApplications)
	}
	if cfg.PremiumDuration != 30*24*time.Hour {
		t.Errorf("premium duration = %v", cfg.PremiumDuration)
	}
	if cfg.FeedPageSize != 5 {
		t.Errorf("feed page size = %d, want 5", cfg.FeedPageSize)
	}
	if len(cfg.AdminIDs) != 0 {
		t.Errorf("admin ids = %v, want empty", cfg.AdminIDs)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("JOBBOT_TELEGRAM_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("missing token accepted")
	}
}

func TestLoadAdminIDs(t *testing.T) {
	t.Setenv("JOBBOT_TELEGRAM_TOKEN", "test-token")
	t.Setenv("JOBBOT_ADMIN_IDS", "123, 456 ,789")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.AdminIDs) != 3 {
		t.Fatalf("admin ids = %v", cfg.AdminIDs)
	}
	if !cfg.IsAdmin(456) {
		t.Error("listed id not recognized as admin")
	}
	if cfg.IsAdmin(999) {
		t.Error("unlisted id recognized as admin")
	}
}

func TestLoadRejectsMalformedAdminIDs(t *testing.T) {
	t.Setenv("JOBBOT_TELEGRAM_TOKEN", "test-token")
	t.Setenv("JOBBOT_ADMIN_IDS", "123,abc")

	if _, err := Load(); err == nil {
		t.Fatal("malformed admin id accepted")
	}
}
