package config

import (
	stderrors "errors"
	"testing"

	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
)

// setRequiredEnv sets the minimal environment for a successful Load. The env
// provider lowercases variable names, so these map onto the koanf keys.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("AUDIT_CHANNEL_ID", "-1009999999999")
	t.Setenv("APP_ENV", "production")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.TelegramBotToken != "123456:test-token" {
		t.Errorf("token = %q", cfg.TelegramBotToken)
	}
	if cfg.AuditChannelID != -1009999999999 {
		t.Errorf("audit channel = %d", cfg.AuditChannelID)
	}
	if cfg.StorageDriver != StorageDriverFile {
		t.Errorf("storage driver = %q, want %q", cfg.StorageDriver, StorageDriverFile)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("http port = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.AppEnv != AppEnvProduction {
		t.Errorf("app env = %v, want production", cfg.AppEnv)
	}
}

func TestLoadRejectsInvalidAppEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "staging")

	if _, err := Load(); !stderrors.Is(err, ErrInvalidAppEnv) {
		t.Errorf("expected ErrInvalidAppEnv, got %v", err)
	}
}

func TestLoadRejectsInvalidStorageDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_DRIVER", "mongodb")

	if _, err := Load(); err == nil {
		t.Error("expected an error for an unsupported storage driver")
	}
}

func TestLoadRequiresBotToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	if _, err := Load(); !stderrors.Is(err, errors.ErrMissingBotToken) {
		t.Errorf("expected ErrMissingBotToken, got %v", err)
	}
}
