package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/dkrasnov/auto-caption-bot/internal/shared/errors"
)

type Config struct {
	TelegramBotToken string `koanf:"telegram_bot_token"`
	TelegramAPIURL   string `koanf:"telegram_api_url"`
	AuditChannelID   int64  `koanf:"audit_channel_id"`
	StorageDriver    string `koanf:"storage_driver"`
	StoragePath      string `koanf:"storage_path"`
	HTTPPort         string `koanf:"http_port"`
	GreetingPhotoURL string `koanf:"greeting_photo_url"`
	AppEnv           AppEnv `koanf:"app_env"`
}

const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
)

func Load() (*Config, error) {
	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("telegram_api_url") {
		k.Set("telegram_api_url", "https://api.telegram.org")
	}
	if !k.Exists("storage_driver") {
		k.Set("storage_driver", StorageDriverFile)
	}
	if !k.Exists("storage_path") {
		k.Set("storage_path", "./data")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	appEnv, err := ParseAppEnv(k.String("app_env"))
	if err != nil {
		return nil, oops.With("app_env", k.String("app_env")).Wrap(err)
	}
	cfg.AppEnv = appEnv

	if cfg.TelegramBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}
	if cfg.AuditChannelID == 0 {
		return nil, errors.ErrMissingAuditChannel
	}
	if cfg.StorageDriver != StorageDriverFile && cfg.StorageDriver != StorageDriverSQLite {
		return nil, oops.Errorf("unsupported storage_driver: %s", cfg.StorageDriver)
	}

	return &cfg, nil
}
