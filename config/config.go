package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"forums-bot/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultPrefix        = "!"
	DefaultRetentionDays = 30
)

// LoadConfig loads configuration from the working directory.
func LoadConfig() error {
	return LoadConfigFrom(".")
}

// LoadConfigFrom loads configuration from several sources under dir:
// 1. .env (environment variables)
// 2. config.yaml (base configuration)
// 3. config/forums.json (merged into the base configuration)
// Environment variables override values of the same name in the files.
// Missing files are skipped; files that fail to parse are an error.
func LoadConfigFrom(dir string) error {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil {
		log.Printf("No .env file found in %s, skipping.", dir)
	}

	viper.SetDefault("bot.prefix", DefaultPrefix)
	viper.SetDefault("database.retention_days", DefaultRetentionDays)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to parse base config file: %w", err)
		}
		log.Printf("Base config file (config.yaml) not found, using environment variables and merged configs only.")
	}

	// MergeInConfig merges into the configuration read above.
	viper.SetConfigName("forums")
	viper.SetConfigType("json")
	viper.AddConfigPath(filepath.Join(dir, "config"))

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to merge forums config file: %w", err)
		}
		log.Printf("Forums config file (config/forums.json) not found, skipping merge.")
	}

	return nil
}

// Load decodes the loaded configuration.
func Load() (models.Config, error) {
	var cfg models.Config
	if err := viper.UnmarshalKey("forums", &cfg.Forums); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal forums config: %w", err)
	}
	if err := viper.UnmarshalKey("auth", &cfg.Auth); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal auth config: %w", err)
	}
	if err := viper.UnmarshalKey("database", &cfg.Database); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal database config: %w", err)
	}
	if err := viper.UnmarshalKey("health", &cfg.Health); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal health config: %w", err)
	}

	if cfg.Forums.Closeable == nil {
		cfg.Forums.Closeable = map[string]string{}
	}
	if cfg.Database.RetentionDays <= 0 {
		cfg.Database.RetentionDays = DefaultRetentionDays
	}
	return cfg, nil
}

// Token returns the bot token.
func Token() string {
	return viper.GetString("BOT_TOKEN")
}

// Prefix returns the message command prefix.
func Prefix() string {
	prefix := viper.GetString("bot.prefix")
	if prefix == "" {
		return DefaultPrefix
	}
	return prefix
}
