package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultSubject is the subject template: library label, entry count,
// day count.
const DefaultSubject = "New in %s on Plex - %d in %d day(s)"

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".plex-digest"))
		}

		// Check /etc
		v.AddConfigPath("/etc/plex-digest/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Tautulli defaults
	v.SetDefault("tautulli.url", "http://localhost:8181")

	// Email defaults
	v.SetDefault("email.port", 587)
	v.SetDefault("email.subject", DefaultSubject)

	// Artwork size defaults
	v.SetDefault("images.poster.height", 205)
	v.SetDefault("images.poster.width", 100)
	v.SetDefault("images.art.height", 100)
	v.SetDefault("images.art.width", 205)

	// Matching defaults
	v.SetDefault("matching.strategy", "substring")

	// Report defaults
	v.SetDefault("report.days", 1)
	v.SetDefault("report.library", "Movies")
	v.SetDefault("report.send_empty", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Tautulli.URL == "" {
		return fmt.Errorf("tautulli.url is required")
	}

	if cfg.Tautulli.APIKey == "" || cfg.Tautulli.APIKey == "your-api-key-here" {
		return fmt.Errorf("tautulli.api_key must be set to a valid API key")
	}

	if cfg.Email.Host == "" {
		return fmt.Errorf("email.host is required")
	}

	if cfg.Email.Port <= 0 {
		return fmt.Errorf("email.port must be a positive port number")
	}

	if cfg.Email.FromAddress == "" {
		return fmt.Errorf("email.from_address is required")
	}

	// Validate matching strategy
	validStrategies := map[string]bool{
		"substring": true,
		"exact":     true,
	}
	if !validStrategies[cfg.Matching.Strategy] {
		return fmt.Errorf("invalid matching strategy: %s", cfg.Matching.Strategy)
	}

	if cfg.Report.Days < 1 {
		return fmt.Errorf("report.days must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
