// Package config loads Kangaroo configuration from TOML files and
// KANGAROO_ environment variables via Viper.
//
// Sources are merged in precedence order: defaults, then the user
// config file (~/.config/kangaroo/kangaroo.toml or the platform
// equivalent), then a kangaroo.toml found by walking up from the
// working directory, then environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/sanjacob/kangaroo/errors"
)

// Config is the full Kangaroo configuration.
type Config struct {
	Portal   PortalConfig   `mapstructure:"portal"`
	Download DownloadConfig `mapstructure:"download"`
	Database DatabaseConfig `mapstructure:"database"`
}

// PortalConfig controls how the certificate portal is crawled.
type PortalConfig struct {
	BaseURL               string `mapstructure:"base_url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	RetryAttempts         int    `mapstructure:"retry_attempts"`
	RequestsPerMinute     int    `mapstructure:"requests_per_minute"` // 0 = unlimited
}

// DownloadConfig controls batch downloads and where results land.
type DownloadConfig struct {
	BatchSize      int    `mapstructure:"batch_size"`
	Workers        int    `mapstructure:"workers"`
	Folder         string `mapstructure:"folder"`
	FilenameFormat string `mapstructure:"filename_format"` // fmt verb receives the batch number
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

var (
	globalConfig  *Config
	viperInstance *viper.Viper
)

// Load reads the configuration, caching it for subsequent calls.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// LoadWithViper loads configuration from a provided Viper instance,
// bypassing the cache. Used by tests.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// Validate rejects configurations that cannot drive a download.
func (c *Config) Validate() error {
	if c.Download.BatchSize < 1 {
		return errors.Newf("download.batch_size must be at least 1, got %d", c.Download.BatchSize)
	}
	if c.Download.Workers < 1 {
		return errors.Newf("download.workers must be at least 1, got %d", c.Download.Workers)
	}
	if c.Portal.RetryAttempts < 1 {
		return errors.Newf("portal.retry_attempts must be at least 1, got %d", c.Portal.RetryAttempts)
	}
	if c.Portal.RequestsPerMinute < 0 {
		return errors.Newf("portal.requests_per_minute must not be negative, got %d", c.Portal.RequestsPerMinute)
	}
	if !strings.Contains(c.Download.FilenameFormat, "%") {
		return errors.Newf("download.filename_format needs a fmt verb for the batch number, got %q", c.Download.FilenameFormat)
	}
	return nil
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("portal.base_url", "http://www.pace.sep.gob.mx/certificadosdgb/certificadoremesadetalles/")
	v.SetDefault("portal.request_timeout_seconds", 30)
	v.SetDefault("portal.retry_attempts", 4)
	v.SetDefault("portal.requests_per_minute", 0)

	v.SetDefault("download.batch_size", 1000)
	v.SetDefault("download.workers", 8)
	v.SetDefault("download.folder", "Certificates")
	v.SetDefault("download.filename_format", "certificate_data_%03d.json")

	v.SetDefault("database.path", "kangaroo.db")
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetConfigType("toml")

	v.SetEnvPrefix("KANGAROO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if userPath := userConfigPath(); userPath != "" {
		v.SetConfigFile(userPath)
		_ = v.MergeInConfig()
	}
	if projectPath := findProjectConfig(); projectPath != "" {
		v.SetConfigFile(projectPath)
		_ = v.MergeInConfig()
	}

	viperInstance = v
	return v
}

// userConfigPath returns the per-user config file when it exists.
func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "kangaroo", "kangaroo.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// findProjectConfig searches for kangaroo.toml by walking up the
// directory tree from the working directory.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, "kangaroo.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
