package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultTickInterval      = time.Second
	DefaultStorageQuotaBytes = 5 << 20
	DefaultRestDay           = "sunday"
	envPrefix                = "YOGAVRITA"
)

type Config struct {
	DataDir           string        `mapstructure:"-"`
	DBPath            string        `mapstructure:"db_path"`
	CatalogPath       string        `mapstructure:"catalog_path"`
	RestDay           string        `mapstructure:"rest_day"`
	TickInterval      time.Duration `mapstructure:"tick_interval"`
	StorageQuotaBytes int64         `mapstructure:"storage_quota_bytes"`
	LogLevel          string        `mapstructure:"log_level"`
	LogPath           string        `mapstructure:"log_path"`
	HooksPath         string        `mapstructure:"hooks_path"`
}

// New returns the defaults for dataDir without reading any file or env.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{
		DataDir:           dataDir,
		RestDay:           DefaultRestDay,
		TickInterval:      DefaultTickInterval,
		StorageQuotaBytes: DefaultStorageQuotaBytes,
		LogLevel:          "info",
	}
	return cfg.resolve()
}

// Load layers <dataDir>/config.yaml (or configFile when set) and YOGAVRITA_*
// environment variables over the defaults.
func Load(dataDir, configFile string) (Config, error) {
	defaults, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetDefault("rest_day", defaults.RestDay)
	v.SetDefault("tick_interval", defaults.TickInterval)
	v.SetDefault("storage_quota_bytes", defaults.StorageQuotaBytes)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("db_path", "")
	v.SetDefault("catalog_path", "")
	v.SetDefault("log_path", "")
	v.SetDefault("hooks_path", "")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(dataDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = dataDir
	return cfg.resolve()
}

func (c Config) resolve() (Config, error) {
	if _, err := c.RestWeekday(); err != nil {
		return Config{}, err
	}
	if c.TickInterval <= 0 {
		return Config{}, fmt.Errorf("tick_interval must be positive")
	}
	if c.StorageQuotaBytes <= 0 {
		return Config{}, fmt.Errorf("storage_quota_bytes must be positive")
	}
	c.DBPath = c.under(c.DBPath, "yogavrita.db")
	c.LogPath = c.under(c.LogPath, "yogavrita.log")
	c.HooksPath = c.under(c.HooksPath, filepath.Join("hooks", "hooks.json"))
	if c.CatalogPath != "" {
		c.CatalogPath = c.under(c.CatalogPath, "")
	}
	return c, nil
}

func (c Config) under(path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

func (c Config) RestWeekday() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.RestDay))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown rest_day %q", c.RestDay)
}
