package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr      = ":8080"
	defaultRootLocation    = "upload-dir"
	defaultMaxUploadBytes  = 128 << 20
	defaultTempTTL         = 24 * time.Hour
	defaultJanitorInterval = 30 * time.Minute
)

type Config struct {
	ListenAddr      string        `yaml:"listen_addr" json:"listen_addr"`
	RootLocation    string        `yaml:"root_location" json:"root_location"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	ResetOnStart    bool          `yaml:"reset_on_start" json:"reset_on_start"`
	LogLevel        string        `yaml:"log_level" json:"log_level"`
	LogFormat       string        `yaml:"log_format" json:"log_format"`
	AdminEnabled    bool          `yaml:"admin_enabled" json:"admin_enabled"`
	TempTTL         time.Duration `yaml:"temp_ttl" json:"temp_ttl"`
	JanitorInterval time.Duration `yaml:"janitor_interval" json:"janitor_interval"`
}

// Default возвращает конфигурацию, с которой сервис поднимается без файла.
func Default() *Config {
	return &Config{
		ListenAddr:      defaultListenAddr,
		RootLocation:    defaultRootLocation,
		MaxUploadBytes:  defaultMaxUploadBytes,
		LogLevel:        "info",
		LogFormat:       "json",
		TempTTL:         defaultTempTTL,
		JanitorInterval: defaultJanitorInterval,
	}
}

// Load читает YAML-конфигурацию, применяет ENV-переопределения и возвращает актуальную структуру.
// Отсутствие файла не ошибка: берутся значения по умолчанию.
func Load() (*Config, error) {
	path := getenv("CONFIG_PATH", "./config.yaml")

	c := Default()
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if err := applyEnv(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootLocation) == "" {
		return fmt.Errorf("root_location is not configured")
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("listen_addr is not configured")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes must be >= 0")
	}
	if c.TempTTL < 0 || c.JanitorInterval < 0 {
		return fmt.Errorf("temp_ttl and janitor_interval must be >= 0")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.LogFormat)
	}

	return nil
}

func applyEnv(c *Config) error {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("ROOT_LOCATION"); v != "" {
		c.RootLocation = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("RESET_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RESET_ON_START: %w", err)
		}
		c.ResetOnStart = b
	}
	if v := os.Getenv("ADMIN_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ADMIN_ENABLED: %w", err)
		}
		c.AdminEnabled = b
	}
	if v := os.Getenv("TEMP_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TEMP_TTL: %w", err)
		}
		c.TempTTL = d
	}
	if v := os.Getenv("JANITOR_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JANITOR_INTERVAL: %w", err)
		}
		c.JanitorInterval = d
	}

	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
