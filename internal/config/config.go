package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "USEMYTIME_"

type HTTP struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes    int64         `yaml:"max_upload_bytes"`
}

type Storage struct {
	// Driver is "memory" or "sqlite".
	Driver         string `yaml:"driver"`
	DSN            string `yaml:"dsn"`
	AttachmentsDir string `yaml:"attachments_dir"`
}

// Pool sizes the background worker pool that closes timers on page exit.
type Pool struct {
	Workers int `yaml:"workers"`
	Size    int `yaml:"size"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	HTTP    HTTP    `yaml:"http"`
	Storage Storage `yaml:"storage"`
	Pool    Pool    `yaml:"pool"`
	Log     Log     `yaml:"log"`
}

func New() Config {
	return Config{
		HTTP: HTTP{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			MaxUploadBytes:    10 << 20,
		},
		Storage: Storage{
			Driver:         "sqlite",
			DSN:            "usemytime.db",
			AttachmentsDir: "media",
		},
		Pool: Pool{
			Workers: 5,
			Size:    100,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (a missing
// file is not an error) and then with USEMYTIME_* environment variables.
func Load(path string) (Config, error) {
	cfg := New()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set("HTTP_ADDR", &c.HTTP.Addr)
	set("DB_DRIVER", &c.Storage.Driver)
	set("DB_DSN", &c.Storage.DSN)
	set("ATTACHMENTS_DIR", &c.Storage.AttachmentsDir)
	set("LOG_LEVEL", &c.Log.Level)
	set("LOG_FORMAT", &c.Log.Format)
}

func (c *Config) normalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("http.addr is required")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("http.shutdown_timeout must be positive")
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return fmt.Errorf("http.max_upload_bytes must be positive")
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for sqlite")
		}
	default:
		return fmt.Errorf("storage.driver must be 'memory' or 'sqlite'")
	}
	if c.Storage.AttachmentsDir == "" {
		return fmt.Errorf("storage.attachments_dir is required")
	}
	if c.Pool.Workers <= 0 || c.Pool.Size <= 0 {
		return fmt.Errorf("pool.workers and pool.size must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	return nil
}
