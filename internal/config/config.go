package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	AlphaVantage struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"alpha_vantage"`
	Cache struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Refresh struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"refresh"`
	Search struct {
		Debounce time.Duration `yaml:"debounce"`
	} `yaml:"search"`
	Storage struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
		File   string `yaml:"file"`
	} `yaml:"storage"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Path returns CONFIG_PATH, or the default location when unset.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// Load reads .env (if present) and the YAML file at path, then applies environment
// variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"ALPHA_VANTAGE_API_KEY":  &c.AlphaVantage.APIKey,
		"ALPHA_VANTAGE_BASE_URL": &c.AlphaVantage.BaseURL,
		"STORAGE_DRIVER":         &c.Storage.Driver,
		"STORAGE_DSN":            &c.Storage.DSN,
		"SERVER_ADDR":            &c.Server.Addr,
		"LOG_LEVEL":              &c.Log.Level,
		"HTTPS_PROXY":            &c.Proxy,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"CACHE_TTL":        &c.Cache.TTL,
		"REFRESH_INTERVAL": &c.Refresh.Interval,
	}
	for name, dst := range durations {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		*dst = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.AlphaVantage.APIKey == "" {
		c.AlphaVantage.APIKey = "demo"
	}
	if c.AlphaVantage.BaseURL == "" {
		c.AlphaVantage.BaseURL = "https://www.alphavantage.co/query"
	}
	if c.AlphaVantage.Timeout == 0 {
		c.AlphaVantage.Timeout = 30 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = 30 * time.Second
	}
	if c.Search.Debounce == 0 {
		c.Search.Debounce = 300 * time.Millisecond
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.File == "" {
		c.Storage.File = "data/watchlists.json"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.AlphaVantage.APIKey == "" {
		return fmt.Errorf("alpha_vantage.api_key is required")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Refresh.Interval < time.Second {
		return fmt.Errorf("refresh.interval must be at least 1s")
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative")
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "file", "memory":
	case "sqlite", "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %s", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	return nil
}
