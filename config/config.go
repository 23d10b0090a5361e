// Package config loads service settings from an optional YAML file, .env
// files and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Editor    EditorConfig    `yaml:"editor"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	DevMode bool   `yaml:"dev_mode"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type AnalyzerConfig struct {
	SiteDomain string        `yaml:"site_domain"`
	BaseURL    string        `yaml:"base_url"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	CacheSize  int           `yaml:"cache_size"`
}

type EditorConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    "8082",
			GinMode: gin.ReleaseMode,
		},
		Logging: LoggingConfig{Level: "info"},
		Analyzer: AnalyzerConfig{
			SiteDomain: "example.com",
			BaseURL:    "https://example.com/blog/",
			CacheTTL:   30 * time.Minute,
			CacheSize:  1000,
		},
		Editor:    EditorConfig{Debounce: 500 * time.Millisecond},
		RateLimit: RateLimitConfig{PerSecond: 2, Burst: 5},
	}
}

// loadEnvFiles loads .env.development if present, otherwise .env.
// Variables already set in the environment are never overwritten.
func loadEnvFiles() error {
	for _, name := range []string{".env.development", ".env"} {
		err := godotenv.Load(name)
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Load builds the configuration. path may be empty, in which case only
// defaults, .env files and the environment are consulted.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("PORT", &cfg.Server.Port)
	setString("GIN_MODE", &cfg.Server.GinMode)
	setString("LOG_LEVEL", &cfg.Logging.Level)
	setString("SITE_DOMAIN", &cfg.Analyzer.SiteDomain)
	setString("BASE_URL", &cfg.Analyzer.BaseURL)

	if v := os.Getenv("DEV_MODE"); v != "" {
		cfg.Server.DevMode = v == "true"
	}

	if v := os.Getenv("DEBOUNCE_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse DEBOUNCE_MS: %w", err)
		}
		cfg.Editor.Debounce = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		perSecond, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse RATE_LIMIT: %w", err)
		}
		cfg.RateLimit.PerSecond = perSecond
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse RATE_BURST: %w", err)
		}
		cfg.RateLimit.Burst = burst
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse CACHE_TTL: %w", err)
		}
		cfg.Analyzer.CacheTTL = ttl
	}
	if v := os.Getenv("CACHE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse CACHE_SIZE: %w", err)
		}
		cfg.Analyzer.CacheSize = size
	}
	return nil
}

// Validate reports the first setting that cannot work
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port %q is not a valid TCP port", c.Server.Port)
	}
	switch c.Server.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("gin mode %q must be one of debug, release, test", c.Server.GinMode)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("log level %q is not recognized", c.Logging.Level)
	}
	if c.Analyzer.SiteDomain == "" {
		return errors.New("site domain is required")
	}
	if u, err := url.Parse(c.Analyzer.BaseURL); err != nil || c.Analyzer.BaseURL == "" || (u.Scheme != "" && u.Host == "") {
		return fmt.Errorf("base URL %q is not valid", c.Analyzer.BaseURL)
	}
	if !strings.HasSuffix(c.Analyzer.BaseURL, "/") {
		return fmt.Errorf("base URL %q must end with a slash", c.Analyzer.BaseURL)
	}
	if c.Analyzer.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %s", c.Analyzer.CacheTTL)
	}
	if c.Analyzer.CacheSize < 1 {
		return fmt.Errorf("cache size must be at least 1, got %d", c.Analyzer.CacheSize)
	}
	if c.Editor.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Editor.Debounce)
	}
	if c.RateLimit.PerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive, got %g", c.RateLimit.PerSecond)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate burst must be at least 1, got %d", c.RateLimit.Burst)
	}
	return nil
}
