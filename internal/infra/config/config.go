package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Chart      ChartConfig      `yaml:"chart"`
	Cache      CacheConfig      `yaml:"cache"`
	Calculator CalculatorConfig `yaml:"calculator"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string        `yaml:"address"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

// ChartConfig drives heatmap rendering.
type ChartConfig struct {
	Resolution int    `yaml:"resolution"`
	Palette    string `yaml:"palette"`
}

// CacheConfig controls the rendered-frame cache.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	TTL           time.Duration `yaml:"ttl"`
	MaxEntries    int           `yaml:"maxEntries"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
	Valkey        ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// CalculatorConfig holds the operating point shown before the user types anything.
type CalculatorConfig struct {
	DefaultTemperature float64 `yaml:"defaultTemperature"`
	DefaultUnit        string  `yaml:"defaultUnit"`
	DefaultHumidity    float64 `yaml:"defaultHumidity"`
}

// Palettes known to the renderer. Kept here so Validate does not depend on the domain packages.
var knownPalettes = map[string]struct{}{"canonical": {}, "classic": {}}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
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

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if err := envDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return err
	}
	if err := envDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return err
	}
	if err := envInt("CHART_RESOLUTION", &cfg.Chart.Resolution); err != nil {
		return err
	}
	if v := os.Getenv("CHART_PALETTE"); v != "" {
		cfg.Chart.Palette = strings.ToLower(v)
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if err := envDuration("CACHE_TTL", &cfg.Cache.TTL); err != nil {
		return err
	}
	if err := envInt("CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries); err != nil {
		return err
	}
	if err := envDuration("CACHE_SWEEP_INTERVAL", &cfg.Cache.SweepInterval); err != nil {
		return err
	}
	if v := os.Getenv("CACHE_VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("CACHE_VALKEY_PREFIX"); v != "" {
		cfg.Cache.Valkey.Prefix = v
	}
	if err := envFloat("CALC_DEFAULT_TEMPERATURE", &cfg.Calculator.DefaultTemperature); err != nil {
		return err
	}
	if v := os.Getenv("CALC_DEFAULT_UNIT"); v != "" {
		cfg.Calculator.DefaultUnit = strings.ToUpper(v)
	}
	if err := envFloat("CALC_DEFAULT_HUMIDITY", &cfg.Calculator.DefaultHumidity); err != nil {
		return err
	}
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Chart: ChartConfig{
			Resolution: 100,
			Palette:    "canonical",
		},
		Cache: CacheConfig{
			Enabled:       true,
			TTL:           30 * time.Minute,
			MaxEntries:    64,
			SweepInterval: 5 * time.Minute,
			Valkey: ValkeyConfig{
				Enabled: false,
				Prefix:  "vpd",
			},
		},
		Calculator: CalculatorConfig{
			DefaultTemperature: 75,
			DefaultUnit:        "F",
			DefaultHumidity:    50,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 {
		return errors.New("http timeouts must be positive")
	}
	if c.Chart.Resolution <= 0 || c.Chart.Resolution > 400 {
		return errors.New("chart.resolution must be between 1 and 400")
	}
	if _, ok := knownPalettes[c.Chart.Palette]; !ok {
		return fmt.Errorf("chart.palette %q is not a known palette", c.Chart.Palette)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return errors.New("cache.ttl must be positive when the cache is enabled")
		}
		if c.Cache.MaxEntries <= 0 {
			return errors.New("cache.maxEntries must be positive when the cache is enabled")
		}
		if c.Cache.SweepInterval < 0 {
			return errors.New("cache.sweepInterval cannot be negative")
		}
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	switch c.Calculator.DefaultUnit {
	case "C", "F":
	default:
		return fmt.Errorf("calculator.defaultUnit must be C or F, got %q", c.Calculator.DefaultUnit)
	}
	if c.Calculator.DefaultHumidity < 0 || c.Calculator.DefaultHumidity > 100 {
		return errors.New("calculator.defaultHumidity must be within [0, 100]")
	}
	return nil
}
