package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://web-api.tp.entsoe.eu/api"
	DefaultPort    = 3044
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Entsoe    EntsoeConfig    `yaml:"entsoe"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Lookahead LookaheadConfig `yaml:"lookahead"`

	// Written by cmd/check-zones, served by /api/v1/availability.
	AvailabilityFile string `yaml:"availability_file"`
}

type EntsoeConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // 0 = no timeout
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"` // development | production
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	DevMode bool   `yaml:"dev_mode"`
}

// LookaheadConfig sizes the fetch windows of the forecast endpoints, in hours.
type LookaheadConfig struct {
	DefaultHours int `yaml:"default_hours"`
	NightHours   int `yaml:"night_hours"`
	BufferHours  int `yaml:"buffer_hours"`
}

// env var -> config key
var envBindings = map[string]string{
	"entsoe.api_key":    "ENTSOE_API_KEY",
	"entsoe.base_url":   "ENTSOE_BASE_URL",
	"entsoe.timeout":    "ENTSOE_TIMEOUT",
	"server.port":       "API_PORT",
	"server.env":        "API_ENV",
	"logging.level":     "LOG_LEVEL",
	"availability_file": "AVAILABILITY_FILE",
}

func Default() *Config {
	return &Config{
		Entsoe:  EntsoeConfig{BaseURL: DefaultBaseURL},
		Server:  ServerConfig{Port: DefaultPort, Env: "development"},
		Logging: LoggingConfig{Level: "info"},
		Lookahead: LookaheadConfig{
			DefaultHours: 24,
			NightHours:   48,
			BufferHours:  1,
		},
		AvailabilityFile: "./data/availability.json",
	}
}

// Load reads path (optional), applies environment overrides, fills defaults
// and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(c); err != nil {
		return nil, err
	}
	c.fillDefaults()
	return c, nil
}

func applyEnv(c *Config) error {
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	if v.IsSet("entsoe.api_key") {
		c.Entsoe.APIKey = strings.TrimSpace(v.GetString("entsoe.api_key"))
	}
	if v.IsSet("entsoe.base_url") {
		c.Entsoe.BaseURL = v.GetString("entsoe.base_url")
	}
	if v.IsSet("entsoe.timeout") {
		d, err := time.ParseDuration(v.GetString("entsoe.timeout"))
		if err != nil {
			return fmt.Errorf("ENTSOE_TIMEOUT: %w", err)
		}
		c.Entsoe.Timeout = d
	}
	if v.IsSet("server.port") {
		port := v.GetInt("server.port")
		if port == 0 {
			return fmt.Errorf("API_PORT: invalid port %q", v.GetString("server.port"))
		}
		c.Server.Port = port
	}
	if v.IsSet("server.env") {
		c.Server.Env = v.GetString("server.env")
	}
	if v.IsSet("logging.level") {
		c.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("availability_file") {
		c.AvailabilityFile = v.GetString("availability_file")
	}
	return nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Entsoe.BaseURL == "" {
		c.Entsoe.BaseURL = d.Entsoe.BaseURL
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.Env == "" {
		c.Server.Env = d.Server.Env
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Lookahead.DefaultHours == 0 {
		c.Lookahead.DefaultHours = d.Lookahead.DefaultHours
	}
	if c.Lookahead.NightHours == 0 {
		c.Lookahead.NightHours = d.Lookahead.NightHours
	}
	if c.AvailabilityFile == "" {
		c.AvailabilityFile = d.AvailabilityFile
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Entsoe.APIKey == "" {
		return errors.New("entsoe.api_key is required (set ENTSOE_API_KEY)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Entsoe.Timeout < 0 {
		return errors.New("entsoe.timeout must not be negative")
	}
	if c.Lookahead.DefaultHours < 0 || c.Lookahead.NightHours < 0 || c.Lookahead.BufferHours < 0 {
		return errors.New("lookahead hours must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
