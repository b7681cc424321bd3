// internal/config/config.go
//
// Runtime configuration for crackle.
// Sources, later wins:
//   1. Defaults (DefaultConfig).
//   2. Optional YAML file named by CRACKLE_CONFIG (missing file = defaults).
//   3. Environment variables (a .env file is loaded into the environment by main).
//
// Durations are kept as strings in the file and parsed by the accessors,
// which fall back to the defaults on garbage.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration tree.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Game    GameConfig    `yaml:"game"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig points at the word service.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// CacheConfig controls the word-list cache and local word file.
type CacheConfig struct {
	Path      string `yaml:"path"` // ":memory:" keeps the cache in process
	TTL       string `yaml:"ttl"`
	Version   string `yaml:"version"`
	WordsFile string `yaml:"words_file"`
}

// GameConfig holds the front-end timings.
type GameConfig struct {
	RevealDelay     string `yaml:"reveal_delay"`
	ToastDuration   string `yaml:"toast_duration"`
	PenaltyCooldown string `yaml:"penalty_cooldown"`
	PenaltyAfter    int    `yaml:"penalty_after"`
	DailySalt       string `yaml:"daily_salt"`
}

// ServerConfig is the headless HTTP server.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ClientOrigin string `yaml:"client_origin"`
	Secret       string `yaml:"secret"` // empty = open server
}

// LoggingConfig picks level and sink.
type LoggingConfig struct {
	Level  string `yaml:"level"` // trace, debug, info, warn, error
	File   string `yaml:"file"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: "10s",
		},
		Cache: CacheConfig{
			Path:    "./data/crackle.db",
			TTL:     "168h",
			Version: "1.0",
		},
		Game: GameConfig{
			RevealDelay:     "1500ms",
			ToastDuration:   "3s",
			PenaltyCooldown: "5s",
			PenaltyAfter:    4,
			DailySalt:       "crackle",
		},
		Server: ServerConfig{
			Port:         "5175",
			ClientOrigin: "http://localhost:5173",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the CRACKLE_CONFIG file and
// the environment.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CRACKLE_CONFIG"))
}

// LoadFile is Load with an explicit YAML path; "" skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.API.BaseURL = getEnv("CRACKLE_API_URL", c.API.BaseURL)
	c.API.Timeout = getEnv("CRACKLE_HTTP_TIMEOUT", c.API.Timeout)

	c.Cache.Path = getEnv("CRACKLE_CACHE_PATH", c.Cache.Path)
	c.Cache.TTL = getEnv("CRACKLE_CACHE_TTL", c.Cache.TTL)
	c.Cache.Version = getEnv("CRACKLE_CACHE_VERSION", c.Cache.Version)
	c.Cache.WordsFile = getEnv("CRACKLE_WORDS_FILE", c.Cache.WordsFile)

	c.Game.RevealDelay = getEnv("CRACKLE_REVEAL_DELAY", c.Game.RevealDelay)
	c.Game.ToastDuration = getEnv("CRACKLE_TOAST_DURATION", c.Game.ToastDuration)
	c.Game.PenaltyCooldown = getEnv("CRACKLE_PENALTY_COOLDOWN", c.Game.PenaltyCooldown)
	c.Game.DailySalt = getEnv("CRACKLE_DAILY_SALT", c.Game.DailySalt)

	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ClientOrigin = getEnv("CLIENT_ORIGIN", c.Server.ClientOrigin)
	c.Server.Secret = getEnv("CRACKLE_SERVER_SECRET", c.Server.Secret)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.File = getEnv("CRACKLE_LOG_FILE", c.Logging.File)
	if v := os.Getenv("CRACKLE_PRETTY_LOGS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CRACKLE_PRETTY_LOGS: %w", err)
		}
		c.Logging.Pretty = b
	}
	return nil
}

// YAML renders the effective configuration with the secret masked.
func (c *Config) YAML() ([]byte, error) {
	out := *c
	if out.Server.Secret != "" {
		out.Server.Secret = "********"
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) HTTPTimeout() time.Duration { return duration(c.API.Timeout, 10*time.Second) }
func (c *Config) CacheTTL() time.Duration    { return duration(c.Cache.TTL, 7*24*time.Hour) }
func (c *Config) RevealDelay() time.Duration { return duration(c.Game.RevealDelay, 1500*time.Millisecond) }
func (c *Config) ToastDuration() time.Duration {
	return duration(c.Game.ToastDuration, 3*time.Second)
}
func (c *Config) PenaltyCooldown() time.Duration {
	return duration(c.Game.PenaltyCooldown, 5*time.Second)
}

func duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
