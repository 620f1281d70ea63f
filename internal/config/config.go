// Package config loads server settings from defaults, an optional YAML
// file, a .env file and BGT_-prefixed environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BGT_SERVER_PORT.
const EnvPrefix = "BGT"

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Game   GameConfig   `mapstructure:"game"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxFastWorkers  int           `mapstructure:"max_fast_workers"`
	MaxSlowWorkers  int           `mapstructure:"max_slow_workers"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// GameConfig holds settings for the hosted game table
type GameConfig struct {
	Seed          int64  `mapstructure:"seed"`           // 0 seeds from the clock
	RandomStarter bool   `mapstructure:"random_starter"` // toss for the first roll instead of White
	AISide        string `mapstructure:"ai_side"`        // none, white or black
}

var (
	mu  sync.RWMutex
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_fast_workers", 16)
	v.SetDefault("server.max_slow_workers", 2)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("game.seed", 0)
	v.SetDefault("game.random_starter", false)
	v.SetDefault("game.ai_side", "")
}

// Init initializes the configuration. An empty configPath searches the
// default locations; a missing file falls back to defaults.
func Init(configPath string) error {
	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error loading .env: %w", err)
	}

	nv := viper.New()
	setViperDefaults(nv)

	readFile := true
	if configPath != "" {
		nv.SetConfigFile(configPath)
		// A specific file that does not exist is fine; use defaults.
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			readFile = false
		}
	} else {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath(".")
		nv.AddConfigPath("./config")
		nv.AddConfigPath("/etc/bgtable")
	}

	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if readFile {
		if err := nv.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	mu.Lock()
	cfg, v = c, nv
	mu.Unlock()
	return nil
}

// Get returns the global config instance, loading defaults on first use.
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}
	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// ConfigFilePath returns the path of the loaded config file, if any.
func ConfigFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// WatchConfig reloads the config file when it changes. Reloads that fail
// validation are passed to onChange as an error and leave the old config in
// place.
func WatchConfig(onChange func(*Config, error)) {
	mu.RLock()
	nv := v
	mu.RUnlock()
	if nv == nil || nv.ConfigFileUsed() == "" {
		return
	}

	nv.OnConfigChange(func(e fsnotify.Event) {
		c := &Config{}
		err := nv.Unmarshal(c)
		if err == nil {
			err = Validate(c)
		}
		if err == nil {
			mu.Lock()
			cfg = c
			mu.Unlock()
		}
		if onChange != nil {
			onChange(c, err)
		}
	})
	nv.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Server.MaxFastWorkers <= 0 {
		return fmt.Errorf("server.max_fast_workers must be positive")
	}
	if c.Server.MaxSlowWorkers <= 0 {
		return fmt.Errorf("server.max_slow_workers must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json")
	}

	switch strings.ToLower(c.Game.AISide) {
	case "", "none", "white", "black":
	default:
		return fmt.Errorf("game.ai_side must be none, white or black")
	}
	return nil
}
