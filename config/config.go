// Package config loads service configuration from a YAML file, .env files
// and TEAMCAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/warp/team-calendar/generic"
)

// Config represents application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	TeamView TeamViewConfig `mapstructure:"teamview"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig represents the SQLite store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"` // ":memory:" for an in-memory database
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// TeamViewConfig tunes the team view orchestrator
type TeamViewConfig struct {
	MaxConcurrency int    `mapstructure:"max_concurrency"` // 0 = unbounded
	Period         string `mapstructure:"period"`
}

// HolidaysConfig tunes the holiday cache
type HolidaysConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 0 disables caching
}

// EnvPrefix is the prefix of environment overrides, e.g. TEAMCAL_SERVER_PORT.
const EnvPrefix = "TEAMCAL"

// Load reads configuration. An empty configPath searches the usual places;
// a missing file is fine and leaves the defaults in place.
func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.teamcal")
		v.AddConfigPath("/etc/teamcal")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	v.SetDefault("database.path", "teamcal.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("teamview.max_concurrency", 0)
	v.SetDefault("teamview.period", string(generic.PeriodCalendarMonth))

	v.SetDefault("holidays.cache_ttl", 5*time.Minute)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.TeamView.MaxConcurrency < 0 {
		return fmt.Errorf("teamview.max_concurrency must be non-negative")
	}
	if _, err := generic.ParsePeriodType(c.TeamView.Period); err != nil {
		return fmt.Errorf("teamview.period: %w", err)
	}
	if c.Holidays.CacheTTL < 0 {
		return fmt.Errorf("holidays.cache_ttl must be non-negative")
	}
	return nil
}

// PeriodType returns the configured default period.
func (c *Config) PeriodType() generic.PeriodType {
	pt, _ := generic.ParsePeriodType(c.TeamView.Period)
	return pt
}
