// Package config loads and validates service configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Sort      SortConfig      `mapstructure:"sort"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CORSConfig lists the origins allowed per endpoint family.
type CORSConfig struct {
	PrimeOrigins []string `mapstructure:"prime_origins"`
	SortOrigins  []string `mapstructure:"sort_origins"`
}

// SortConfig bounds sort requests.
type SortConfig struct {
	MaxElements int `mapstructure:"max_elements"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// TelemetryConfig configures the OpenTelemetry tracer provider.
type TelemetryConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	ServiceVersion string  `mapstructure:"service_version"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
	StdoutTraces   bool    `mapstructure:"stdout_traces"`
}

// searchPaths are consulted for algoviz.{yaml,json,toml} when no explicit
// config file is given.
var searchPaths = []string{".", "/etc/algoviz", "$HOME/.algoviz"}

// Load builds a Config from disk/environment. An empty path falls back to the
// search paths; finding no file there is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ALGOVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Cloud Run injects PORT.
	if err := v.BindEnv("server.port", "ALGOVIZ_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("algoviz")
		for _, dir := range searchPaths {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		CORS: CORSConfig{
			PrimeOrigins: []string{"*"},
			SortOrigins:  []string{"http://localhost:3000"},
		},
		Sort:    SortConfig{MaxElements: 100},
		Logging: LoggingConfig{Development: true},
		Telemetry: TelemetryConfig{
			ServiceName:    "algoviz",
			ServiceVersion: "dev",
			SampleRatio:    1,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("cors.prime_origins", d.CORS.PrimeOrigins)
	v.SetDefault("cors.sort_origins", d.CORS.SortOrigins)
	v.SetDefault("sort.max_elements", d.Sort.MaxElements)
	v.SetDefault("logging.development", d.Logging.Development)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	v.SetDefault("telemetry.service_version", d.Telemetry.ServiceVersion)
	v.SetDefault("telemetry.sample_ratio", d.Telemetry.SampleRatio)
	v.SetDefault("telemetry.stdout_traces", d.Telemetry.StdoutTraces)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}
	if len(c.CORS.PrimeOrigins) == 0 {
		return fmt.Errorf("cors.prime_origins must list at least one origin")
	}
	if len(c.CORS.SortOrigins) == 0 {
		return fmt.Errorf("cors.sort_origins must list at least one origin")
	}
	if c.Sort.MaxElements <= 0 {
		return fmt.Errorf("sort.max_elements must be > 0")
	}
	if c.Telemetry.ServiceName == "" {
		return fmt.Errorf("telemetry.service_name must be set")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio must be within [0, 1]")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
