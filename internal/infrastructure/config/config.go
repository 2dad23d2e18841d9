// Package config loads the engine's process-level configuration:
// solver defaults, admission limits, the optional debug-artifact store,
// and logging, via viper + godotenv layering with go-playground/
// validator struct-tag checks. Nothing here configures a Bundle or
// RunOptions (those come from the caller per solve); this is
// host-process configuration only.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the engine process's configuration.
type Config struct {
	Solver  SolverConfig  `mapstructure:"solver"`
	Admission AdmissionConfig `mapstructure:"admission"`
	Artifacts ArtifactConfig `mapstructure:"artifacts"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SolverConfig carries the default RunOptions a caller gets when it
// doesn't override them explicitly.
type SolverConfig struct {
	Name             string  `mapstructure:"name" validate:"required"`
	TimeLimitSeconds float64 `mapstructure:"time_limit_seconds" validate:"gt=0"`
	MIPGap           float64 `mapstructure:"mip_gap" validate:"gte=0"`
	PalletTracking   bool    `mapstructure:"pallet_tracking"`
	AllowShortages   bool    `mapstructure:"allow_shortages"`
}

// AdmissionConfig bounds concurrent solves and the rate new ones are
// admitted at.
type AdmissionConfig struct {
	MaxConcurrentSolves int     `mapstructure:"max_concurrent_solves" validate:"gte=1"`
	RequestsPerSecond   float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst               int     `mapstructure:"burst" validate:"gte=1"`
}

// ArtifactConfig configures the optional debug-artifact store.
type ArtifactConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// LoadConfig loads configuration in priority order: environment
// variables (highest), then a config file, then defaults.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/swpe")
	}

	v.SetEnvPrefix("SWPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadConfigOrDefault loads configuration, falling back to pure
// defaults if loading fails (useful for tests and quick local runs).
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}

// MustLoadConfig loads configuration and panics on error, for use in
// main.go at process startup.
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
