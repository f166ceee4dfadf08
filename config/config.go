package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. CLINIC_LOG_LEVEL.
const EnvPrefix = "clinic"

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionConfig struct {
	// IdleTimeout ends a session after inactivity; zero disables expiry.
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" split_words:"true"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" split_words:"true"`
	// PatientID is the identity bound to sessions opened under the Patient role.
	PatientID string `mapstructure:"patient_id" split_words:"true"`
}

type AuditConfig struct {
	AuditedKinds []string `mapstructure:"audited_kinds" split_words:"true"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

type ShellConfig struct {
	// CommandTimeout bounds a single shell command; zero disables it.
	CommandTimeout time.Duration `mapstructure:"command_timeout" split_words:"true"`
}

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
	Audit   AuditConfig   `mapstructure:"audit"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Shell   ShellConfig   `mapstructure:"shell"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("session.idle_timeout", time.Duration(0))
	v.SetDefault("session.cleanup_interval", time.Minute)
	v.SetDefault("session.patient_id", "pat1")
	v.SetDefault("audit.audited_kinds", []string{"PATIENT", "APPOINTMENT", "TREATMENT"})
	v.SetDefault("seed.enabled", true)
	v.SetDefault("metrics.namespace", "clinic")
	v.SetDefault("shell.command_timeout", 30*time.Second)
}

// Default returns the built-in configuration without reading files or env.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return &cfg
}

// LoadConfig reads defaults, then the yaml file at path (or config.yml in the
// working directory or ./config when path is empty), then CLINIC_* env vars.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return &cfg, nil
}
