package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load,
// e.g. LOGSPOOL_SERVER_PORT.
const envPrefix = "LOGSPOOL"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take precedence
// over values from the config file. Returns a populated Config struct or an
// error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// A missing config file is fine; everything can come from the
	// environment. Any other read error is fatal.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys through Unmarshal,
	// so bind every known key explicitly.
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values for all optional settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("spool.flush_threshold", 64)
	v.SetDefault("spool.flush_interval_seconds", 30)
	v.SetDefault("spool.max_buffered", 4096)

	v.SetDefault("scheduler.queue_capacity", 1024)
	v.SetDefault("scheduler.escalation_after_seconds", 0)

	v.SetDefault("collector.timeout_seconds", 10)
}

// configKeys lists every configuration key so env-only values bind properly.
func configKeys() []string {
	return []string{
		"server.port",
		"server.log_level",
		"server.shutdown_timeout",
		"database.url",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"auth.api_key_hash",
		"spool.flush_threshold",
		"spool.flush_interval_seconds",
		"spool.max_buffered",
		"scheduler.queue_capacity",
		"scheduler.escalation_after_seconds",
		"collector.url",
		"collector.timeout_seconds",
		"collector.api_key",
	}
}

// validate checks the loaded configuration against the struct tags.
func validate(cfg *Config) error {
	vld := validator.New()
	if err := vld.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
