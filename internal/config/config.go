package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Spool     SpoolConfig     `mapstructure:"spool"     validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Collector CollectorConfig `mapstructure:"collector"`
}

// ServerConfig contains all HTTP server related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"gte=0"` // seconds
}

// DatabaseConfig contains the settings for the optional postgres sink.
// An empty URL disables the sink entirely.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains authentication settings for the ops endpoints.
// APIKeyHash is a bcrypt hash of the shared API key; clients exchange the
// plaintext key for a short-lived JWT at /api/auth/token.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	APIKeyHash           string `mapstructure:"api_key_hash"           validate:"required"`
}

// SpoolConfig controls the log buffer and its flush policy.
type SpoolConfig struct {
	// FlushThreshold is the buffered entry count that triggers a flush.
	FlushThreshold int `mapstructure:"flush_threshold" validate:"required,gt=0"`

	// FlushIntervalSeconds is the deadline-based flush period. Zero disables
	// the periodic flush so only the size threshold and explicit requests
	// cause synchronization.
	FlushIntervalSeconds int `mapstructure:"flush_interval_seconds" validate:"gte=0"`

	// MaxBuffered caps the buffer; beyond it the oldest entries are dropped
	// and counted.
	MaxBuffered int `mapstructure:"max_buffered" validate:"required,gt=0"`
}

// SchedulerConfig controls the priority-ordered serial worker.
type SchedulerConfig struct {
	// QueueCapacity bounds the pending task set.
	QueueCapacity int `mapstructure:"queue_capacity" validate:"required,gt=0"`

	// EscalationAfterSeconds promotes a task one priority level after it has
	// waited this long, preventing starvation of low-priority work. Zero
	// disables escalation.
	EscalationAfterSeconds int `mapstructure:"escalation_after_seconds" validate:"gte=0"`
}

// CollectorConfig describes the remote collector flushed entries are shipped
// to. An empty URL disables the collector sink.
type CollectorConfig struct {
	URL            string `mapstructure:"url"             validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
	APIKey         string `mapstructure:"api_key"`
}

// FlushInterval returns the periodic flush deadline as a duration.
func (c SpoolConfig) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalSeconds) * time.Second
}

// EscalationAfter returns the starvation escalation threshold as a duration.
func (c SchedulerConfig) EscalationAfter() time.Duration {
	return time.Duration(c.EscalationAfterSeconds) * time.Second
}

// Timeout returns the collector request timeout as a duration.
func (c CollectorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
