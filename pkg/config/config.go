// Package config provides the configuration system for the NetSuite tap.
// BaseConfig holds the sections every run needs and NetSuiteConfig embeds it
// with the account and stream selection.
//
// The configuration is organized into logical sections:
//   - Performance: page size, concurrency, output buffering
//   - Timeouts: connection and request timeouts
//   - Reliability: retry policy, circuit breaker, rate limiting
//   - Security: authentication type and credentials
//   - Observability: metrics, tracing, logging
//
// Example usage:
//
//	cfg := config.NewNetSuiteConfig("123456")
//	cfg.Performance.PageSize = 500
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"time"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
)

// Supported authentication types
const (
	AuthTypeOAuth2 = "oauth2"
	AuthTypeToken  = "token"
)

// BaseConfig is the shared configuration structure for a tap run.
type BaseConfig struct {
	// Name identifies the tap instance
	Name string `yaml:"name" json:"name"`
	// Version indicates the configuration version
	Version string `yaml:"version" json:"version"`

	// Performance settings control throughput and resource usage
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Timeouts define various timeout durations
	Timeouts TimeoutConfig `yaml:"timeouts" json:"timeouts"`

	// Reliability settings for error handling and resilience
	Reliability ReliabilityConfig `yaml:"reliability" json:"reliability"`

	// Security configuration for authentication
	Security SecurityConfig `yaml:"security" json:"security"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// PerformanceConfig contains all performance-related settings.
type PerformanceConfig struct {
	// PageSize is the number of records requested per search page
	PageSize int `yaml:"page_size" json:"page_size"`
	// MaxConcurrency limits how many streams are extracted at once
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency"`
	// BufferSize sets the output writer buffer in bytes
	BufferSize int `yaml:"buffer_size" json:"buffer_size"`
}

// TimeoutConfig contains all timeout-related settings.
type TimeoutConfig struct {
	// Request timeout for individual HTTP calls
	Request time.Duration `yaml:"request" json:"request"`
	// Connection timeout for establishing connections
	Connection time.Duration `yaml:"connection" json:"connection"`
	// Idle timeout before closing inactive connections
	Idle time.Duration `yaml:"idle" json:"idle"`
	// KeepAlive interval for connection health checks
	KeepAlive time.Duration `yaml:"keep_alive" json:"keep_alive"`
}

// ReliabilityConfig contains reliability and error handling settings.
// Retries apply to the remote session only; stream extraction never retries.
type ReliabilityConfig struct {
	// RetryAttempts sets maximum retry attempts for a failed HTTP call
	RetryAttempts int `yaml:"retry_attempts" json:"retry_attempts"`
	// RetryDelay is the initial delay between retries
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
	// RetryMultiplier increases delay exponentially
	RetryMultiplier float64 `yaml:"retry_multiplier" json:"retry_multiplier"`
	// MaxRetryDelay caps the maximum retry delay
	MaxRetryDelay time.Duration `yaml:"max_retry_delay" json:"max_retry_delay"`
	// CircuitBreaker enables circuit breaker pattern
	CircuitBreaker bool `yaml:"circuit_breaker" json:"circuit_breaker"`
	// RateLimitPerSec limits requests per second (0 = unlimited)
	RateLimitPerSec int `yaml:"rate_limit_per_sec" json:"rate_limit_per_sec"`
	// FailFast stops the sync on the first failing stream
	FailFast bool `yaml:"fail_fast" json:"fail_fast"`
}

// SecurityConfig contains authentication settings.
type SecurityConfig struct {
	// TLSSkipVerify disables certificate verification (insecure)
	TLSSkipVerify bool `yaml:"tls_skip_verify" json:"tls_skip_verify"`
	// AuthType specifies authentication method (oauth2, token)
	AuthType string `yaml:"auth_type" json:"auth_type"`
	// Credentials stores authentication credentials (use env vars in production)
	Credentials map[string]string `yaml:"credentials" json:"credentials"`
}

// ObservabilityConfig contains monitoring and observability settings.
type ObservabilityConfig struct {
	// EnableMetrics activates prometheus collectors
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// MetricsAddr is the listen address for /metrics, empty to disable
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
	// EnableTracing activates OpenTelemetry spans
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
	// TracingSampleRate controls trace sampling (0.0-1.0)
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogEncoding selects json or console output
	LogEncoding string `yaml:"log_encoding" json:"log_encoding"`
}

// NewBaseConfig creates a new BaseConfig with sensible defaults.
func NewBaseConfig(name string) *BaseConfig {
	return &BaseConfig{
		Name:    name,
		Version: "1.0.0",
		Performance: PerformanceConfig{
			PageSize:       200,
			MaxConcurrency: 4,
			BufferSize:     64 * 1024,
		},
		Timeouts: TimeoutConfig{
			Request:    2 * time.Minute,
			Connection: 10 * time.Second,
			Idle:       90 * time.Second,
			KeepAlive:  30 * time.Second,
		},
		Reliability: ReliabilityConfig{
			RetryAttempts:   3,
			RetryDelay:      time.Second,
			RetryMultiplier: 2.0,
			MaxRetryDelay:   60 * time.Second,
			CircuitBreaker:  true,
			RateLimitPerSec: 0,
			FailFast:        false,
		},
		Security: SecurityConfig{
			AuthType:    AuthTypeOAuth2,
			Credentials: make(map[string]string),
		},
		Observability: ObservabilityConfig{
			EnableMetrics:     true,
			EnableTracing:     false,
			TracingSampleRate: 0.1,
			LogLevel:          "info",
			LogEncoding:       "json",
		},
	}
}

// Validate checks required fields and value ranges.
func (bc *BaseConfig) Validate() error {
	if bc.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "name is required")
	}
	if bc.Performance.PageSize <= 0 || bc.Performance.PageSize > 1000 {
		return errors.New(errors.ErrorTypeConfig, "page_size must be between 1 and 1000")
	}
	if bc.Performance.MaxConcurrency <= 0 {
		return errors.New(errors.ErrorTypeConfig, "max_concurrency must be positive")
	}
	if bc.Reliability.RetryAttempts < 0 {
		return errors.New(errors.ErrorTypeConfig, "retry_attempts cannot be negative")
	}
	if bc.Reliability.RateLimitPerSec < 0 {
		return errors.New(errors.ErrorTypeConfig, "rate_limit_per_sec cannot be negative")
	}
	if bc.Observability.TracingSampleRate < 0 || bc.Observability.TracingSampleRate > 1 {
		return errors.New(errors.ErrorTypeConfig, "tracing_sample_rate must be between 0 and 1")
	}
	return bc.Security.validate()
}

func (s *SecurityConfig) validate() error {
	var required []string
	switch s.AuthType {
	case AuthTypeOAuth2:
		required = []string{"client_id", "client_secret", "refresh_token"}
	case AuthTypeToken:
		required = []string{"access_token"}
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unsupported auth_type %q", s.AuthType)
	}
	for _, key := range required {
		if s.Credentials[key] == "" {
			return errors.Newf(errors.ErrorTypeConfig, "credentials.%s is required for auth_type %s", key, s.AuthType)
		}
	}
	return nil
}

// IsRateLimited returns true if rate limiting is enabled
func (r *ReliabilityConfig) IsRateLimited() bool {
	return r.RateLimitPerSec > 0
}

// HasCredentials returns true if credentials are configured
func (s *SecurityConfig) HasCredentials() bool {
	return len(s.Credentials) > 0
}

// Credential returns a named credential, or empty
func (s *SecurityConfig) Credential(key string) string {
	return s.Credentials[key]
}
