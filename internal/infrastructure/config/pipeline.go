package config

import "time"

// PipelineConfig holds dispatch pipeline configuration
type PipelineConfig struct {
	// Query result cache settings
	Cache CacheConfig `mapstructure:"cache"`

	// Dispatch rate limiting settings
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Enable Prometheus metrics collection
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// CacheConfig holds query cache configuration
type CacheConfig struct {
	// Enable the caching middleware
	Enabled bool `mapstructure:"enabled"`

	// Time before a cached result expires
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Enable the rate limiting middleware
	Enabled bool `mapstructure:"enabled"`

	// Maximum dispatches per second
	Requests int `mapstructure:"requests" validate:"omitempty,min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"omitempty,min=1"`
}
