package config

import "time"

// SetDefaults fills in zero-valued fields with sensible defaults
func SetDefaults(cfg *Config) {
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "dispatch.db"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = time.Hour
	}

	if cfg.Pipeline.Cache.TTL == 0 {
		cfg.Pipeline.Cache.TTL = 30 * time.Second
	}
	if cfg.Pipeline.RateLimit.Requests == 0 {
		cfg.Pipeline.RateLimit.Requests = 100
	}
	if cfg.Pipeline.RateLimit.Burst == 0 {
		cfg.Pipeline.RateLimit.Burst = 20
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}
