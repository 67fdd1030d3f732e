package main

import (
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/dispatch-go/internal/adapters/cli"
	"github.com/andrescamacho/dispatch-go/internal/adapters/persistence"
	apptasks "github.com/andrescamacho/dispatch-go/internal/application/tasks"
	"github.com/andrescamacho/dispatch-go/internal/infrastructure/config"
	"github.com/andrescamacho/dispatch-go/internal/infrastructure/database"
	"github.com/andrescamacho/dispatch-go/pkg/middleware"
)

func main() {
	rootCmd := cli.NewRootCommand(newRuntime)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRuntime wires the whole pipeline from configuration. Wiring errors
// are fatal here, before the first dispatch.
func newRuntime() (*cli.Runtime, error) {
	path := cli.ConfigPath()
	if path == "" {
		path = os.Getenv("DG_CONFIG")
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	roles, err := apptasks.NewRoleRegistry()
	if err != nil {
		return nil, fmt.Errorf("building role registry: %w", err)
	}

	opts := apptasks.Options{
		Logger: middleware.NewStdLogger(log.New(logSink(cfg), "", log.LstdFlags)),
	}
	if cfg.Pipeline.MetricsEnabled {
		collector, err := middleware.NewMetricsCollector("dispatchgo", prometheus.DefaultRegisterer)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		opts.Metrics = collector
	}
	if cfg.Pipeline.RateLimit.Enabled {
		opts.Limiter = rate.NewLimiter(
			rate.Limit(cfg.Pipeline.RateLimit.Requests),
			cfg.Pipeline.RateLimit.Burst)
	}
	if cfg.Pipeline.Cache.Enabled {
		opts.TaskCache = middleware.NewCache(cfg.Pipeline.Cache.TTL)
	}

	m, err := apptasks.NewMediator(persistence.NewGormTaskRepository(db), roles, opts)
	if err != nil {
		return nil, fmt.Errorf("building mediator: %w", err)
	}

	return &cli.Runtime{Mediator: m, DB: db}, nil
}

func logSink(cfg *config.Config) *os.File {
	if cfg.Logging.Output == "stdout" {
		return os.Stdout
	}
	return os.Stderr
}
