// Package chart parses chart service flags and launches the service.
package chart

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/ziwei/internal/platform/cmd"
	server "github.com/louisbranch/ziwei/internal/services/chart/app"
)

// Config holds chart command configuration.
type Config struct {
	Port int `env:"CHART_PORT" envDefault:"8090"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The chart gRPC server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the chart gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceChart, func(context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
