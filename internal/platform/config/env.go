package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable the commands read, so a
// field tagged `env:"PORT"` is loaded from ZIWEI_PORT.
const EnvPrefix = "ZIWEI_"

// ParseEnv loads configuration from ZIWEI_-prefixed environment variables.
func ParseEnv(target any) error {
	return ParseEnvWithOptions(target, env.Options{Prefix: EnvPrefix})
}

// ParseEnvWithOptions loads configuration with explicit parser options.
func ParseEnvWithOptions(target any, opts env.Options) error {
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
