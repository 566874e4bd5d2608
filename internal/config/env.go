package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// loadDotenv reads ./.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
var loadDotenv = func() {
	_ = godotenv.Load()
}

// parseEnv overlays cfg with the environment. Unset variables leave the
// current values untouched.
func parseEnv(cfg *Config) error {
	loadDotenv()
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
