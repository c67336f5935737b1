package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFile is read before environment overrides are applied. A missing file is not an error.
var DotEnvFile = ".env"

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	// godotenv.Load never overwrites variables that are already set
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	return nil
}
