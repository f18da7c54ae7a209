package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// parseEnv overlays CREDKEEPER_* environment variables. Unset variables
// leave the current value alone.
func parseEnv(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}
