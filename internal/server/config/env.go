package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays fields whose environment variables are set. Unset
// variables leave the current value alone. Malformed values panic, the same
// as a broken JSON file.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
