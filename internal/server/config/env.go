package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays MEDMOD_* environment variables onto config.
// Unset variables leave the current value untouched; malformed values panic,
// like a malformed JSON file does.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
