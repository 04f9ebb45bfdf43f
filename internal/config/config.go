// Package config loads engine settings from the environment. All variables
// are prefixed WARROOM_ and every field has a sensible default, so a bare
// invocation works out of the box.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// DBPath is the SQLite database location. ":memory:" runs fully
	// in-memory.
	DBPath string `envconfig:"DB" default:"warroom.db"`
	// Plan selects the quota plan: starter, growth or scale.
	Plan string `envconfig:"PLAN" default:"starter"`
	// GenerationDelay is how long a move stays in generating before the
	// deferred activation fires.
	GenerationDelay time.Duration `envconfig:"GENERATION_DELAY" default:"3s"`
	// LogPath receives structured use-case and notification logs. Empty
	// disables logging.
	LogPath string `envconfig:"LOG" default:""`
}

// Load reads WARROOM_* environment variables over the defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("warroom", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}
