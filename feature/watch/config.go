package watch

import "time"

// Config holds configuration for the filesystem watcher.
type Config struct {
	// Enabled starts a watcher for every enabled organize entry.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Debounce coalesces bursts of create events into one pass per entry.
	// Zero runs a pass for every event.
	Debounce time.Duration `mapstructure:"debounce" default:"0s"`
}
