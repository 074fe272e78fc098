package server

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// LockFile guards against two engines managing the same link trees.
	LockFile string `mapstructure:"lock_file" default:""`
}

// LockPath returns the configured lock file, or medialink/medialink.lock in
// the XDG state directory.
func (c Config) LockPath() string {
	if c.LockFile != "" {
		return c.LockFile
	}
	return filepath.Join(xdg.StateHome, "medialink", "medialink.lock")
}

// Address returns the listen address for Fiber.
func (c Config) Address() string {
	return ":" + c.Port
}
