// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which reports whether it is
// enabled and registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registered features and loads the enabled ones in
// registration order. Features such as 'links', 'journal' or 'manifest' can be
// developed and tested in isolation.
package loader
