// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports terminal and machine
// output and integrates with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, so that all logs related to a specific request can be correlated.
// Reconciliation passes attach pass_id and entry fields in the same way.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json, console, or auto (console when stderr is a terminal)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "auto"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
