// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// listen port, the API key and the location of the single-instance lock file.
package server
