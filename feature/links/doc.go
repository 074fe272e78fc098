// Package links exposes the link registry over HTTP and lets operators
// trigger reconciliation passes on demand.
//
// # HTTP Endpoints
//
//   - GET /links : Lists records (supports ?entry=N).
//   - GET /links/origin?path= : Records linking to a source file.
//   - GET /links/destination?path= : Record stored under a destination.
//   - POST /organize : Runs a pass over every entry (supports ?dry_run=true).
//   - POST /organize/:entry : Runs a pass over one entry.
//
// Passes triggered here are serialized; a second request while one runs is
// answered with 409 Conflict.
package links
