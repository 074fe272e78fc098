// Package manifest publishes the link state of each organize entry to object
// storage.
//
// After every completed pass the Service uploads a JSON document with the
// entry's link records to <manifest_prefix>/entry-<n>.json, so other tools can
// consume the library layout without access to the host filesystem.
//
// # Endpoints
//
//   - GET /manifests lists published manifest keys.
//   - GET /manifest/:entry returns the stored manifest of an entry.
package manifest
