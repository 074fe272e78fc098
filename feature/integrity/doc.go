// Package integrity provides health checks over the materialized link tree.
//
// Unlike the reconcile engine, which decides what should exist, this package
// compares that decision with what is actually on disk and in the optional
// backends.
//
// # Checks Provided
//
//   - Targets: Checks that the target directory of every enabled entry exists.
//   - Links: Compares every registry record with the link at its destination
//     (missing, not a symlink, wrong target, origin gone).
//   - Journal: Validates that the journal table carries the expected columns.
//   - Manifests: Reports entries without a published manifest and manifests
//     left behind by removed entries.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/targets : Runs targets check (supports ?fix=true).
//   - GET /integrity/links : Runs links check (supports ?fix=true and ?entry=N).
//   - GET /integrity/journal : Runs journal schema check.
//   - GET /integrity/manifests : Runs manifest check.
package integrity
