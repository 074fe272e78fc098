// Package journal records link decisions in a database.
//
// The Service implements reconcile.Recorder: every create, override and
// removal, plus a summary row per completed pass, is written to the
// link_events table through GORM. The journal is optional and enabled by
// database.enabled; SQLite is the default backend.
//
// # Endpoints
//
//   - GET /journal?destination=&entry=&limit= lists rows, newest first.
package journal
