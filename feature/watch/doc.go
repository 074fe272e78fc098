// Package watch drives the reconcile engine from filesystem events.
//
// Every source directory of an enabled entry is watched recursively with
// fsnotify. A create event under a source directory runs a full pass for the
// owning entry; a remove or rename event removes the links of the affected
// origin files. Events below an entry's target path are ignored.
//
// Passes of one entry never overlap. With a non-zero Debounce, create events
// are coalesced until the entry has been quiet for that long.
package watch
