package reconcile

import (
	"sort"
	"sync"
	"time"
)

// Registry maps destination paths to link records. It is safe for concurrent
// use and is shared by every Layer of an Engine.
type Registry struct {
	mu       sync.RWMutex
	byDest   map[string]LinkRecord
	byOrigin map[string][]string
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byDest:   make(map[string]LinkRecord),
		byOrigin: make(map[string][]string),
		now:      time.Now,
	}
}

// Find returns the record stored at dest.
func (r *Registry) Find(dest string) (LinkRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byDest[dest]
	return rec, ok
}

// FindByOrigin returns the first record, in insertion order, whose origin is
// origin.
func (r *Registry) FindByOrigin(origin string) (LinkRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dests := r.byOrigin[origin]
	if len(dests) == 0 {
		return LinkRecord{}, false
	}
	return r.byDest[dests[0]], true
}

// FindAllByOrigin returns every record whose origin is origin.
func (r *Registry) FindAllByOrigin(origin string) []LinkRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dests := r.byOrigin[origin]
	out := make([]LinkRecord, 0, len(dests))
	for _, d := range dests {
		out = append(out, r.byDest[d])
	}
	return out
}

// Upsert inserts or replaces the record at rec.Destination.
func (r *Registry) Upsert(rec LinkRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(rec)
}

// Remove deletes the record at dest and returns it.
func (r *Registry) Remove(dest string) (LinkRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byDest[dest]
	if !ok {
		return LinkRecord{}, false
	}
	r.removeLocked(rec)
	return rec, true
}

// RemoveIf deletes the record at dest only while it still points at origin.
// A destination reassigned to another origin in the meantime is left alone.
func (r *Registry) RemoveIf(dest, origin string) (LinkRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byDest[dest]
	if !ok || rec.Origin != origin {
		return LinkRecord{}, false
	}
	r.removeLocked(rec)
	return rec, true
}

// Decide runs the link decision policy for a candidate and, on create or
// override, stores the candidate before releasing the lock. The previous record
// is returned for overrides.
func (r *Registry) Decide(entry Entry, candidate LinkRecord) (Decision, *LinkRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, found := r.byDest[candidate.Destination]
	var prev *LinkRecord
	if found {
		prev = &existing
	}

	decision := ShouldLink(entry, prev, candidate.Origin, candidate.Metadata)
	if !decision.Materializes() {
		return decision, nil
	}
	if candidate.LinkedAt.IsZero() {
		candidate.LinkedAt = r.now()
	}
	r.upsertLocked(candidate)
	if decision == DecisionOverride {
		return decision, prev
	}
	return decision, nil
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byDest)
}

// Snapshot returns every record sorted by destination.
func (r *Registry) Snapshot() []LinkRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LinkRecord, 0, len(r.byDest))
	for _, rec := range r.byDest {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Destination < out[j].Destination })
	return out
}

// EntrySnapshot returns the records owned by one configuration entry.
func (r *Registry) EntrySnapshot(entry int) []LinkRecord {
	all := r.Snapshot()
	out := all[:0]
	for _, rec := range all {
		if rec.Entry == entry {
			out = append(out, rec)
		}
	}
	return out
}

// Clone returns an independent copy, used for dry runs.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	c.now = r.now
	for dest, rec := range r.byDest {
		rec.Metadata = rec.Metadata.Clone()
		c.byDest[dest] = rec
	}
	for origin, dests := range r.byOrigin {
		c.byOrigin[origin] = append([]string(nil), dests...)
	}
	return c
}

func (r *Registry) upsertLocked(rec LinkRecord) {
	if old, ok := r.byDest[rec.Destination]; ok {
		if old.Origin == rec.Origin {
			r.byDest[rec.Destination] = rec
			return
		}
		r.unindexLocked(old)
	}
	r.byDest[rec.Destination] = rec
	r.byOrigin[rec.Origin] = append(r.byOrigin[rec.Origin], rec.Destination)
}

func (r *Registry) removeLocked(rec LinkRecord) {
	delete(r.byDest, rec.Destination)
	r.unindexLocked(rec)
}

func (r *Registry) unindexLocked(rec LinkRecord) {
	dests := r.byOrigin[rec.Origin]
	for i, d := range dests {
		if d == rec.Destination {
			dests = append(dests[:i], dests[i+1:]...)
			break
		}
	}
	if len(dests) == 0 {
		delete(r.byOrigin, rec.Origin)
		return
	}
	r.byOrigin[rec.Origin] = dests
}
