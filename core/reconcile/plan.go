package reconcile

// Summary aggregates the directory counters of one or more passes.
type Summary struct {
	Entries    int `json:"entries"`
	Disabled   int `json:"disabled"`
	Scanned    int `json:"scanned"`
	Rejected   int `json:"rejected"`
	Skipped    int `json:"skipped"`
	Created    int `json:"created"`
	Overridden int `json:"overridden"`
	Unchanged  int `json:"unchanged"`
	Links      int `json:"links"`
}

// Summarize totals the results of a set of passes.
func Summarize(results []*PassResult) Summary {
	var s Summary
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Entries++
		if r.Status == PassDisabled {
			s.Disabled++
			continue
		}
		for _, d := range r.Directories {
			s.Scanned += d.Scanned
			s.Rejected += d.Rejected
			s.Skipped += d.Skipped
			s.Created += d.Created
			s.Overridden += d.Overridden
			s.Unchanged += d.Unchanged
			s.Links += len(d.Materialized)
		}
	}
	return s
}

// HasChanges reports whether applying the passes changed any link.
func (s Summary) HasChanges() bool {
	return s.Created+s.Overridden > 0
}

// plannedRecords collects the records a dry run would write, in the order
// their destinations were first scheduled.
func plannedRecords(registry *Registry, dirs []DirectoryResult) []LinkRecord {
	seen := make(map[string]struct{})
	var out []LinkRecord
	for _, d := range dirs {
		for _, dest := range d.Materialized {
			if _, dup := seen[dest]; dup {
				continue
			}
			seen[dest] = struct{}{}
			if rec, ok := registry.Find(dest); ok {
				out = append(out, rec)
			}
		}
	}
	return out
}
