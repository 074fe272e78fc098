package checks

import (
	"context"
)

// ManifestSource lists published manifests and names the object of an entry.
type ManifestSource interface {
	ObjectName(entry int) string
	List(ctx context.Context) ([]string, error)
}

// ManifestReport compares published manifests with the configured entries.
type ManifestReport struct {
	Expected int      `json:"expected"`
	Missing  []string `json:"missing"`
	Stale    []string `json:"stale"`
}

// CheckManifests reports entries without a published manifest and manifests
// left behind by entries that no longer exist.
func CheckManifests(ctx context.Context, source ManifestSource, entries []int) (*ManifestReport, error) {
	published, err := source.List(ctx)
	if err != nil {
		return nil, err
	}

	found := make(map[string]struct{}, len(published))
	for _, name := range published {
		found[name] = struct{}{}
	}

	report := &ManifestReport{Expected: len(entries), Missing: []string{}, Stale: []string{}}
	expected := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		name := source.ObjectName(entry)
		expected[name] = struct{}{}
		if _, ok := found[name]; !ok {
			report.Missing = append(report.Missing, name)
		}
	}
	for _, name := range published {
		if _, ok := expected[name]; !ok {
			report.Stale = append(report.Stale, name)
		}
	}
	return report, nil
}
