package reconcile

import (
	"errors"
	"fmt"
	"time"
)

// Metadata is the structured record produced by a Classifier. The engine treats
// it as opaque except for the "quality" key.
type Metadata map[string]any

// Metadata keys the engine and the bundled collaborators agree on.
const (
	MetaQuality   = "quality"
	MetaYear      = "year"
	MetaTitle     = "title"
	MetaSeason    = "season"
	MetaEpisode   = "episode"
	MetaType      = "type"
	MetaExtension = "extension"
)

// Quality returns the raw quality value and whether the key is present at all.
func (m Metadata) Quality() (any, bool) {
	if m == nil {
		return nil, false
	}
	q, ok := m[MetaQuality]
	return q, ok
}

// Clone returns a shallow copy of the metadata.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// LinkRecord is the registry entry for one destination path.
type LinkRecord struct {
	// Destination is the absolute link path and the registry key.
	Destination string `json:"destination"`

	// Origin is the absolute path of the real media file.
	Origin string `json:"origin"`

	// Metadata is the classifier output the link was decided with.
	Metadata Metadata `json:"metadata"`

	// Entry is the index of the configuration entry that owns the link.
	Entry int `json:"entry"`

	// LinkedAt is when the record was created or last replaced.
	LinkedAt time.Time `json:"linked_at"`
}

// Decision is the outcome of the link decision policy for one candidate.
type Decision string

const (
	// DecisionCreate links a destination that had no record.
	DecisionCreate Decision = "create"
	// DecisionOverride replaces the origin of an existing record.
	DecisionOverride Decision = "override"
	// DecisionNoop leaves the registry untouched.
	DecisionNoop Decision = "noop"
)

// Materializes reports whether the decision requires a filesystem apply.
func (d Decision) Materializes() bool {
	return d == DecisionCreate || d == DecisionOverride
}

// PassStatus is the overall status of a reconciliation pass.
type PassStatus string

const (
	// PassCompleted means every directory was processed.
	PassCompleted PassStatus = "completed"
	// PassDisabled means the entry is disabled and nothing was touched.
	PassDisabled PassStatus = "disabled"
)

// PassOptions controls a reconciliation pass.
type PassOptions struct {
	// DryRun decides against a copy of the registry and skips the filesystem.
	DryRun bool
}

// DirectoryResult summarizes one source root of a pass.
type DirectoryResult struct {
	Root       string `json:"root"`
	Scanned    int    `json:"scanned"`
	Rejected   int    `json:"rejected"`
	Skipped    int    `json:"skipped"`
	Created    int    `json:"created"`
	Overridden int    `json:"overridden"`
	Unchanged  int    `json:"unchanged"`

	// Materialized lists the distinct destinations handed to the applier.
	Materialized []string `json:"materialized"`
}

// PassResult is the outcome of Layer.OrganizeDirectory.
type PassResult struct {
	PassID      string            `json:"pass_id"`
	Entry       int               `json:"entry"`
	Status      PassStatus        `json:"status"`
	DryRun      bool              `json:"dry_run"`
	StartedAt   time.Time         `json:"started_at"`
	Duration    time.Duration     `json:"duration"`
	Directories []DirectoryResult `json:"directories"`

	// Planned holds the records a dry run would materialize.
	Planned []LinkRecord `json:"planned,omitempty"`
}

// DecisionEvent describes a create or override that was applied to the registry.
type DecisionEvent struct {
	PassID   string
	Decision Decision
	Record   LinkRecord
	Previous *LinkRecord
}

// ErrRegistryInvariant is returned when a destination scheduled for
// materialization has no registry record. It is fatal for the directory pass.
var ErrRegistryInvariant = errors.New("registry record missing for scheduled destination")

// ErrNotSymlinker is reported when the configured filesystem cannot create links.
var ErrNotSymlinker = errors.New("filesystem does not support symbolic links")

// ScanError reports a directory that could not be listed.
type ScanError struct {
	Root string
	Dir  string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: read directory %s: %v", e.Root, e.Dir, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
