package integrity

import (
	"context"
	"errors"

	"medialink/core/metrics"
	"medialink/core/reconcile"
	"medialink/feature/integrity/checks"
	"medialink/feature/journal"
	"medialink/feature/manifest"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrUnavailable is returned by checks whose backend is not configured.
var ErrUnavailable = errors.New("check unavailable: backend not configured")

// Service handles integrity checks.
type Service struct {
	engine    *reconcile.Engine
	fs        afero.Fs
	journal   *journal.Service
	manifests *manifest.Service
	logger    *zap.Logger
}

// NewService creates a new integrity service. journal and manifests may be nil.
func NewService(engine *reconcile.Engine, fs afero.Fs, journal *journal.Service, manifests *manifest.Service, logger *zap.Logger) *Service {
	return &Service{
		engine:    engine,
		fs:        fs,
		journal:   journal,
		manifests: manifests,
		logger:    logger,
	}
}

// Targets returns the target directories of enabled entries.
func (s *Service) Targets() []string {
	var targets []string
	for _, layer := range s.engine.Layers() {
		if layer.Entry().IsEnabled() {
			targets = append(targets, layer.TargetPath())
		}
	}
	return targets
}

// CheckTargets returns a list of missing target directories.
func (s *Service) CheckTargets() ([]string, error) {
	return checks.CheckTargets(s.fs, s.Targets())
}

// FixTargets creates the missing target directories.
func (s *Service) FixTargets(missing []string) error {
	return checks.FixTargets(s.fs, s.logger, missing)
}

// CheckLinks verifies the links of one entry, or of all entries when entry
// is nil.
func (s *Service) CheckLinks(ctx context.Context, entry *int) (*checks.LinkReport, error) {
	registry := s.engine.Registry()
	records := registry.Snapshot()
	if entry != nil {
		records = registry.EntrySnapshot(*entry)
	}
	return checks.CheckLinks(ctx, s.fs, records, 0)
}

// RepairLinks fixes the problems found by CheckLinks.
func (s *Service) RepairLinks(report *checks.LinkReport) checks.RepairResult {
	registry := s.engine.Registry()
	res := checks.RepairLinks(report, s.engine.Applier(), registry)
	metrics.SetRegistryRecords(registry.Len())

	s.logger.Info("Link repair finished",
		zap.Int("relinked", len(res.Relinked)),
		zap.Int("pruned", len(res.Pruned)),
		zap.Int("failed", len(res.Failed)))
	return res
}

// CheckJournal returns the journal columns missing from the database.
func (s *Service) CheckJournal() ([]string, error) {
	if s.journal == nil {
		return nil, ErrUnavailable
	}
	return s.journal.CheckSchema()
}

// CheckManifests compares published manifests with the enabled entries.
func (s *Service) CheckManifests(ctx context.Context) (*checks.ManifestReport, error) {
	if s.manifests == nil {
		return nil, ErrUnavailable
	}
	var entries []int
	for _, layer := range s.engine.Layers() {
		if layer.Entry().IsEnabled() {
			entries = append(entries, layer.Index())
		}
	}
	return checks.CheckManifests(ctx, s.manifests, entries)
}

// RunAll runs every check and collects the outcome of each under its name.
// Checks without a configured backend are reported as skipped.
func (s *Service) RunAll(ctx context.Context) map[string]any {
	report := make(map[string]any)

	if missing, err := s.CheckTargets(); err != nil {
		report["targets"] = failed(err)
	} else {
		report["targets"] = map[string]any{"status": "ok", "missing": missing}
	}

	if links, err := s.CheckLinks(ctx, nil); err != nil {
		report["links"] = failed(err)
	} else {
		report["links"] = links
	}

	if missing, err := s.CheckJournal(); err != nil {
		report["journal"] = failed(err)
	} else {
		report["journal"] = map[string]any{"status": "ok", "missing": missing}
	}

	if manifests, err := s.CheckManifests(ctx); err != nil {
		report["manifests"] = failed(err)
	} else {
		report["manifests"] = manifests
	}

	return report
}

func failed(err error) map[string]any {
	if errors.Is(err, ErrUnavailable) {
		return map[string]any{"status": "skipped"}
	}
	return map[string]any{"status": "error", "error": err.Error()}
}
