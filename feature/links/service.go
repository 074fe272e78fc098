package links

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"medialink/core/reconcile"

	"go.uber.org/zap"
)

// ErrUnknownEntry is returned for an entry index outside the configuration.
var ErrUnknownEntry = errors.New("unknown organize entry")

// ErrBusy is returned when a pass is already running.
var ErrBusy = errors.New("an organize pass is already running")

// Service exposes the link registry and on-demand passes.
type Service struct {
	engine *reconcile.Engine
	logger *zap.Logger

	// running serializes passes triggered over HTTP.
	running sync.Mutex
}

// NewService creates a new links service.
func NewService(engine *reconcile.Engine, logger *zap.Logger) *Service {
	return &Service{engine: engine, logger: logger}
}

// List returns the records of one entry, or of all entries when entry is nil.
func (s *Service) List(entry *int) ([]reconcile.LinkRecord, error) {
	registry := s.engine.Registry()
	if entry == nil {
		return registry.Snapshot(), nil
	}
	if _, ok := s.engine.Layer(*entry); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntry, *entry)
	}
	return registry.EntrySnapshot(*entry), nil
}

// ByOrigin returns every record whose origin is path.
func (s *Service) ByOrigin(path string) []reconcile.LinkRecord {
	return s.engine.Registry().FindAllByOrigin(absolute(path))
}

// ByDestination returns the record stored under path.
func (s *Service) ByDestination(path string) (reconcile.LinkRecord, bool) {
	return s.engine.Registry().Find(absolute(path))
}

// Organize runs a pass for one entry, or for every entry when entry is nil.
// It refuses to start while another triggered pass runs.
func (s *Service) Organize(ctx context.Context, entry *int, opts reconcile.PassOptions) ([]*reconcile.PassResult, error) {
	if !s.running.TryLock() {
		return nil, ErrBusy
	}
	defer s.running.Unlock()

	if entry == nil {
		return s.engine.OrganizeAll(ctx, opts)
	}

	layer, ok := s.engine.Layer(*entry)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntry, *entry)
	}
	res, err := layer.OrganizeDirectory(ctx, opts)
	if err != nil {
		return nil, err
	}
	return []*reconcile.PassResult{res}, nil
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
