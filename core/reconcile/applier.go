package reconcile

import (
	"errors"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"

	"medialink/core/metrics"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const applierStripes = 64

// Applier writes registry state to the filesystem as symbolic links. Work on
// the same destination is serialized.
type Applier struct {
	fs      afero.Fs
	logger  *zap.Logger
	stripes [applierStripes]sync.Mutex
}

// NewApplier creates an applier over fs.
func NewApplier(fs afero.Fs, logger *zap.Logger) *Applier {
	return &Applier{fs: fs, logger: logger}
}

func (a *Applier) lock(dest string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(dest))
	mu := &a.stripes[h.Sum32()%applierStripes]
	mu.Lock()
	return mu.Unlock
}

// Apply points destination at origin. The parent directory is created, any
// existing entry at destination is removed, then the link is created. Failures
// are logged and swallowed; Apply reports whether the link was written.
func (a *Applier) Apply(origin, destination string) bool {
	defer a.lock(destination)()

	if err := a.fs.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		metrics.RecordApplyError("mkdir")
		a.logger.Error("Failed to create link directory",
			zap.String("destination", destination),
			zap.Error(err))
		return false
	}

	if err := a.fs.Remove(destination); err != nil && !errors.Is(err, os.ErrNotExist) {
		a.logger.Debug("Could not remove existing entry",
			zap.String("destination", destination),
			zap.Error(err))
	}

	linker, ok := a.fs.(afero.Linker)
	if !ok {
		metrics.RecordApplyError("symlink")
		a.logger.Error("Failed to create link",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Error(ErrNotSymlinker))
		return false
	}
	if err := linker.SymlinkIfPossible(origin, destination); err != nil {
		metrics.RecordApplyError("symlink")
		a.logger.Error("Failed to create link",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Error(err))
		return false
	}

	metrics.RecordLinkApplied()
	return true
}

// Unlink removes the link at destination. A destination that is already gone
// counts as removed.
func (a *Applier) Unlink(destination string) error {
	defer a.lock(destination)()

	if err := a.fs.Remove(destination); err != nil && !errors.Is(err, os.ErrNotExist) {
		metrics.RecordApplyError("unlink")
		return err
	}
	return nil
}

// ReadLink returns the target of the link at destination.
func (a *Applier) ReadLink(destination string) (string, error) {
	reader, ok := a.fs.(afero.LinkReader)
	if !ok {
		return "", ErrNotSymlinker
	}
	return reader.ReadlinkIfPossible(destination)
}
