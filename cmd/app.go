package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"medialink/core/config"
	"medialink/core/database"
	"medialink/core/logger"
	"medialink/core/media"
	"medialink/core/naming"
	"medialink/core/reconcile"
	"medialink/core/storage"
	"medialink/feature/journal"
	"medialink/feature/manifest"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// configDir is the directory searched for .env and config files.
var configDir string

// ErrLocked is returned when another process holds the engine lock.
var ErrLocked = errors.New("another medialink process holds the lock")

// app bundles the components shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	fs        afero.Fs
	engine    *reconcile.Engine
	journal   *journal.Service
	manifests *manifest.Service
}

// options selects the optional backends an app wires.
type options struct {
	// recorders connects the journal and manifest backends when enabled.
	recorders bool
	// skipMigrate leaves the journal schema as found.
	skipMigrate bool
}

// loadConfig loads the configuration and the logger built from it.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if cfg.File != "" {
		logg.Debug("Configuration loaded", zap.String("file", cfg.File))
	}
	return cfg, logg, nil
}

// newApp builds the engine and, when asked, its recorders.
func newApp(opts options) (*app, error) {
	cfg, logg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if len(cfg.Organize) == 0 {
		logg.Warn("No organize entries configured")
	}

	a := &app{cfg: cfg, logger: logg, fs: afero.NewOsFs()}

	var recorders reconcile.Recorders
	if opts.recorders {
		if cfg.Database.Enabled {
			db, err := database.Connect(cfg.Database)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to database: %w", err)
			}
			a.journal = journal.NewService(db, logg)
			if !opts.skipMigrate {
				if err := a.journal.Migrate(); err != nil {
					return nil, fmt.Errorf("failed to migrate journal: %w", err)
				}
			}
			recorders = append(recorders, a.journal)
			logg.Info("Link journal enabled", zap.String("driver", cfg.Database.Driver))
		}

		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return nil, fmt.Errorf("failed to create storage client: %w", err)
			}
			a.manifests = manifest.NewService(client, cfg.Storage, logg)
			recorders = append(recorders, a.manifests)
			logg.Info("Manifest publishing enabled", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	formatter := naming.NewFormatter()
	for i, entry := range cfg.Organize {
		if err := formatter.Validate(entry.TargetFormat); err != nil {
			return nil, fmt.Errorf("organize entry %d: invalid targetFormat: %w", i, err)
		}
	}

	deps := reconcile.Dependencies{
		Fs:         a.fs,
		Classifier: media.NewClassifier(),
		Formatter:  formatter,
	}
	if len(recorders) > 0 {
		deps.Recorder = recorders
	}
	a.engine = reconcile.NewEngine(cfg.Organize, deps, logg)
	return a, nil
}

// lock takes the engine lock without blocking. The returned function
// releases it.
func (a *app) lock() (func(), error) {
	path := a.cfg.Server.LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to take lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	a.logger.Debug("Lock acquired", zap.String("path", path))
	return func() { _ = fl.Unlock() }, nil
}
