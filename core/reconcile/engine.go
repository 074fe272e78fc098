package reconcile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"medialink/core/metrics"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dependencies are the collaborators shared by every layer of an Engine.
type Dependencies struct {
	// Fs is the filesystem scanned and written to. Defaults to the OS filesystem.
	Fs afero.Fs

	// Classifier and Formatter are required.
	Classifier Classifier
	Formatter  PathFormatter

	// Registry defaults to a new empty registry.
	Registry *Registry

	// Recorder receives registry mutations; nil disables recording.
	Recorder Recorder

	// Concurrency bounds the tasks of one batch. Defaults to GOMAXPROCS*4.
	Concurrency int
}

// Engine owns one Layer per configuration entry and the registry they share.
type Engine struct {
	layers   []*Layer
	registry *Registry
	applier  *Applier
	logger   *zap.Logger
}

// NewEngine builds an engine for entries in their configured order.
func NewEngine(entries []Entry, deps Dependencies, logger *zap.Logger) *Engine {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Registry == nil {
		deps.Registry = NewRegistry()
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.Concurrency <= 0 {
		deps.Concurrency = runtime.GOMAXPROCS(0) * 4
	}

	applier := NewApplier(deps.Fs, logger.With(zap.String("component", "applier")))
	e := &Engine{registry: deps.Registry, applier: applier, logger: logger}
	for i, entry := range entries {
		e.layers = append(e.layers, newLayer(i, entry, deps, applier, logger))
	}
	return e
}

// Registry returns the shared registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Applier returns the applier shared by all layers.
func (e *Engine) Applier() *Applier {
	return e.applier
}

// Layers returns the layers in configuration order.
func (e *Engine) Layers() []*Layer {
	return e.layers
}

// Layer returns the layer for entry index i.
func (e *Engine) Layer(i int) (*Layer, bool) {
	if i < 0 || i >= len(e.layers) {
		return nil, false
	}
	return e.layers[i], true
}

// OrganizeAll runs a pass for every entry, one after another. A failing entry
// does not stop the following ones; all errors are joined.
func (e *Engine) OrganizeAll(ctx context.Context, opts PassOptions) ([]*PassResult, error) {
	results := make([]*PassResult, 0, len(e.layers))
	var errs []error
	for _, layer := range e.layers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := layer.OrganizeDirectory(ctx, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", layer.index, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Layer reconciles the directories of a single configuration entry.
type Layer struct {
	index       int
	entry       Entry
	directories []string
	targetPath  string

	fs          afero.Fs
	scanner     *Scanner
	filter      *AdmissionFilter
	applier     *Applier
	classifier  Classifier
	formatter   PathFormatter
	registry    *Registry
	recorder    Recorder
	concurrency int
	logger      *zap.Logger
}

func newLayer(index int, entry Entry, deps Dependencies, applier *Applier, logger *zap.Logger) *Layer {
	target := entry.ResolvedTargetPath()
	return &Layer{
		index:       index,
		entry:       entry,
		directories: entry.ResolvedDirectories(),
		targetPath:  target,
		fs:          deps.Fs,
		scanner:     NewScanner(deps.Fs, target),
		filter:      NewAdmissionFilter(deps.Fs),
		applier:     applier,
		classifier:  deps.Classifier,
		formatter:   deps.Formatter,
		registry:    deps.Registry,
		recorder:    deps.Recorder,
		concurrency: deps.Concurrency,
		logger:      logger.With(zap.Int("entry", index)),
	}
}

// Index returns the configuration index of the layer.
func (l *Layer) Index() int { return l.index }

// Entry returns the configuration entry of the layer.
func (l *Layer) Entry() Entry { return l.entry }

// Directories returns the resolved source roots.
func (l *Layer) Directories() []string { return l.directories }

// TargetPath returns the resolved root of the link tree.
func (l *Layer) TargetPath() string { return l.targetPath }

// Applier returns the applier used to write links.
func (l *Layer) Applier() *Applier { return l.applier }

// ShouldLink runs the decision policy against the current registry without
// mutating it.
func (l *Layer) ShouldLink(destination, origin string, meta Metadata) Decision {
	var existing *LinkRecord
	if rec, ok := l.registry.Find(destination); ok {
		existing = &rec
	}
	return ShouldLink(l.entry, existing, origin, meta)
}

// OnFileCreated reacts to a new file by running a full pass over the entry.
func (l *Layer) OnFileCreated(ctx context.Context, path string) (*PassResult, error) {
	l.logger.Info("File created", zap.String("path", path))
	return l.OrganizeDirectory(ctx, PassOptions{})
}

// OnFileDeleted removes the link owned by a deleted origin file. When the
// link cannot be removed from disk the registry record is kept. A link that
// is already missing is not an unlink failure, so its record is dropped
// rather than kept stale. It reports whether a record was removed.
func (l *Layer) OnFileDeleted(ctx context.Context, path string) (bool, error) {
	l.logger.Info("File deleted", zap.String("path", path))

	rec, ok := l.registry.FindByOrigin(path)
	if !ok {
		return false, nil
	}

	l.logger.Info("Removing link",
		zap.String("destination", rec.Destination),
		zap.String("origin", rec.Origin))

	if err := l.applier.Unlink(rec.Destination); err != nil {
		l.logger.Error("Failed to unlink",
			zap.String("destination", rec.Destination),
			zap.Error(err))
		return false, nil
	}

	removed, ok := l.registry.RemoveIf(rec.Destination, path)
	if !ok {
		return false, nil
	}
	metrics.SetRegistryRecords(l.registry.Len())

	if err := l.recorder.RecordRemoval(ctx, l.index, removed); err != nil {
		l.logger.Warn("Failed to record removal", zap.Error(err))
	}
	return true, nil
}

// OrganizeDirectory runs a full pass over every source root of the entry.
// Roots are processed concurrently; the first failing root cancels the others
// and is returned, with side effects of finished work left in place.
func (l *Layer) OrganizeDirectory(ctx context.Context, opts PassOptions) (*PassResult, error) {
	start := time.Now()
	result := &PassResult{
		PassID:    uuid.NewString(),
		Entry:     l.index,
		DryRun:    opts.DryRun,
		StartedAt: start,
	}
	log := l.logger.With(zap.String("pass_id", result.PassID))

	log.Info("Running entry", zap.Int("directories", len(l.directories)))

	if !l.entry.IsEnabled() {
		log.Warn("Entry is disabled", zap.Int("directories", len(l.directories)))
		result.Status = PassDisabled
		return result, nil
	}

	registry := l.registry
	if opts.DryRun {
		registry = l.registry.Clone()
	}

	dirResults := make([]DirectoryResult, len(l.directories))
	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range l.directories {
		g.Go(func() error {
			res, err := l.organizeRoot(gctx, log, registry, result.PassID, dir, opts)
			dirResults[i] = res
			return err
		})
	}

	err := g.Wait()
	result.Directories = dirResults
	result.Duration = time.Since(start)
	metrics.RecordPass(l.index, string(PassCompleted), result.Duration, err)
	if err != nil {
		log.Error("Entry failed", zap.Error(err), zap.Duration("duration", result.Duration))
		return nil, err
	}

	result.Status = PassCompleted
	if opts.DryRun {
		result.Planned = plannedRecords(registry, dirResults)
	} else {
		metrics.SetRegistryRecords(l.registry.Len())
		if rerr := l.recorder.RecordPass(ctx, *result, l.registry.EntrySnapshot(l.index)); rerr != nil {
			log.Warn("Failed to record pass", zap.Error(rerr))
		}
	}

	log.Info("Entry completed",
		zap.Int("directories", len(l.directories)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// outcome is the result of processing one scanned file.
type outcome struct {
	rejected    bool
	skipped     bool
	decision    Decision
	destination string
}

func (l *Layer) organizeRoot(ctx context.Context, log *zap.Logger, registry *Registry, passID, root string, opts PassOptions) (DirectoryResult, error) {
	res := DirectoryResult{Root: root}

	// 1. Scan the source root
	files, err := l.scanner.ListFiles(ctx, root)
	if err != nil {
		return res, err
	}
	res.Scanned = len(files)
	log.Info("Organizing directory", zap.String("root", root), zap.Int("files", len(files)))

	// 2. Admit, classify, render and decide every file
	outcomes := make([]outcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := l.processFile(gctx, log, registry, passID, file, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	// 3. Deduplicate destinations in first-seen order
	seen := make(map[string]struct{})
	for _, out := range outcomes {
		switch {
		case out.rejected:
			res.Rejected++
		case out.skipped:
			res.Skipped++
		case out.decision == DecisionCreate:
			res.Created++
		case out.decision == DecisionOverride:
			res.Overridden++
		default:
			res.Unchanged++
		}
		if !out.decision.Materializes() {
			continue
		}
		if _, dup := seen[out.destination]; dup {
			continue
		}
		seen[out.destination] = struct{}{}
		res.Materialized = append(res.Materialized, out.destination)
	}

	if opts.DryRun {
		return res, nil
	}

	// 4. Materialize the current registry value of every destination
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for _, dest := range res.Materialized {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, ok := registry.Find(dest)
			if !ok {
				log.Error("Link not found in registry", zap.String("destination", dest))
				return fmt.Errorf("%w: %s", ErrRegistryInvariant, dest)
			}
			l.applier.Apply(rec.Origin, rec.Destination)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	log.Info("Organized directory",
		zap.String("root", root),
		zap.Int("links", len(res.Materialized)))
	return res, nil
}

func (l *Layer) processFile(ctx context.Context, log *zap.Logger, registry *Registry, passID, file string, opts PassOptions) (outcome, error) {
	admission, err := l.filter.IsAllowed(file, l.entry)
	if err != nil {
		return outcome{}, err
	}
	if !admission.Allowed {
		metrics.RecordRejection(l.index, admission.Reason)
		log.Debug("File not admitted",
			zap.String("path", file),
			zap.String("reason", admission.Reason),
			zap.String("size", humanize.Bytes(uint64(admission.Size))))
		return outcome{rejected: true}, nil
	}

	kind := l.classifier.ClassifyType(file)
	if l.entry.StrictType != "" && kind != l.entry.StrictType {
		metrics.RecordSkip(l.index)
		log.Debug("Wrong media type, ignoring",
			zap.String("path", file),
			zap.String("type", string(kind)))
		return outcome{skipped: true}, nil
	}

	meta, err := l.classifier.ExtractMetadata(file, kind)
	if err != nil {
		return outcome{}, fmt.Errorf("classify: %w", err)
	}

	destination, err := l.Destination(file, meta)
	if err != nil {
		if errors.Is(err, errEscapesTarget) {
			metrics.RecordSkip(l.index)
			log.Warn("Rendered path escapes target path",
				zap.String("path", file),
				zap.String("destination", destination))
			return outcome{skipped: true}, nil
		}
		return outcome{}, err
	}

	decision, previous := registry.Decide(l.entry, LinkRecord{
		Destination: destination,
		Origin:      file,
		Metadata:    meta,
		Entry:       l.index,
	})
	if !opts.DryRun {
		metrics.RecordDecision(l.index, string(decision))
	}
	if !decision.Materializes() {
		log.Debug("Link unchanged", zap.String("destination", destination), zap.String("origin", file))
		return outcome{decision: decision, destination: destination}, nil
	}

	fields := []zap.Field{zap.String("destination", destination), zap.String("origin", file)}
	if previous != nil {
		fields = append(fields, zap.String("previous", previous.Origin))
	}
	log.Info("Link "+string(decision), fields...)

	if !opts.DryRun {
		rec, _ := registry.Find(destination)
		event := DecisionEvent{PassID: passID, Decision: decision, Record: rec, Previous: previous}
		if err := l.recorder.RecordDecision(ctx, l.index, event); err != nil {
			log.Warn("Failed to record decision", zap.Error(err))
		}
	}

	return outcome{decision: decision, destination: destination}, nil
}

var errEscapesTarget = errors.New("destination escapes target path")

// Destination renders the destination path of file from its metadata. The
// file extension is exposed to the template as "extension".
func (l *Layer) Destination(file string, meta Metadata) (string, error) {
	vars := meta.Clone()
	if vars == nil {
		vars = Metadata{}
	}
	vars[MetaExtension] = Extension(file)

	rendered, err := l.formatter.Render(l.entry.TargetFormat, vars)
	if err != nil {
		return "", fmt.Errorf("render %q: %w", l.entry.TargetFormat, err)
	}

	destination := filepath.Join(l.targetPath, filepath.Clean(rendered))
	rel, err := filepath.Rel(l.targetPath, destination)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return destination, errEscapesTarget
	}
	return destination, nil
}

func mediaType(meta Metadata) MediaType {
	switch v := meta[MetaType].(type) {
	case MediaType:
		return v
	case string:
		return MediaType(v)
	default:
		return MediaUnknown
	}
}
