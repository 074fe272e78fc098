package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"medialink/core/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubClassifier returns the metadata registered for a base name, or a movie
// titled after the file.
type stubClassifier struct {
	mu    sync.Mutex
	meta  map[string]Metadata
	err   error
	typed []string
	calls int
}

func (c *stubClassifier) ClassifyType(path string) MediaType {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typed = append(c.typed, filepath.Base(path))
	if m, ok := c.meta[filepath.Base(path)]; ok {
		return mediaType(m)
	}
	return MediaMovie
}

func (c *stubClassifier) ExtractMetadata(path string, t MediaType) (Metadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if m, ok := c.meta[filepath.Base(path)]; ok {
		return m.Clone(), nil
	}
	base := filepath.Base(path)
	return Metadata{MetaTitle: strings.TrimSuffix(base, filepath.Ext(base)), MetaType: string(t)}, nil
}

// replaceFormatter substitutes "{{ key }}" placeholders.
var replaceFormatter = FormatterFunc(func(tmpl string, meta Metadata) (string, error) {
	pairs := make([]string, 0, len(meta)*2)
	for k, v := range meta {
		pairs = append(pairs, "{{ "+k+" }}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), nil
})

type recordingRecorder struct {
	mu        sync.Mutex
	decisions []DecisionEvent
	removals  []LinkRecord
	passes    []PassResult
	onDecide  func(DecisionEvent)
}

func (r *recordingRecorder) RecordDecision(_ context.Context, _ int, e DecisionEvent) error {
	r.mu.Lock()
	r.decisions = append(r.decisions, e)
	r.mu.Unlock()
	if r.onDecide != nil {
		r.onDecide(e)
	}
	return nil
}

func (r *recordingRecorder) RecordRemoval(_ context.Context, _ int, rec LinkRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removals = append(r.removals, rec)
	return nil
}

func (r *recordingRecorder) RecordPass(_ context.Context, res PassResult, _ []LinkRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passes = append(r.passes, res)
	return nil
}

type fixture struct {
	src        string
	target     string
	classifier *stubClassifier
	recorder   *recordingRecorder
	engine     *Engine
}

func newFixture(t *testing.T, mutate func(*Entry)) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		src:        filepath.Join(root, "src"),
		target:     filepath.Join(root, "media"),
		classifier: &stubClassifier{meta: map[string]Metadata{}},
		recorder:   &recordingRecorder{},
	}
	require.NoError(t, os.MkdirAll(f.src, 0o755))

	entry := Entry{
		Directories:  []string{f.src},
		TargetPath:   f.target,
		TargetFormat: "{{ title }}.{{ extension }}",
	}
	if mutate != nil {
		mutate(&entry)
	}

	f.engine = NewEngine([]Entry{entry}, Dependencies{
		Fs:         afero.NewOsFs(),
		Classifier: f.classifier,
		Formatter:  replaceFormatter,
		Recorder:   f.recorder,
	}, zap.NewNop())
	return f
}

func (f *fixture) layer() *Layer {
	l, _ := f.engine.Layer(0)
	return l
}

func (f *fixture) write(t *testing.T, name string, meta Metadata) string {
	t.Helper()
	path := filepath.Join(f.src, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	if meta != nil {
		f.classifier.meta[filepath.Base(name)] = meta
	}
	return path
}

func TestLayer_DisabledEntry(t *testing.T) {
	disabled := false
	f := newFixture(t, func(e *Entry) { e.Enabled = &disabled })
	f.write(t, "movie.mkv", nil)

	res, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	assert.Equal(t, PassDisabled, res.Status)
	assert.Empty(t, res.Directories)
	assert.Zero(t, f.classifier.calls)

	_, err = os.Stat(f.target)
	assert.True(t, os.IsNotExist(err), "disabled pass must not touch the target")
}

func TestLayer_CreatesLinks(t *testing.T) {
	f := newFixture(t, nil)
	origin := f.write(t, "movie.mkv", nil)
	f.write(t, "notes", nil)

	res, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	require.Equal(t, PassCompleted, res.Status)
	require.Len(t, res.Directories, 1)

	dir := res.Directories[0]
	assert.Equal(t, 2, dir.Scanned)
	assert.Equal(t, 1, dir.Rejected)
	assert.Equal(t, 1, dir.Created)

	dest := filepath.Join(f.target, "movie.mkv")
	assert.Equal(t, []string{dest}, dir.Materialized)
	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, origin, target)

	rec, ok := f.engine.Registry().Find(dest)
	require.True(t, ok)
	assert.Equal(t, origin, rec.Origin)

	assert.Len(t, f.recorder.decisions, 1)
	assert.Len(t, f.recorder.passes, 1)
}

func TestLayer_Idempotent(t *testing.T) {
	f := newFixture(t, nil)
	f.write(t, "a.mkv", nil)
	f.write(t, "b.mkv", nil)

	first, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	assert.Len(t, first.Directories[0].Materialized, 2)

	dest := filepath.Join(f.target, "a.mkv")
	before, err := os.Lstat(dest)
	require.NoError(t, err)

	second, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	assert.Empty(t, second.Directories[0].Materialized)
	assert.Equal(t, 2, second.Directories[0].Unchanged)

	after, err := os.Lstat(dest)
	require.NoError(t, err)
	assert.True(t, os.SameFile(before, after), "link must not be recreated")
}

func TestLayer_QualityOverride(t *testing.T) {
	f := newFixture(t, func(e *Entry) { e.UseHighestQuality = true })
	low := f.write(t, "a/show.720.mkv", Metadata{MetaTitle: "Show", MetaQuality: "720p"})

	_, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)

	high := f.write(t, "b/show.1080.mkv", Metadata{MetaTitle: "Show", MetaQuality: "1080p"})
	res, err := f.layer().OnFileCreated(context.Background(), high)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Directories[0].Overridden)

	dest := filepath.Join(f.target, "Show.mkv")
	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, high, target)

	var override *DecisionEvent
	for i := range f.recorder.decisions {
		if f.recorder.decisions[i].Decision == DecisionOverride {
			override = &f.recorder.decisions[i]
		}
	}
	require.NotNil(t, override)
	require.NotNil(t, override.Previous)
	assert.Equal(t, low, override.Previous.Origin)

	// A later lower-quality file does not win back the destination.
	f.write(t, "c/show.480.mkv", Metadata{MetaTitle: "Show", MetaQuality: "480p"})
	_, err = f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	rec, _ := f.engine.Registry().Find(dest)
	assert.Equal(t, high, rec.Origin)
}

func TestLayer_QualityNonOverride(t *testing.T) {
	f := newFixture(t, nil)
	low := f.write(t, "a/show.720.mkv", Metadata{MetaTitle: "Show", MetaQuality: "720p"})

	_, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)

	f.write(t, "b/show.1080.mkv", Metadata{MetaTitle: "Show", MetaQuality: "1080p"})
	_, err = f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(f.target, "Show.mkv"))
	require.NoError(t, err)
	assert.Equal(t, low, target)
}

func TestLayer_ExtensionFiltering(t *testing.T) {
	f := newFixture(t, func(e *Entry) {
		e.AllowedExtensions = []string{"mkv"}
		e.IgnoredExtensions = []string{"mkv"}
	})
	f.write(t, "movie.mkv", nil)
	f.write(t, "notes.txt", nil)

	res, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Directories[0].Rejected)
	assert.Empty(t, res.Directories[0].Materialized)
	assert.Zero(t, f.classifier.calls)
}

func TestLayer_StrictType(t *testing.T) {
	f := newFixture(t, func(e *Entry) { e.StrictType = MediaSeries })
	f.write(t, "movie.mkv", nil)
	f.write(t, "episode.mkv", Metadata{MetaTitle: "Episode", MetaType: string(MediaSeries)})

	res, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Directories[0].Skipped)
	assert.Equal(t, 1, res.Directories[0].Created)
	assert.ElementsMatch(t, []string{"movie.mkv", "episode.mkv"}, f.classifier.typed)
	assert.Equal(t, 1, f.classifier.calls, "metadata is only extracted for the admitted type")
}

func TestLayer_OnFileDeleted(t *testing.T) {
	f := newFixture(t, nil)
	origin := f.write(t, "movie.mkv", nil)

	_, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	dest := filepath.Join(f.target, "movie.mkv")

	require.NoError(t, os.Remove(origin))
	removed, err := f.layer().OnFileDeleted(context.Background(), origin)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = os.Lstat(dest)
	assert.True(t, os.IsNotExist(err))
	_, ok := f.engine.Registry().Find(dest)
	assert.False(t, ok)
	assert.Len(t, f.recorder.removals, 1)

	removed, err = f.layer().OnFileDeleted(context.Background(), filepath.Join(f.src, "untracked.mkv"))
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLayer_OnFileDeletedLinkAlreadyGone(t *testing.T) {
	f := newFixture(t, nil)
	origin := f.write(t, "movie.mkv", nil)

	_, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	dest := filepath.Join(f.target, "movie.mkv")
	require.NoError(t, os.Remove(dest))
	require.NoError(t, os.Remove(origin))

	removed, err := f.layer().OnFileDeleted(context.Background(), origin)
	require.NoError(t, err)
	assert.True(t, removed)
	_, ok := f.engine.Registry().Find(dest)
	assert.False(t, ok, "a missing link does not leave a stale record")
}

func TestLayer_OnFileDeletedKeepsRecordWhenUnlinkFails(t *testing.T) {
	registry := NewRegistry()
	registry.Upsert(LinkRecord{Destination: "/media/movie.mkv", Origin: "/src/movie.mkv"})

	engine := NewEngine([]Entry{{Directories: []string{"/src"}, TargetPath: "/media", TargetFormat: "x"}}, Dependencies{
		Fs:         &failingRemoveFs{Fs: afero.NewMemMapFs()},
		Classifier: &stubClassifier{},
		Formatter:  replaceFormatter,
		Registry:   registry,
	}, zap.NewNop())

	layer, _ := engine.Layer(0)
	removed, err := layer.OnFileDeleted(context.Background(), "/src/movie.mkv")
	require.NoError(t, err)
	assert.False(t, removed)

	_, ok := registry.Find("/media/movie.mkv")
	assert.True(t, ok, "stale record is retained")
}

type failingRemoveFs struct {
	afero.Fs
}

func (f *failingRemoveFs) Remove(string) error {
	return os.ErrPermission
}

func TestLayer_DryRun(t *testing.T) {
	f := newFixture(t, nil)
	f.write(t, "movie.mkv", nil)

	created := testutil.ToFloat64(metrics.LinkDecisions.WithLabelValues("0", string(DecisionCreate)))

	res, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, created, testutil.ToFloat64(metrics.LinkDecisions.WithLabelValues("0", string(DecisionCreate))),
		"dry runs leave the decision counters alone")
	require.Len(t, res.Planned, 1)
	assert.Equal(t, filepath.Join(f.target, "movie.mkv"), res.Planned[0].Destination)

	assert.Equal(t, 0, f.engine.Registry().Len())
	_, err = os.Stat(f.target)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, f.recorder.decisions)
	assert.Empty(t, f.recorder.passes)
}

func TestLayer_EscapingDestinationIsSkipped(t *testing.T) {
	f := newFixture(t, func(e *Entry) { e.TargetFormat = "../{{ title }}.{{ extension }}" })
	f.write(t, "movie.mkv", nil)

	res, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Directories[0].Skipped)
	assert.Equal(t, 0, f.engine.Registry().Len())
}

func TestLayer_ClassifierErrorFailsPass(t *testing.T) {
	f := newFixture(t, nil)
	f.write(t, "movie.mkv", nil)
	f.classifier.err = errors.New("parser exploded")

	_, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parser exploded")
}

func TestLayer_ScanErrorFailsPass(t *testing.T) {
	f := newFixture(t, func(e *Entry) { e.Directories = append(e.Directories, "/definitely/not/here") })

	_, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
}

func TestLayer_MissingRecordIsFatal(t *testing.T) {
	f := newFixture(t, nil)
	f.write(t, "movie.mkv", nil)
	f.recorder.onDecide = func(e DecisionEvent) {
		f.engine.Registry().Remove(e.Record.Destination)
	}

	_, err := f.layer().OrganizeDirectory(context.Background(), PassOptions{})
	assert.ErrorIs(t, err, ErrRegistryInvariant)
}

func TestEngine_OrganizeAll(t *testing.T) {
	root := t.TempDir()
	srcA := filepath.Join(root, "a")
	srcB := filepath.Join(root, "b")
	require.NoError(t, os.MkdirAll(srcA, 0o755))
	require.NoError(t, os.MkdirAll(srcB, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcA, "one.mkv"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcB, "two.mkv"), []byte("2"), 0o644))

	disabled := false
	entries := []Entry{
		{Directories: []string{srcA}, TargetPath: filepath.Join(root, "movies"), TargetFormat: "{{ title }}.{{ extension }}"},
		{Directories: []string{srcB}, TargetPath: filepath.Join(root, "shows"), TargetFormat: "{{ title }}.{{ extension }}", Enabled: &disabled},
		{Directories: []string{filepath.Join(root, "missing")}, TargetPath: filepath.Join(root, "x"), TargetFormat: "{{ title }}"},
	}
	engine := NewEngine(entries, Dependencies{
		Fs:         afero.NewOsFs(),
		Classifier: &stubClassifier{},
		Formatter:  replaceFormatter,
	}, zap.NewNop())

	results, err := engine.OrganizeAll(context.Background(), PassOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 2")
	require.Len(t, results, 2)

	summary := Summarize(results)
	assert.Equal(t, 2, summary.Entries)
	assert.Equal(t, 1, summary.Disabled)
	assert.Equal(t, 1, summary.Created)
	assert.True(t, summary.HasChanges())

	_, ok := engine.Layer(5)
	assert.False(t, ok)
}
