package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_ListFilesRecursively(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{
		"/src/a.mkv",
		"/src/Show/Season 1/e1.mkv",
		"/src/Show/Season 1/e2.mkv",
		"/src/deep/x/y/z/file.mp4",
	} {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}
	require.NoError(t, fs.MkdirAll("/src/empty", 0o755))

	files, err := NewScanner(fs).ListFiles(context.Background(), "/src")
	require.NoError(t, err)

	sort.Strings(files)
	assert.Equal(t, []string{
		"/src/Show/Season 1/e1.mkv",
		"/src/Show/Season 1/e2.mkv",
		"/src/a.mkv",
		"/src/deep/x/y/z/file.mp4",
	}, files)
}

func TestScanner_SkipsTargetPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/movie.mkv", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/library/movie.mkv", []byte("x"), 0o644))

	files, err := NewScanner(fs, "/data/library").ListFiles(context.Background(), "/data")
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/movie.mkv"}, files)
}

func TestScanner_MissingRoot(t *testing.T) {
	_, err := NewScanner(afero.NewMemMapFs()).ListFiles(context.Background(), "/missing")
	require.Error(t, err)

	var scanErr *ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, "/missing", scanErr.Dir)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestScanner_Symlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	real := filepath.Join(outside, "real.mkv")
	require.NoError(t, os.WriteFile(real, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(outside, "dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "dir", "hidden.mkv"), []byte("x"), 0o644))

	require.NoError(t, os.Symlink(real, filepath.Join(root, "linked.mkv")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "nope.mkv"), filepath.Join(root, "dangling.mkv")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "linkdir")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "plain.mkv"), []byte("x"), 0o644))

	files, err := NewScanner(afero.NewOsFs()).ListFiles(context.Background(), root)
	require.NoError(t, err)

	sort.Strings(files)
	assert.Equal(t, []string{
		filepath.Join(root, "linked.mkv"),
		filepath.Join(root, "plain.mkv"),
	}, files)
}

func TestScanner_CancelledContext(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.mkv", []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(fs).ListFiles(ctx, "/src")
	assert.ErrorIs(t, err, context.Canceled)
}
