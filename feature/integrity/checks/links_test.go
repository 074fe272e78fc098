package checks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"medialink/core/reconcile"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCheckLinks(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "media")

	good := reconcile.LinkRecord{Origin: filepath.Join(src, "good.mkv"), Destination: filepath.Join(dst, "good.mkv")}
	missing := reconcile.LinkRecord{Origin: filepath.Join(src, "missing.mkv"), Destination: filepath.Join(dst, "missing.mkv")}
	plain := reconcile.LinkRecord{Origin: filepath.Join(src, "plain.mkv"), Destination: filepath.Join(dst, "plain.mkv")}
	wrong := reconcile.LinkRecord{Origin: filepath.Join(src, "wrong.mkv"), Destination: filepath.Join(dst, "wrong.mkv")}
	gone := reconcile.LinkRecord{Origin: filepath.Join(src, "gone.mkv"), Destination: filepath.Join(dst, "gone.mkv")}

	for _, rec := range []reconcile.LinkRecord{good, missing, plain, wrong} {
		touch(t, rec.Origin)
	}
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.Symlink(good.Origin, good.Destination))
	touch(t, plain.Destination)
	require.NoError(t, os.Symlink(good.Origin, wrong.Destination))
	require.NoError(t, os.Symlink(gone.Origin, gone.Destination))

	records := []reconcile.LinkRecord{good, missing, plain, wrong, gone}
	report, err := CheckLinks(context.Background(), afero.NewOsFs(), records, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 1, report.Counts[StatusOK])
	require.Len(t, report.Problems, 4)
	assert.Equal(t, StatusMissing, report.Problems[0].Status)
	assert.Equal(t, StatusNotSymlink, report.Problems[1].Status)
	assert.Equal(t, StatusWrongTarget, report.Problems[2].Status)
	assert.Equal(t, good.Origin, report.Problems[2].Target)
	assert.Equal(t, StatusOriginMissing, report.Problems[3].Status)

	t.Run("Repair", func(t *testing.T) {
		registry := reconcile.NewRegistry()
		for _, rec := range records {
			registry.Upsert(rec)
		}
		applier := reconcile.NewApplier(afero.NewOsFs(), zap.NewNop())

		res := RepairLinks(report, applier, registry)
		assert.ElementsMatch(t, []string{missing.Destination, plain.Destination, wrong.Destination}, res.Relinked)
		assert.Equal(t, []string{gone.Destination}, res.Pruned)
		assert.Empty(t, res.Failed)

		_, ok := registry.Find(gone.Destination)
		assert.False(t, ok)
		_, err := os.Lstat(gone.Destination)
		assert.True(t, os.IsNotExist(err))

		again, err := CheckLinks(context.Background(), afero.NewOsFs(), registry.Snapshot(), 0)
		require.NoError(t, err)
		assert.Empty(t, again.Problems)
		assert.Equal(t, 4, again.Counts[StatusOK])
	})
}

func TestCheckLinks_RequiresSymlinkFs(t *testing.T) {
	_, err := CheckLinks(context.Background(), afero.NewMemMapFs(), nil, 0)
	assert.ErrorIs(t, err, reconcile.ErrNotSymlinker)
}

func TestCheckLinks_Cancelled(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []reconcile.LinkRecord{{Origin: filepath.Join(root, "a"), Destination: filepath.Join(root, "b")}}
	_, err := CheckLinks(ctx, afero.NewOsFs(), records, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
