package archive_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/fbctest/archive"
	"github.com/katalvlaran/fbctest/archive/blob"
	"github.com/katalvlaran/fbctest/config"
	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/frog"
)

func bundle(md5 string) (frog.ReportData, frog.Metadata) {
	d := frog.ReportData{
		"growth": {
			Optimum: fba.Some(7.5),
			Reactions: map[string]frog.ReactionReport{
				"HEX":  {Flux: fba.Some(10), VariabilityMin: fba.Some(10), VariabilityMax: fba.Some(10), Deletion: fba.None()},
				"ATPM": {Flux: fba.Some(1), VariabilityMin: fba.Some(1), VariabilityMax: fba.Some(1), Deletion: fba.Some(25.0 / 3)},
			},
			GeneDeletions: map[string]fba.Value{"g1": fba.None(), "g2": fba.Some(7.5)},
		},
	}
	md := frog.Metadata{
		frog.KeySoftwareName:  frog.SoftwareName,
		frog.KeyModelFilename: "toy.json",
		frog.KeyModelMD5:      md5,
		frog.KeySolverName:    "simplex",
	}
	return d, md
}

// tick returns a clock advancing one second per call.
func tick() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func open(t *testing.T, store blob.Store) *archive.Archive {
	t.Helper()
	a, err := archive.New(filepath.Join(t.TempDir(), "idx", "runs.db"), store,
		archive.WithLogger(zaptest.NewLogger(t)), archive.WithClock(tick()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestPutFetch(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	a := open(t, store)

	d, md := bundle("aa")
	run, err := a.Put(ctx, d, md)
	require.NoError(t, err)
	_, err = uuid.Parse(run.ID)
	require.NoError(t, err)
	require.Equal(t, "toy.json", run.ModelFilename)
	require.Equal(t, "aa", run.ModelMD5)
	require.Equal(t, "runs/"+run.ID+"/report.json", run.ReportKey)

	info, err := store.Head(ctx, run.MetadataKey)
	require.NoError(t, err)
	require.Equal(t, "application/json", info.ContentType)
	require.Equal(t, run.ID, info.Metadata["run"])

	gotD, gotMD, err := a.Fetch(ctx, run.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(d, gotD); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, md, gotMD)

	_, _, err = a.Fetch(ctx, "missing")
	require.ErrorIs(t, err, archive.ErrNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	a := open(t, blob.NewMemory())

	runs, err := a.List(ctx, "")
	require.NoError(t, err)
	require.Empty(t, runs)

	var ids []string
	for _, sum := range []string{"aa", "bb", "aa"} {
		d, md := bundle(sum)
		run, err := a.Put(ctx, d, md)
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err = a.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i, r := range runs {
		require.Equal(t, ids[i], r.ID)
	}
	require.True(t, runs[0].CreatedAt.Before(runs[1].CreatedAt))

	runs, err = a.List(ctx, "aa")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, ids[0], runs[0].ID)
	require.Equal(t, ids[2], runs[1].ID)

	got, err := a.Get(ctx, ids[1])
	require.NoError(t, err)
	require.Equal(t, "bb", got.ModelMD5)
	require.Equal(t, time.Date(2024, 3, 1, 12, 0, 2, 0, time.UTC), got.CreatedAt)
}

func TestPutDirAndReopen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	cfg := config.ArchiveConfig{
		Database: filepath.Join(root, "runs.db"),
		Blob:     config.BlobConfig{Driver: "fs", Root: filepath.Join(root, "blobs")},
	}

	d, md := bundle("cc")
	dir := filepath.Join(root, "frog")
	require.NoError(t, frog.WriteDir(dir, d, md))

	a, err := archive.Open(ctx, cfg)
	require.NoError(t, err)
	run, err := a.PutDir(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	// a second handle sees the same index and blobs
	b, err := archive.Open(ctx, cfg)
	require.NoError(t, err)
	defer b.Close()
	runs, err := b.List(ctx, "cc")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, run.ID, runs[0].ID)

	gotD, gotMD, err := b.Fetch(ctx, run.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(d, gotD); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "cc", gotMD[frog.KeyModelMD5])
}

func TestNew(t *testing.T) {
	_, err := archive.New(filepath.Join(t.TempDir(), "runs.db"), nil)
	require.ErrorIs(t, err, archive.ErrNilStore)

	_, err = archive.Open(context.Background(), config.ArchiveConfig{
		Database: filepath.Join(t.TempDir(), "runs.db"),
		Blob:     config.BlobConfig{Driver: "tape"},
	})
	require.ErrorIs(t, err, blob.ErrDriver)
}
