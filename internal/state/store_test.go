package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBuildHistoryRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []BuildRecord{
		{ID: "b1", Started: base, Duration: 120 * time.Millisecond, Pages: 10, Failed: 0, Outcome: "success"},
		{ID: "b2", Started: base.Add(time.Minute), Duration: 90 * time.Millisecond, Pages: 9, Failed: 1, Outcome: "partial"},
		{ID: "b3", Started: base.Add(2 * time.Minute), Duration: 0, Pages: 0, Failed: 0, Outcome: "skipped"},
	}
	for _, rec := range records {
		require.NoError(t, store.RecordBuild(ctx, rec))
	}

	recent, err := store.RecentBuilds(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "b3", recent[0].ID)
	require.Equal(t, "b2", recent[1].ID)
	require.Equal(t, "partial", recent[1].Outcome)
	require.Equal(t, 90*time.Millisecond, recent[1].Duration)
	require.Equal(t, base.Add(time.Minute).Unix(), recent[1].Started.Unix())
}

func TestRecentBuildsEmpty(t *testing.T) {
	store := openTestStore(t)
	recent, err := store.RecentBuilds(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, recent)
}

func TestFingerprintsRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	initial, err := store.Fingerprints(ctx)
	require.NoError(t, err)
	require.Empty(t, initial)

	first := map[string]string{
		"config:config.toml":   "aaa",
		"content:hello.md":     "bbb",
		"content:dir/other.md": "ccc",
	}
	require.NoError(t, store.SaveFingerprints(ctx, first))

	got, err := store.Fingerprints(ctx)
	require.NoError(t, err)
	require.Equal(t, first, got)

	// Saving again fully replaces the previous set.
	second := map[string]string{"content:hello.md": "ddd"}
	require.NoError(t, store.SaveFingerprints(ctx, second))

	got, err = store.Fingerprints(ctx)
	require.NoError(t, err)
	require.Equal(t, second, got)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sitesmith", "nested", "state.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening preserves previously recorded state.
	store, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.RecordBuild(context.Background(), BuildRecord{
		ID: "b1", Started: time.Now(), Outcome: "success",
	}))
}
