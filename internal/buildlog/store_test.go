package buildlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/esologic/folio/internal/site"
)

func testReport(id string, start time.Time) *site.BuildReport {
	return &site.BuildReport{
		BuildID:       id,
		Start:         start,
		End:           start.Add(120 * time.Millisecond),
		Outcome:       "success",
		Sections:      1,
		Entries:       3,
		RenderedPages: 3,
	}
}

func TestAppendAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	ctx := context.Background()
	base := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, testReport("first", base)))
	require.NoError(t, store.Append(ctx, testReport("second", base.Add(time.Hour))))

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	require.Equal(t, "second", records[0].BuildID)
	require.Equal(t, "first", records[1].BuildID)
	require.Equal(t, int64(120), records[0].DurationMS)
	require.Equal(t, 3, records[0].RenderedPages)
}

func TestRecentHonorsLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, testReport("build", base.Add(time.Duration(i)*time.Minute))))
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening finds the same database file.
	store, err = Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestRecentOnEmptyStore(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, records)
}
