package sink

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/classifier"
	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/sqlite"
)

func newTestStore(t *testing.T, batchSize int) *SQLStore {
	t.Helper()
	ctx := context.Background()
	client, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	store := NewSQLiteStore(client, batchSize)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestSQLStore_MigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t, 10)
	assert.NoError(t, store.Migrate(context.Background()))
	assert.Equal(t, "sqlite", store.Name())
	assert.NoError(t, store.Ping(context.Background()))
}

func TestSQLStore_PublishAndRead(t *testing.T) {
	ctx := context.Background()
	// Batch size 3 splits the four pairs over two inserts.
	store := newTestStore(t, 3)
	run := testRun("run-1", testStart.Add(time.Minute))

	require.NoError(t, store.Publish(ctx, run))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	got := runs[0]
	assert.Equal(t, "run-1", got.ID)
	assert.True(t, got.StartedAt.Equal(run.StartedAt), "started_at %v", got.StartedAt)
	assert.True(t, got.FinishedAt.Equal(run.FinishedAt), "finished_at %v", got.FinishedAt)
	assert.Equal(t, 8, got.MaxHops)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 1, got.Counts[classifier.Agree])
	assert.Equal(t, 0, got.Counts[classifier.PartialParentOnly])
	assert.InDelta(t, 2.0, got.AverageHops, 1e-9)

	pairs, err := store.PairRecords(ctx, "run-1", nil)
	require.NoError(t, err)
	require.Len(t, pairs, 4)
	for i, p := range pairs {
		assert.Equal(t, i, p.Seq)
	}
	assert.Equal(t, "3", pairs[1].Child)
	assert.Nil(t, pairs[1].Hops)
	assert.Empty(t, pairs[1].Path)

	agree := classifier.Agree
	agreed, err := store.PairRecords(ctx, "run-1", &agree)
	require.NoError(t, err)
	require.Len(t, agreed, 1)
	require.NotNil(t, agreed[0].Hops)
	assert.Equal(t, 2, *agreed[0].Hops)
	assert.Equal(t, "a", agreed[0].Source)
	assert.Equal(t, "c", agreed[0].Target)
	assert.Equal(t, []string{"a", "b", "c"}, agreed[0].Path)
}

func TestSQLStore_DuplicateRunRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 2)
	run := testRun("run-1", testStart.Add(time.Minute))

	require.NoError(t, store.Publish(ctx, run))
	require.Error(t, store.Publish(ctx, run))

	pairs, err := store.PairRecords(ctx, "run-1", nil)
	require.NoError(t, err)
	assert.Len(t, pairs, 4)
}

func TestSQLStore_ListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 100)

	require.NoError(t, store.Publish(ctx, testRun("older", testStart.Add(time.Minute))))
	require.NoError(t, store.Publish(ctx, testRun("newer", testStart.Add(time.Hour))))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "newer", runs[0].ID)
	assert.Equal(t, "older", runs[1].ID)

	runs, err = store.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "newer", runs[0].ID)
}

func TestSQLStore_EmptyRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 10)
	run := &Run{
		ID:         "empty",
		StartedAt:  testStart,
		FinishedAt: testStart,
		Summary:    classifier.Summarize(nil, 8),
	}

	require.NoError(t, store.Publish(ctx, run))
	pairs, err := store.PairRecords(ctx, "empty", nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}
