package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storelocator/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	started := time.Now().UTC().Truncate(time.Second)
	id, err := s.BeginRun(ctx, "reconcile", "batch.csv", started)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	counts := map[string]int{"new": 3, "junk": 1}
	require.NoError(t, s.FinishRun(ctx, id, counts, started.Add(time.Minute)))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "reconcile", runs[0].Stage)
	assert.Equal(t, "batch.csv", runs[0].Input)
	require.NotNil(t, runs[0].FinishedAt)
	assert.Equal(t, counts, runs[0].Counts)
}

func TestListRunsNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Now().UTC()
	var last string
	for i := 0; i < 3; i++ {
		id, err := s.BeginRun(ctx, "pivot", "export.csv", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		last = id
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, last, runs[0].ID)
	assert.Nil(t, runs[0].FinishedAt)
}

func TestClassificationsAndKeyHistory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	batch := []model.StoreRecord{
		{Name: "Joe's Liquor", City: "Austin", State: "TX"},
		{Name: "Closed Store", City: "Dallas", State: "TX"},
	}
	cs := []model.Classification{
		{Position: 0, Key: "joesliquor|austin|tx", Bucket: model.BucketNew, Ref: -1},
		{Position: 1, Key: "closedstore|dallas|tx", Bucket: model.BucketBlocked, Ref: -1},
	}

	id, err := s.BeginRun(ctx, "reconcile", "batch.csv", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.RecordClassifications(ctx, id, cs, batch))

	history, err := s.KeyHistory(ctx, "closedstore|dallas|tx")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.BucketBlocked, history[0].Bucket)
	assert.Equal(t, 1, history[0].Position)

	history, err = s.KeyHistory(ctx, "unknown|key|zz")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHealth(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Health(context.Background()))
}
