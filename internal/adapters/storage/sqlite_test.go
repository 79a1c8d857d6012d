package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/resolverbot/internal/adapters/storage"
	"github.com/alejandrodnm/resolverbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReport(runID string, at time.Time, pending ...string) domain.RunReport {
	return domain.RunReport{
		RunID:        runID,
		StartedAt:    at,
		Duration:     1500 * time.Millisecond,
		OverdueTotal: 3 + len(pending),
		Resolved:     2,
		Failed:       1,
		Resolutions: []domain.Resolution{
			{MarketID: "sports_e1_los_angeles_lakers", Outcome: domain.OutcomeYes, Match: domain.MatchExact},
			{MarketID: "esports_9_vitality", Outcome: domain.OutcomeYes, Match: domain.MatchContains},
		},
		FeedErrors: map[string]string{"esports_live": "timeout"},
		Pending:    pending,
	}
}

func openDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStorage_SaveAndRecentRuns(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, db.SaveRun(ctx, makeReport("run-1", base.Add(-time.Minute))))
	require.NoError(t, db.SaveRun(ctx, makeReport("run-2", base)))

	runs, err := db.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// más reciente primero
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, 2, runs[0].Resolved)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
	assert.Equal(t, "timeout", runs[0].FeedErrors["esports_live"])
	assert.WithinDuration(t, base, runs[0].StartedAt, time.Microsecond)

	require.Len(t, runs[0].Resolutions, 2)
	assert.Equal(t, "esports_9_vitality", runs[0].Resolutions[0].MarketID)
	assert.Equal(t, domain.MatchContains, runs[0].Resolutions[0].Match)
	assert.Equal(t, domain.OutcomeYes, runs[0].Resolutions[1].Outcome)
}

func TestSQLiteStorage_RecentRunsEmpty(t *testing.T) {
	runs, err := openDB(t).RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLiteStorage_StuckMarketsConsecutive(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, db.SaveRun(ctx, makeReport("r1", base, "a", "b")))
	require.NoError(t, db.SaveRun(ctx, makeReport("r2", base.Add(time.Minute), "a", "b")))
	require.NoError(t, db.SaveRun(ctx, makeReport("r3", base.Add(2*time.Minute), "a")))

	stuck, err := db.StuckMarkets(ctx, 2)
	require.NoError(t, err)
	require.Len(t, stuck, 1, "b left the pending set and its streak was reset")
	assert.Equal(t, "a", stuck[0].MarketID)
	assert.Equal(t, 3, stuck[0].Attempts)
	assert.True(t, stuck[0].FirstSeen.Before(stuck[0].LastSeen))

	// b vuelve a quedar pendiente: el contador empieza de cero
	require.NoError(t, db.SaveRun(ctx, makeReport("r4", base.Add(3*time.Minute), "a", "b")))
	stuck, err = db.StuckMarkets(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stuck, 2)
	assert.Equal(t, 4, stuck[0].Attempts)
	assert.Equal(t, "b", stuck[1].MarketID)
	assert.Equal(t, 1, stuck[1].Attempts)
}

func TestSQLiteStorage_DryRunDoesNotCountAttempts(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	r := makeReport("dry", time.Now().UTC(), "a")
	r.DryRun = true
	require.NoError(t, db.SaveRun(ctx, r))

	stuck, err := db.StuckMarkets(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, stuck)

	runs, err := db.RecentRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].DryRun)
}

func TestSQLiteStorage_DuplicateRunIDFails(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, db.SaveRun(ctx, makeReport("same", now)))
	assert.Error(t, db.SaveRun(ctx, makeReport("same", now)))
}
