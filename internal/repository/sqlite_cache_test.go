package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/testutil"
)

func TestAnalysisCacheRepo_PutAndGet(t *testing.T) {
	repo := NewSQLiteAnalysisCacheRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	entry := &domain.AnalysisResult{
		ConversationID: "conv-1",
		Intent:         domain.IntentLastRun,
		Analysis:       "Strong negative split on your last run.",
		AgentName:      "running_analysis",
		Charts: []domain.Chart{
			{Title: "Pace", Type: "line", Labels: []string{"km1", "km2"}, Series: []float64{5.4, 5.1}},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Put(ctx, entry))

	got, err := repo.Get(ctx, "conv-1", domain.IntentLastRun)
	require.NoError(t, err)
	assert.Equal(t, entry.Analysis, got.Analysis)
	assert.Equal(t, entry.AgentName, got.AgentName)
	require.Len(t, got.Charts, 1)
	assert.Equal(t, "Pace", got.Charts[0].Title)
	assert.Equal(t, []float64{5.4, 5.1}, got.Charts[0].Series)
}

func TestAnalysisCacheRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteAnalysisCacheRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "conv-1", domain.IntentLastRun)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalysisCacheRepo_PutReplacesExisting(t *testing.T) {
	repo := NewSQLiteAnalysisCacheRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	first := &domain.AnalysisResult{
		ConversationID: "conv-1",
		Intent:         domain.IntentFitnessTrend,
		Analysis:       "old",
		CreatedAt:      time.Now().UTC().Add(-time.Hour).Truncate(time.Second),
	}
	require.NoError(t, repo.Put(ctx, first))

	second := &domain.AnalysisResult{
		ConversationID: "conv-1",
		Intent:         domain.IntentFitnessTrend,
		Analysis:       "new",
		Charts:         []domain.Chart{{Title: "Trend", Type: "line"}},
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Put(ctx, second))

	got, err := repo.Get(ctx, "conv-1", domain.IntentFitnessTrend)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Analysis)
	require.Len(t, got.Charts, 1)
}

func TestAnalysisCacheRepo_EntriesKeyedByIntent(t *testing.T) {
	repo := NewSQLiteAnalysisCacheRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Put(ctx, &domain.AnalysisResult{
		ConversationID: "conv-1", Intent: domain.IntentLastRun, Analysis: "last run", CreatedAt: now,
	}))
	require.NoError(t, repo.Put(ctx, &domain.AnalysisResult{
		ConversationID: "conv-1", Intent: domain.IntentRecentRuns, Analysis: "recent runs", CreatedAt: now,
	}))

	got, err := repo.Get(ctx, "conv-1", domain.IntentLastRun)
	require.NoError(t, err)
	assert.Equal(t, "last run", got.Analysis)

	got, err = repo.Get(ctx, "conv-1", domain.IntentRecentRuns)
	require.NoError(t, err)
	assert.Equal(t, "recent runs", got.Analysis)
}

func TestAnalysisCacheRepo_NilChartsRoundTripEmpty(t *testing.T) {
	repo := NewSQLiteAnalysisCacheRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &domain.AnalysisResult{
		ConversationID: "conv-1",
		Intent:         domain.IntentLastRun,
		Analysis:       "chartless",
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}))

	got, err := repo.Get(ctx, "conv-1", domain.IntentLastRun)
	require.NoError(t, err)
	assert.Empty(t, got.Charts)
}
