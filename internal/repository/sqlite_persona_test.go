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

func TestPersonaRepo_UpsertAndGet(t *testing.T) {
	repo := NewSQLitePersonaRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	profile := &domain.PersonaProfile{
		ConversationID: "conv-1",
		Level:          domain.ProficiencyIntermediate,
		Score:          48,
		Tags:           []string{"pace", "long run"},
		UpdatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Upsert(ctx, profile))

	got, err := repo.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProficiencyIntermediate, got.Level)
	assert.Equal(t, 48, got.Score)
	assert.ElementsMatch(t, []string{"pace", "long run"}, got.Tags)
	assert.Nil(t, got.LastRefreshed)
}

func TestPersonaRepo_GetMissing(t *testing.T) {
	repo := NewSQLitePersonaRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "no-such")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersonaRepo_UpsertReplaces(t *testing.T) {
	repo := NewSQLitePersonaRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Upsert(ctx, &domain.PersonaProfile{
		ConversationID: "conv-1",
		Level:          domain.ProficiencyBeginner,
		Score:          20,
		UpdatedAt:      now,
	}))

	refreshed := now.Add(-time.Hour)
	require.NoError(t, repo.Upsert(ctx, &domain.PersonaProfile{
		ConversationID: "conv-1",
		Level:          domain.ProficiencyAdvanced,
		Score:          84,
		Tags:           []string{"vo2"},
		LastRefreshed:  &refreshed,
		UpdatedAt:      now,
	}))

	got, err := repo.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProficiencyAdvanced, got.Level)
	assert.Equal(t, 84, got.Score)
	require.NotNil(t, got.LastRefreshed)
	assert.True(t, refreshed.Equal(*got.LastRefreshed))
}

func TestPersonaProfile_NeedsRefresh(t *testing.T) {
	now := time.Now().UTC()
	every := 15 * 24 * time.Hour

	fresh := now.Add(-24 * time.Hour)
	stale := now.Add(-16 * 24 * time.Hour)

	p := &domain.PersonaProfile{}
	assert.True(t, p.NeedsRefresh(now, every), "never refreshed")

	p.LastRefreshed = &fresh
	assert.False(t, p.NeedsRefresh(now, every))

	p.LastRefreshed = &stale
	assert.True(t, p.NeedsRefresh(now, every))
}
