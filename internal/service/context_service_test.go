package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/intelligence"
	"github.com/strideworks/stride/internal/repository"
	"github.com/strideworks/stride/internal/testutil"
)

func TestContextService_GetOrCreateMintsID(t *testing.T) {
	contexts, _ := setupContext(t)
	ctx := context.Background()

	conv, err := contexts.GetOrCreate(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)

	again, err := contexts.GetOrCreate(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)
}

func TestContextService_GetOrCreateUnknownIDCreates(t *testing.T) {
	contexts, _ := setupContext(t)

	conv, err := contexts.GetOrCreate(context.Background(), "client-supplied-id")
	require.NoError(t, err)
	assert.Equal(t, "client-supplied-id", conv.ID)
}

func TestContextService_AppendTurnUpdatesState(t *testing.T) {
	contexts, _ := setupContext(t)
	ctx := context.Background()

	conv, err := contexts.GetOrCreate(ctx, "")
	require.NoError(t, err)

	require.NoError(t, contexts.AppendTurn(ctx, conv,
		"analyze my last run", "Here is your analysis.", domain.IntentLastRun, "running_analysis"))

	assert.Equal(t, domain.IntentLastRun, conv.LastIntent)
	assert.Equal(t, "running_analysis", conv.LastAgent)
	assert.Contains(t, conv.Summary, "analyze my last run")
	assert.Contains(t, conv.Summary, "Here is your analysis.")

	msgs, err := contexts.RecentTurns(ctx, conv.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
}

func TestContextService_SummaryBounded(t *testing.T) {
	contexts, _ := setupContext(t)
	ctx := context.Background()

	conv, err := contexts.GetOrCreate(ctx, "")
	require.NoError(t, err)

	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, contexts.AppendTurn(ctx, conv,
			string(long), string(long), domain.IntentGeneral, "coach"))
	}
	assert.LessOrEqual(t, len(conv.Summary), 600)
}

func TestContextService_RecentUserMessagesFiltersRoles(t *testing.T) {
	contexts, _ := setupContext(t)
	ctx := context.Background()

	conv, err := contexts.GetOrCreate(ctx, "")
	require.NoError(t, err)

	require.NoError(t, contexts.AppendTurn(ctx, conv, "first question", "first answer", domain.IntentGeneral, "coach"))
	require.NoError(t, contexts.AppendTurn(ctx, conv, "second question", "second answer", domain.IntentGeneral, "coach"))

	msgs, err := contexts.RecentUserMessages(ctx, conv.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"first question", "second question"}, msgs)
}

func TestContextService_UsableAnalysisFreshness(t *testing.T) {
	contexts, _ := setupContext(t)
	ctx := context.Background()
	window := 15 * time.Minute

	now := time.Now().UTC()
	contexts.now = func() time.Time { return now }

	entry := &domain.AnalysisResult{
		ConversationID: "conv-1",
		Intent:         domain.IntentLastRun,
		Analysis:       "fresh",
		Charts:         []domain.Chart{{Title: "Pace"}},
		CreatedAt:      now.Add(-14 * time.Minute),
	}
	require.NoError(t, contexts.StoreAnalysis(ctx, entry))

	got, err := contexts.UsableAnalysis(ctx, "conv-1", domain.IntentLastRun, window)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fresh", got.Analysis)

	// 16 minutes old against a 15 minute window is stale.
	contexts.now = func() time.Time { return now.Add(2 * time.Minute) }
	got, err = contexts.UsableAnalysis(ctx, "conv-1", domain.IntentLastRun, window)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestContextService_UsableAnalysisRequiresCharts(t *testing.T) {
	contexts, _ := setupContext(t)
	ctx := context.Background()

	now := time.Now().UTC()
	contexts.now = func() time.Time { return now }

	require.NoError(t, contexts.StoreAnalysis(ctx, &domain.AnalysisResult{
		ConversationID: "conv-1",
		Intent:         domain.IntentFitnessTrend,
		Analysis:       "chartless trend",
		CreatedAt:      now,
	}))

	got, err := contexts.UsableAnalysis(ctx, "conv-1", domain.IntentFitnessTrend, 15*time.Minute)
	require.NoError(t, err)
	assert.Nil(t, got, "chart intents must not reuse chartless entries")
}

func TestContextService_UsableAnalysisMiss(t *testing.T) {
	contexts, _ := setupContext(t)

	got, err := contexts.UsableAnalysis(context.Background(), "conv-1", domain.IntentLastRun, 15*time.Minute)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestContextService_DraftLifecycle(t *testing.T) {
	contexts, _ := setupContext(t)

	assert.Nil(t, contexts.Draft("conv-1"))

	dist := domain.Distance10K
	draft := contexts.MergeDraft("conv-1", intelligence.PlanSlots{GoalDistance: &dist})
	require.NotNil(t, draft.GoalDistance)
	assert.Equal(t, domain.Distance10K, *draft.GoalDistance)
	assert.Nil(t, draft.GoalDate)

	// Merging empty slots keeps existing fields.
	draft = contexts.MergeDraft("conv-1", intelligence.PlanSlots{})
	require.NotNil(t, draft.GoalDistance)

	// A new value overwrites.
	half := domain.DistanceHalf
	days := 4
	draft = contexts.MergeDraft("conv-1", intelligence.PlanSlots{GoalDistance: &half, DaysPerWeek: &days})
	assert.Equal(t, domain.DistanceHalf, *draft.GoalDistance)
	assert.Equal(t, 4, *draft.DaysPerWeek)

	contexts.ClearDraft("conv-1")
	assert.Nil(t, contexts.Draft("conv-1"))
}

func TestContextService_ResetDraftKeepsOpen(t *testing.T) {
	contexts, _ := setupContext(t)

	dist := domain.DistanceMarathon
	contexts.MergeDraft("conv-1", intelligence.PlanSlots{GoalDistance: &dist})

	draft := contexts.ResetDraft("conv-1")
	assert.True(t, draft.Empty())
	require.NotNil(t, contexts.Draft("conv-1"))
	assert.True(t, contexts.Draft("conv-1").Empty())
}

func TestContextService_DraftCopyIsolated(t *testing.T) {
	contexts, _ := setupContext(t)

	dist := domain.Distance5K
	draft := contexts.MergeDraft("conv-1", intelligence.PlanSlots{GoalDistance: &dist})

	// Mutating the returned copy must not affect the stored draft.
	draft.GoalDistance = nil
	stored := contexts.Draft("conv-1")
	require.NotNil(t, stored.GoalDistance)
}

func TestContextService_UnsubscribePendingFlag(t *testing.T) {
	contexts, _ := setupContext(t)

	assert.False(t, contexts.UnsubscribePending("conv-1"))
	contexts.SetUnsubscribePending("conv-1", true)
	assert.True(t, contexts.UnsubscribePending("conv-1"))
	contexts.SetUnsubscribePending("conv-1", false)
	assert.False(t, contexts.UnsubscribePending("conv-1"))
}

func TestContextService_LockSerializesConversation(t *testing.T) {
	contexts, _ := setupContext(t)

	var order []int
	var mu sync.Mutex

	unlock := contexts.LockConversation("conv-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		u := contexts.LockConversation("conv-1")
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		u()
	}()

	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()

	<-done
	assert.Equal(t, []int{1, 2}, order)
}

func TestBuildSummaryKeepsValidUTF8(t *testing.T) {
	msgs := []*domain.Message{{
		Role:    domain.RoleUser,
		Content: strings.Repeat("é", 400) + "!",
	}}

	got := buildSummary(msgs)
	assert.LessOrEqual(t, len(got), summaryMaxLen)
	assert.True(t, utf8.ValidString(got))
}

// raceConvRepo forces one not-found miss so a first-contact lookup and a
// concurrent insert race on the same session id.
type raceConvRepo struct {
	repository.ConversationRepo
	missed bool
}

func (r *raceConvRepo) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	if !r.missed {
		r.missed = true
		return nil, repository.ErrNotFound
	}
	return r.ConversationRepo.GetByID(ctx, id)
}

func TestContextService_GetOrCreateSurvivesInsertRace(t *testing.T) {
	database := testutil.NewTestDB(t)
	conversations := repository.NewSQLiteConversationRepo(database)
	cache := repository.NewSQLiteAnalysisCacheRepo(database)
	ctx := context.Background()

	now := time.Now().UTC()
	seeded := &domain.Conversation{ID: "sess-race", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conversations.Create(ctx, seeded))

	svc := NewContextService(&raceConvRepo{ConversationRepo: conversations}, cache)

	conv, err := svc.GetOrCreate(ctx, "sess-race")
	require.NoError(t, err)
	assert.Equal(t, "sess-race", conv.ID)
}
