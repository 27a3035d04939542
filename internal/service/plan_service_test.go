package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/provider"
)

func setupPlan(t *testing.T) (*contextService, *mockProvider, PlanService, *domain.Conversation) {
	t.Helper()
	contexts, _ := setupContext(t)
	mock := &mockProvider{
		planResult: &provider.PlanResult{
			Summary:   "Progressive base building into race pace work.",
			Weeks:     []provider.PlanWeek{{Week: 1, Focus: "base", Sessions: []string{"easy 5k"}}},
			AgentName: "plan_coach",
		},
	}
	plans := NewPlanService(contexts, mock)

	conv, err := contexts.GetOrCreate(context.Background(), "")
	require.NoError(t, err)
	return contexts, mock, plans, conv
}

func TestPlanService_ClosedIgnoresUnrelatedMessage(t *testing.T) {
	_, mock, plans, conv := setupPlan(t)

	turn, err := plans.HandleTurn(context.Background(), conv, "how was my form", nil)
	require.NoError(t, err)
	assert.False(t, turn.Handled)
	assert.Zero(t, mock.planCalls)
}

func TestPlanService_SlotFillingScenario(t *testing.T) {
	contexts, mock, plans, conv := setupPlan(t)
	ctx := context.Background()

	// Turn 1: explicit plan interest, nothing extracted yet.
	turn, err := plans.HandleTurn(ctx, conv, "I want a training plan", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	assert.Contains(t, turn.Response.ResponseText, "distance")
	require.NotNil(t, contexts.Draft(conv.ID))
	assert.True(t, contexts.Draft(conv.ID).Empty())

	// Turn 2: distance only.
	turn, err = plans.HandleTurn(ctx, conv, "10k", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	draft := contexts.Draft(conv.ID)
	require.NotNil(t, draft.GoalDistance)
	assert.Equal(t, domain.Distance10K, *draft.GoalDistance)
	assert.Contains(t, turn.Response.ResponseText, "goal date")

	// Turn 3: date.
	turn, err = plans.HandleTurn(ctx, conv, "2026-06-01", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	draft = contexts.Draft(conv.ID)
	require.NotNil(t, draft.GoalDate)
	assert.Contains(t, turn.Response.ResponseText, "days per week")

	// Turn 4: days; draft is complete so the generator runs.
	turn, err = plans.HandleTurn(ctx, conv, "4 days a week", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	assert.Equal(t, 1, mock.planCalls)
	assert.Nil(t, contexts.Draft(conv.ID), "draft cleared after creation")
	assert.NotEmpty(t, turn.Response.PlanSummary)
	require.Len(t, turn.Response.WeeklyDetail, 1)
	assert.Contains(t, turn.Response.ResponseText, "8-week")

	req := mock.planReqs[0]
	assert.Equal(t, domain.Distance10K, req.GoalDistance)
	assert.Equal(t, 4, req.DaysPerWeek)
	assert.True(t, req.GoalDate.Equal(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPlanService_Abandonment(t *testing.T) {
	contexts, _, plans, conv := setupPlan(t)
	ctx := context.Background()

	_, err := plans.HandleTurn(ctx, conv, "plan for a 5k", nil)
	require.NoError(t, err)
	require.NotNil(t, contexts.Draft(conv.ID))

	// No slot, no "plan", no month, no day count, no "week".
	turn, err := plans.HandleTurn(ctx, conv, "tell me a joke", nil)
	require.NoError(t, err)
	assert.False(t, turn.Handled, "abandoning message falls through to classification")
	assert.Nil(t, contexts.Draft(conv.ID), "draft discarded on abandonment")
}

func TestPlanService_SlotAccumulationMonotonic(t *testing.T) {
	contexts, _, plans, conv := setupPlan(t)
	ctx := context.Background()

	_, err := plans.HandleTurn(ctx, conv, "half marathon plan", nil)
	require.NoError(t, err)

	// Mentions a date but not the distance; distance must survive.
	_, err = plans.HandleTurn(ctx, conv, "race is 2026-09-20", nil)
	require.NoError(t, err)

	draft := contexts.Draft(conv.ID)
	require.NotNil(t, draft.GoalDistance)
	assert.Equal(t, domain.DistanceHalf, *draft.GoalDistance)
	require.NotNil(t, draft.GoalDate)
}

func TestPlanService_GeneratorFailureKeepsDraft(t *testing.T) {
	contexts, mock, plans, conv := setupPlan(t)
	ctx := context.Background()
	mock.planResult = nil
	mock.planErr = errors.New("provider down")

	turn, err := plans.HandleTurn(ctx, conv, "5k on 2026-06-01, 3 days a week", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	assert.Contains(t, turn.Response.ResponseText, "goal date")

	draft := contexts.Draft(conv.ID)
	require.NotNil(t, draft, "draft survives generator failure")
	assert.True(t, draft.Complete())
}

func TestPlanService_PersonaProficiencyPassedThrough(t *testing.T) {
	_, mock, plans, conv := setupPlan(t)

	persona := &domain.PersonaProfile{Level: domain.ProficiencyAdvanced}
	_, err := plans.HandleTurn(context.Background(), conv, "marathon on 2026-10-04, 5 days a week", persona)
	require.NoError(t, err)
	require.Len(t, mock.planReqs, 1)
	assert.Equal(t, domain.ProficiencyAdvanced, mock.planReqs[0].Proficiency)
}

func TestPlanService_SideChannelActions(t *testing.T) {
	contexts, _, plans, conv := setupPlan(t)
	ctx := context.Background()

	// Open a draft first; actions interrupt it.
	_, err := plans.HandleTurn(ctx, conv, "plan for a 10k", nil)
	require.NoError(t, err)

	turn, err := plans.HandleTurn(ctx, conv, "show my full plan", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	assert.Nil(t, contexts.Draft(conv.ID), "show plan supersedes the draft")

	// Edit goal resets to an empty open draft.
	turn, err = plans.HandleTurn(ctx, conv, "I want to change my goal", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	draft := contexts.Draft(conv.ID)
	require.NotNil(t, draft)
	assert.True(t, draft.Empty())

	// Reschedule answers directly without touching the draft.
	turn, err = plans.HandleTurn(ctx, conv, "reschedule my tuesday run", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	require.NotNil(t, contexts.Draft(conv.ID))
}

func TestPlanService_UnsubscribeOpensConfirmation(t *testing.T) {
	contexts, _, plans, conv := setupPlan(t)

	turn, err := plans.HandleTurn(context.Background(), conv, "unsubscribe", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	assert.True(t, contexts.UnsubscribePending(conv.ID))
	assert.Contains(t, turn.Response.ResponseText, "unsubscribe")
}

func TestPlanService_TrackTrainingCarriesSummary(t *testing.T) {
	_, mock, plans, conv := setupPlan(t)
	mock.summaryResult = &provider.TrainingSummary{
		Weeks:           4,
		RunCount:        11,
		TotalKm:         86.5,
		AvgPaceMinPerKm: 5.9,
	}

	turn, err := plans.HandleTurn(context.Background(), conv, "track my training", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	assert.Equal(t, 1, mock.summaryCalls)

	require.NotNil(t, turn.Response.TrainingSummary)
	assert.Equal(t, 11, turn.Response.TrainingSummary.RunCount)
	assert.InDelta(t, 86.5, turn.Response.TrainingSummary.TotalKm, 0.001)
	assert.Contains(t, turn.Response.ResponseText, "11 runs")
}

func TestPlanService_TrackTrainingWithoutHistory(t *testing.T) {
	_, mock, plans, conv := setupPlan(t)
	mock.summaryErr = errors.New("no synced data")

	turn, err := plans.HandleTurn(context.Background(), conv, "track my training", nil)
	require.NoError(t, err)
	require.True(t, turn.Handled)
	assert.Nil(t, turn.Response.TrainingSummary)
	assert.Contains(t, turn.Response.ResponseText, "Training tracking is on")
}
