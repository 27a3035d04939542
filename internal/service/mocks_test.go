package service

import (
	"context"
	"testing"

	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/provider"
	"github.com/strideworks/stride/internal/repository"
	"github.com/strideworks/stride/internal/testutil"
)

// mockProvider is a hand-rolled provider.Client with per-method call
// counters and configurable results.
type mockProvider struct {
	lastRunCalls  int
	lastRunResult *provider.Analysis
	lastRunErr    error

	recentCalls  int
	recentResult *provider.Analysis
	recentErr    error

	trendCalls  int
	trendResult *provider.Analysis
	trendErr    error

	weatherCalls  int
	weatherResult *provider.WeatherReport
	weatherErr    error

	coachCalls  int
	coachResult *provider.Analysis
	coachErr    error

	planCalls  int
	planReqs   []provider.PlanRequest
	planResult *provider.PlanResult
	planErr    error

	summaryCalls  int
	summaryResult *provider.TrainingSummary
	summaryErr    error

	classifyCalls  int
	classifyResult *provider.ClassifyResult
	classifyErr    error
}

func (m *mockProvider) AnalyzeLastRun(ctx context.Context, conversationID string) (*provider.Analysis, error) {
	m.lastRunCalls++
	return m.lastRunResult, m.lastRunErr
}

func (m *mockProvider) CompareRecentRuns(ctx context.Context, conversationID string, numRuns int) (*provider.Analysis, error) {
	m.recentCalls++
	return m.recentResult, m.recentErr
}

func (m *mockProvider) FitnessTrend(ctx context.Context, conversationID string, months int) (*provider.Analysis, error) {
	m.trendCalls++
	return m.trendResult, m.trendErr
}

func (m *mockProvider) Weather(ctx context.Context, lat, lon float64) (*provider.WeatherReport, error) {
	m.weatherCalls++
	return m.weatherResult, m.weatherErr
}

func (m *mockProvider) CoachAnswer(ctx context.Context, question string, proficiency domain.Proficiency, summary string) (*provider.Analysis, error) {
	m.coachCalls++
	return m.coachResult, m.coachErr
}

func (m *mockProvider) GeneratePlan(ctx context.Context, req provider.PlanRequest) (*provider.PlanResult, error) {
	m.planCalls++
	m.planReqs = append(m.planReqs, req)
	return m.planResult, m.planErr
}

func (m *mockProvider) TrainingSummary(ctx context.Context, conversationID string, weeks int) (*provider.TrainingSummary, error) {
	m.summaryCalls++
	return m.summaryResult, m.summaryErr
}

func (m *mockProvider) ClassifyIntent(ctx context.Context, req provider.ClassifyRequest) (*provider.ClassifyResult, error) {
	m.classifyCalls++
	return m.classifyResult, m.classifyErr
}

// setupContext builds a real context service over in-memory sqlite repos.
func setupContext(t *testing.T) (*contextService, repository.PersonaRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	conversations := repository.NewSQLiteConversationRepo(database)
	cache := repository.NewSQLiteAnalysisCacheRepo(database)
	personas := repository.NewSQLitePersonaRepo(database)
	return NewContextService(conversations, cache).(*contextService), personas
}
