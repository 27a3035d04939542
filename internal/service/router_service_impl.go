package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/strideworks/stride/internal/contract"
	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/intelligence"
	"github.com/strideworks/stride/internal/provider"
)

const (
	coachAgentName    = "coach"
	analysisAgentName = "running_analysis"
	weatherAgentName  = "weather_advisor"
	routerAgentName   = "router"

	recentRunsDefault  = 5
	trendMonthsDefault = 3
	personaMsgWindow   = 10
)

// RouterConfig carries the routing knobs the orchestrator needs.
type RouterConfig struct {
	CacheFreshness       time.Duration
	ContextClassifier    bool
	ClassifierTurnWindow int
}

type routerService struct {
	cfg        RouterConfig
	contexts   ContextService
	personas   PersonaService
	plans      PlanService
	classifier *intelligence.PatternClassifier
	provider   provider.Client
	observer   TurnObserver
	now        func() time.Time

	// flight collapses concurrent provider calls for the same
	// (conversation, intent) into one.
	flight singleflight.Group
}

// NewRouterService wires the turn orchestrator.
func NewRouterService(cfg RouterConfig, contexts ContextService, personas PersonaService, plans PlanService, classifier *intelligence.PatternClassifier, client provider.Client, observer TurnObserver) RouterService {
	if observer == nil {
		observer = NoopTurnObserver{}
	}
	return &routerService{
		cfg:        cfg,
		contexts:   contexts,
		personas:   personas,
		plans:      plans,
		classifier: classifier,
		provider:   client,
		observer:   observer,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *routerService) Handle(ctx context.Context, req contract.TurnRequest) (*contract.TurnResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &ValidationError{Field: "message", Message: "message must be a non-empty string"}
	}

	conv, err := s.contexts.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	unlock := s.contexts.LockConversation(conv.ID)
	defer unlock()

	// Re-load inside the critical section. The pre-lock snapshot may
	// predate writes committed by a concurrent turn for the same session,
	// and persisting it back would erase them.
	conv, err = s.contexts.GetOrCreate(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	if req.Location != nil {
		if err := s.contexts.SetLocation(ctx, conv, req.Location.Lat, req.Location.Lon); err != nil {
			return nil, err
		}
	}

	started := s.now()
	text := intelligence.Normalize(req.Message)

	persona := s.observePersona(ctx, conv.ID, text)

	// Branch 1: a pending unsubscribe confirmation claims the turn.
	if s.contexts.UnsubscribePending(conv.ID) {
		resp := s.resolveUnsubscribe(conv, text)
		return s.finish(ctx, conv, req.Message, resp, started, false, false)
	}

	// Branches 2 and 3: side-channel plan actions and the draft state
	// machine.
	planTurn, err := s.plans.HandleTurn(ctx, conv, text, persona)
	if err != nil {
		return nil, err
	}
	if planTurn.Handled {
		planTurn.Response.SessionID = conv.ID
		if planTurn.Response.SuggestedPrompts == nil {
			planTurn.Response.SuggestedPrompts = SuggestedPrompts(domain.IntentTrainingPlan)
		}
		return s.finish(ctx, conv, req.Message, planTurn.Response, started, false, false)
	}

	// Branch 4: classification.
	intent, degraded := s.classify(ctx, conv, text)

	resp, cacheHit, handleErr := s.respond(ctx, conv, text, intent, persona)
	if handleErr != nil {
		s.observer.ObserveTurn(ctx, TurnEvent{
			ConversationID: conv.ID,
			Intent:         string(intent.Type),
			Degraded:       degraded,
			Duration:       s.now().Sub(started),
			Err:            handleErr,
		})
		return nil, handleErr
	}

	return s.finish(ctx, conv, req.Message, resp, started, cacheHit, degraded)
}

// observePersona rescores the proficiency profile. Persona problems never
// fail a turn.
func (s *routerService) observePersona(ctx context.Context, conversationID, text string) *domain.PersonaProfile {
	recent, err := s.contexts.RecentUserMessages(ctx, conversationID, personaMsgWindow)
	if err != nil {
		recent = nil
	}
	recent = append(recent, text)
	persona, err := s.personas.Observe(ctx, conversationID, recent)
	if err != nil {
		return nil
	}
	return persona
}

func (s *routerService) resolveUnsubscribe(conv *domain.Conversation, text string) *contract.TurnResponse {
	switch {
	case intelligence.IsConfirmation(text):
		s.contexts.SetUnsubscribePending(conv.ID, false)
		return fixedResponse(conv.ID, domain.IntentTrainingPlan, planAgentName, unsubscribeDone)
	case intelligence.IsCancellation(text):
		s.contexts.SetUnsubscribePending(conv.ID, false)
		return fixedResponse(conv.ID, domain.IntentTrainingPlan, planAgentName, unsubscribeKept)
	default:
		return fixedResponse(conv.ID, domain.IntentTrainingPlan, planAgentName, unsubscribeConfirmPrompt)
	}
}

// classify runs the pattern classifier, consults the context-aware
// classifier when the pattern result is weak, and applies the non_running
// override. The second return reports classifier degradation.
func (s *routerService) classify(ctx context.Context, conv *domain.Conversation, text string) (intelligence.Intent, bool) {
	cctx := intelligence.ConvContext{
		LastIntent:   conv.LastIntent,
		MessageCount: messageCount(conv),
		RecentText:   conv.Summary,
	}

	intent := s.classifier.Classify(text, cctx)
	degraded := false

	if s.cfg.ContextClassifier && !s.classifier.Sufficient(intent) && !s.classifier.IsFollowUp(text, cctx) {
		if ext, ok := s.contextClassify(ctx, conv, text); ok {
			intent = ext
		} else {
			degraded = true
		}
	}

	return s.classifier.Override(intent, text, cctx), degraded
}

func (s *routerService) contextClassify(ctx context.Context, conv *domain.Conversation, text string) (intelligence.Intent, bool) {
	turns, err := s.contexts.RecentTurns(ctx, conv.ID, s.cfg.ClassifierTurnWindow)
	if err != nil {
		return intelligence.Intent{}, false
	}
	req := provider.ClassifyRequest{
		Text:             text,
		LastIntent:       string(conv.LastIntent),
		HasConnectedData: true,
	}
	for _, t := range turns {
		req.RecentTurns = append(req.RecentTurns, provider.Turn{Role: string(t.Role), Content: t.Content})
	}

	result, err := s.provider.ClassifyIntent(ctx, req)
	if err != nil {
		return intelligence.Intent{}, false
	}
	return intelligence.Intent{
		Type:                 domain.IntentType(result.Intent),
		Confidence:           result.Confidence,
		RequiresExternalData: result.RequiresExternalData,
	}, true
}

func (s *routerService) respond(ctx context.Context, conv *domain.Conversation, text string, intent intelligence.Intent, persona *domain.PersonaProfile) (resp *contract.TurnResponse, cacheHit bool, err error) {
	switch intent.Type {
	case domain.IntentProfanity:
		return fixedResponse(conv.ID, intent.Type, routerAgentName, redirectProfanity), false, nil

	case domain.IntentNonRunning:
		return fixedResponse(conv.ID, intent.Type, routerAgentName, redirectNonRunning), false, nil

	case domain.IntentWeather:
		return s.respondWeather(ctx, conv, intent), false, nil

	case domain.IntentLastRun, domain.IntentRecentRuns, domain.IntentFitnessTrend:
		return s.respondAnalysis(ctx, conv, intent)

	case domain.IntentTrainingPlan:
		// Classified plan interest with no extractable slot or creation
		// phrase yet: open the draft and start collecting.
		draft := s.contexts.MergeDraft(conv.ID, intelligence.ExtractPlanSlots(text))
		r := planResponse(conv.ID, missingFieldsPrompt(draft), nil)
		r.Confidence = intent.Confidence
		return r, false, nil

	case domain.IntentGeneral:
		return s.respondCoach(ctx, conv, text, intent, persona), false, nil

	default:
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownIntent, intent.Type)
	}
}

func (s *routerService) respondWeather(ctx context.Context, conv *domain.Conversation, intent intelligence.Intent) *contract.TurnResponse {
	if !conv.HasLocation() {
		return fixedResponse(conv.ID, intent.Type, weatherAgentName, promptLocation)
	}

	report, err := s.provider.Weather(ctx, *conv.LastLat, *conv.LastLon)
	if err != nil {
		return fixedResponse(conv.ID, intent.Type, weatherAgentName, failureGeneric)
	}

	agent := report.AgentName
	if agent == "" {
		agent = weatherAgentName
	}
	return &contract.TurnResponse{
		ResponseText:     report.Recommendation,
		SessionID:        conv.ID,
		IntentType:       intent.Type,
		AgentName:        agent,
		Confidence:       intent.Confidence,
		Weather:          contract.WeatherPayloadFrom(report),
		SuggestedPrompts: SuggestedPrompts(intent.Type),
	}
}

func (s *routerService) respondAnalysis(ctx context.Context, conv *domain.Conversation, intent intelligence.Intent) (*contract.TurnResponse, bool, error) {
	cached, err := s.contexts.UsableAnalysis(ctx, conv.ID, intent.Type, s.cfg.CacheFreshness)
	if err != nil {
		return nil, false, err
	}
	if cached != nil {
		return analysisResponse(conv.ID, intent, cached), true, nil
	}

	key := conv.ID + ":" + string(intent.Type)
	v, err, _ := s.flight.Do(key, func() (any, error) {
		return s.fetchAnalysis(ctx, conv.ID, intent.Type)
	})
	if err != nil {
		// No cache entry is written on failure.
		return fixedResponse(conv.ID, intent.Type, analysisAgentName, failureGeneric), false, nil
	}

	result := v.(*domain.AnalysisResult)
	if storeErr := s.contexts.StoreAnalysis(ctx, result); storeErr != nil {
		return nil, false, storeErr
	}
	return analysisResponse(conv.ID, intent, result), false, nil
}

func (s *routerService) fetchAnalysis(ctx context.Context, conversationID string, intent domain.IntentType) (*domain.AnalysisResult, error) {
	var (
		analysis *provider.Analysis
		err      error
	)
	switch intent {
	case domain.IntentLastRun:
		analysis, err = s.provider.AnalyzeLastRun(ctx, conversationID)
	case domain.IntentRecentRuns:
		analysis, err = s.provider.CompareRecentRuns(ctx, conversationID, recentRunsDefault)
	case domain.IntentFitnessTrend:
		analysis, err = s.provider.FitnessTrend(ctx, conversationID, trendMonthsDefault)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntent, intent)
	}
	if err != nil {
		return nil, err
	}

	return &domain.AnalysisResult{
		ConversationID: conversationID,
		Intent:         intent,
		Analysis:       analysis.Analysis,
		AgentName:      analysis.AgentName,
		Charts:         analysis.Charts,
		CreatedAt:      s.now(),
	}, nil
}

func (s *routerService) respondCoach(ctx context.Context, conv *domain.Conversation, text string, intent intelligence.Intent, persona *domain.PersonaProfile) *contract.TurnResponse {
	proficiency := domain.ProficiencyBeginner
	if persona != nil {
		proficiency = persona.Level
	}

	answer, err := s.provider.CoachAnswer(ctx, text, proficiency, conv.Summary)
	if err != nil {
		return fixedResponse(conv.ID, intent.Type, coachAgentName, failureGeneric)
	}

	agent := answer.AgentName
	if agent == "" {
		agent = coachAgentName
	}
	return &contract.TurnResponse{
		ResponseText:     answer.Analysis,
		SessionID:        conv.ID,
		IntentType:       intent.Type,
		AgentName:        agent,
		Confidence:       intent.Confidence,
		SuggestedPrompts: SuggestedPrompts(intent.Type),
	}
}

// finish appends the turn to the context store and emits the turn event.
func (s *routerService) finish(ctx context.Context, conv *domain.Conversation, userMsg string, resp *contract.TurnResponse, started time.Time, cacheHit, degraded bool) (*contract.TurnResponse, error) {
	if err := s.contexts.AppendTurn(ctx, conv, userMsg, resp.ResponseText, resp.IntentType, resp.AgentName); err != nil {
		return nil, err
	}
	s.observer.ObserveTurn(ctx, TurnEvent{
		ConversationID: conv.ID,
		Intent:         string(resp.IntentType),
		Agent:          resp.AgentName,
		CacheHit:       cacheHit,
		Degraded:       degraded,
		Duration:       s.now().Sub(started),
		Success:        true,
	})
	return resp, nil
}

func analysisResponse(sessionID string, intent intelligence.Intent, result *domain.AnalysisResult) *contract.TurnResponse {
	agent := result.AgentName
	if agent == "" {
		agent = analysisAgentName
	}
	return &contract.TurnResponse{
		ResponseText:         result.Analysis,
		SessionID:            sessionID,
		IntentType:           intent.Type,
		RequiresExternalData: true,
		AgentName:            agent,
		Confidence:           intent.Confidence,
		Charts:               result.Charts,
		SuggestedPrompts:     SuggestedPrompts(intent.Type),
	}
}

func fixedResponse(sessionID string, intent domain.IntentType, agent, text string) *contract.TurnResponse {
	return &contract.TurnResponse{
		ResponseText:     text,
		SessionID:        sessionID,
		IntentType:       intent,
		AgentName:        agent,
		Confidence:       1,
		SuggestedPrompts: SuggestedPrompts(intent),
	}
}

// messageCount approximates prior activity from persisted state; the
// classifier only needs "has this conversation said anything yet".
func messageCount(conv *domain.Conversation) int {
	if conv.LastIntent != "" || conv.Summary != "" {
		return 1
	}
	return 0
}
