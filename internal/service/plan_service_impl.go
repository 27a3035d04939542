package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/strideworks/stride/internal/contract"
	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/intelligence"
	"github.com/strideworks/stride/internal/provider"
)

const planAgentName = "plan_coach"

type planService struct {
	contexts ContextService
	provider provider.Client
}

// NewPlanService creates the slot-filling plan dialogue driver.
func NewPlanService(contexts ContextService, client provider.Client) PlanService {
	return &planService{contexts: contexts, provider: client}
}

// HandleTurn runs side-channel action detection and the draft state
// machine for one message. Handled false means the turn falls through to
// classification.
func (s *planService) HandleTurn(ctx context.Context, conv *domain.Conversation, text string, persona *domain.PersonaProfile) (*PlanTurn, error) {
	if action := intelligence.DetectAction(text); action != intelligence.ActionNone {
		return s.handleAction(ctx, conv, action), nil
	}

	draft := s.contexts.Draft(conv.ID)
	slots := intelligence.ExtractPlanSlots(text)

	if draft == nil {
		// Closed. A draft opens on an extracted slot or explicit
		// plan-creation language.
		if slots.Empty() && !intelligence.WantsPlanCreation(text) {
			return &PlanTurn{Handled: false}, nil
		}
		draft = s.contexts.MergeDraft(conv.ID, slots)
	} else {
		// Collecting. A message with no plan-relevant signal abandons the
		// draft and the turn is classified fresh.
		if !intelligence.HasPlanSignal(text) {
			s.contexts.ClearDraft(conv.ID)
			return &PlanTurn{Handled: false}, nil
		}
		draft = s.contexts.MergeDraft(conv.ID, slots)
	}

	if !draft.Complete() {
		return &PlanTurn{
			Handled:  true,
			Response: planResponse(conv.ID, missingFieldsPrompt(draft), nil),
		}, nil
	}

	return s.generate(ctx, conv, draft, persona)
}

func (s *planService) generate(ctx context.Context, conv *domain.Conversation, draft *domain.PlanDraft, persona *domain.PersonaProfile) (*PlanTurn, error) {
	proficiency := domain.ProficiencyBeginner
	if persona != nil {
		proficiency = persona.Level
	}

	result, err := s.provider.GeneratePlan(ctx, provider.PlanRequest{
		ConversationID: conv.ID,
		GoalDistance:   *draft.GoalDistance,
		GoalDate:       *draft.GoalDate,
		DaysPerWeek:    *draft.DaysPerWeek,
		Proficiency:    proficiency,
	})
	if err != nil {
		// Keep the draft so collected slots survive the failure.
		return &PlanTurn{
			Handled: true,
			Response: planResponse(conv.ID,
				"I couldn't put your plan together just now. Could you reconfirm your goal date and I'll try again?",
				nil),
		}, nil
	}

	s.contexts.ClearDraft(conv.ID)

	resp := planResponse(conv.ID, planIntro(draft, result), result)
	return &PlanTurn{Handled: true, Response: resp}, nil
}

func (s *planService) handleAction(ctx context.Context, conv *domain.Conversation, action intelligence.PlanAction) *PlanTurn {
	switch action {
	case intelligence.ActionShowPlan:
		s.contexts.ClearDraft(conv.ID)
		return &PlanTurn{Handled: true, Response: planResponse(conv.ID,
			"Here's your full training plan. Open the plan view to see every week in detail.", nil)}
	case intelligence.ActionTrackTraining:
		s.contexts.ClearDraft(conv.ID)
		return &PlanTurn{Handled: true, Response: s.trackTrainingResponse(ctx, conv)}
	case intelligence.ActionSubscribe:
		s.contexts.ClearDraft(conv.ID)
		return &PlanTurn{Handled: true, Response: planResponse(conv.ID,
			"You're subscribed to weekly plan updates. I'll send a summary at the start of each training week.", nil)}
	case intelligence.ActionUnsubscribe:
		s.contexts.SetUnsubscribePending(conv.ID, true)
		return &PlanTurn{Handled: true, Response: planResponse(conv.ID,
			"Are you sure you want to unsubscribe from plan updates? Reply yes to confirm or no to keep them.", nil)}
	case intelligence.ActionEditGoal:
		s.contexts.ResetDraft(conv.ID)
		return &PlanTurn{Handled: true, Response: planResponse(conv.ID,
			"Let's set a new goal. What distance are you training for, when is the race, and how many days a week can you run?", nil)}
	case intelligence.ActionReschedule:
		return &PlanTurn{Handled: true, Response: planResponse(conv.ID,
			"To move a session, tell me which day you'd like to swap and I'll adjust that week. The rest of the plan stays as is.", nil)}
	}
	return &PlanTurn{Handled: false}
}

// trackTrainingResponse answers the track-training action with the recent
// multi-week digest when synced data is available.
func (s *planService) trackTrainingResponse(ctx context.Context, conv *domain.Conversation) *contract.TurnResponse {
	resp := planResponse(conv.ID,
		"Training tracking is on. I'll check your synced runs against the plan and flag anything that drifts.", nil)

	summary, err := s.provider.TrainingSummary(ctx, conv.ID, summaryWeeks)
	if err != nil || summary == nil || summary.RunCount == 0 {
		// No usable history yet; the confirmation alone stands.
		return resp
	}

	resp.TrainingSummary = &contract.TrainingSummaryPayload{
		Weeks:           summary.Weeks,
		RunCount:        summary.RunCount,
		TotalKm:         summary.TotalKm,
		AvgPaceMinPerKm: summary.AvgPaceMinPerKm,
	}
	resp.ResponseText = fmt.Sprintf(
		"Training tracking is on. Over the last %d weeks you logged %d runs for %.1f km. I'll check new runs against the plan and flag anything that drifts.",
		summary.Weeks, summary.RunCount, summary.TotalKm)
	return resp
}

// missingFieldsPrompt phrases the follow-up question by how many slots are
// still open.
func missingFieldsPrompt(draft *domain.PlanDraft) string {
	missing := draft.MissingFields()
	switch len(missing) {
	case 1:
		return fmt.Sprintf("Almost there. I just need your %s.", missing[0])
	case 2:
		return fmt.Sprintf("Got it. I still need your %s and %s.", missing[0], missing[1])
	default:
		return "Happy to build you a training plan. What distance are you targeting, " +
			"when is the race, and how many days a week can you run?"
	}
}

func planIntro(draft *domain.PlanDraft, result *provider.PlanResult) string {
	weeks := draft.GoalDistance.PlanWeeks()
	intro := fmt.Sprintf("Your %d-week %s plan is ready, building toward %s at %d days a week.",
		weeks, *draft.GoalDistance, draft.GoalDate.Format("January 2, 2006"), *draft.DaysPerWeek)
	if result.Summary != "" {
		intro = intro + " " + strings.TrimSpace(result.Summary)
	}
	return intro
}

func planResponse(sessionID, text string, result *provider.PlanResult) *contract.TurnResponse {
	resp := &contract.TurnResponse{
		ResponseText: text,
		SessionID:    sessionID,
		IntentType:   domain.IntentTrainingPlan,
		AgentName:    planAgentName,
		Confidence:   1,
	}
	if result != nil {
		resp.PlanSummary = result.Summary
		resp.WeeklyDetail = contract.PlanWeeksFrom(result.Weeks)
		if result.AgentName != "" {
			resp.AgentName = result.AgentName
		}
	}
	return resp
}
