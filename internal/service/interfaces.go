package service

import (
	"context"
	"time"

	"github.com/strideworks/stride/internal/contract"
	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/intelligence"
)

// ContextService is the session context store: the only mutation surface
// for per-conversation state. It owns the durable records (conversation,
// messages, analysis cache, persona rows) and the ephemeral ones (plan
// drafts, unsubscribe confirmations), and enforces their invariants.
type ContextService interface {
	// GetOrCreate loads the conversation for sessionID, creating it (with
	// a fresh id when sessionID is empty) on first contact.
	GetOrCreate(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// LockConversation serializes turns for one conversation. The returned
	// function releases the lock.
	LockConversation(conversationID string) (unlock func())

	// AppendTurn records the user message and assistant response in
	// arrival order, refreshes the rolling summary, and persists the
	// last-route fields.
	AppendTurn(ctx context.Context, conv *domain.Conversation, userMsg, assistantMsg string, intent domain.IntentType, agent string) error

	// SetLocation persists the last known geolocation for the session.
	SetLocation(ctx context.Context, conv *domain.Conversation, lat, lon float64) error

	RecentTurns(ctx context.Context, conversationID string, n int) ([]*domain.Message, error)
	RecentUserMessages(ctx context.Context, conversationID string, n int) ([]string, error)

	// UsableAnalysis applies the cache policy: an entry is returned only
	// if it is younger than maxAge and, for chart intents, carries at
	// least one chart. A miss is nil, nil.
	UsableAnalysis(ctx context.Context, conversationID string, intent domain.IntentType, maxAge time.Duration) (*domain.AnalysisResult, error)

	// StoreAnalysis replaces the cache entry for (conversation, intent).
	StoreAnalysis(ctx context.Context, a *domain.AnalysisResult) error

	// Draft returns a copy of the open plan draft, or nil when closed.
	Draft(conversationID string) *domain.PlanDraft

	// MergeDraft opens the draft if needed and merges newly extracted
	// slots without clobbering already-known fields.
	MergeDraft(conversationID string, slots intelligence.PlanSlots) *domain.PlanDraft

	ClearDraft(conversationID string)

	// ResetDraft discards all collected fields but keeps the draft open.
	ResetDraft(conversationID string) *domain.PlanDraft

	UnsubscribePending(conversationID string) bool
	SetUnsubscribePending(conversationID string, pending bool)
}

// PersonaService maintains the runner proficiency profile.
type PersonaService interface {
	// Current returns the stored profile, or nil when none exists yet.
	Current(ctx context.Context, conversationID string) (*domain.PersonaProfile, error)

	// Observe rescores the profile from recent user messages, pulls the
	// external history digest when the refresh cadence is due, and
	// persists the result. External failures degrade to the vocabulary
	// score; they never fail the turn.
	Observe(ctx context.Context, conversationID string, recentUserMessages []string) (*domain.PersonaProfile, error)
}

// PlanTurn is the outcome of plan-draft handling for one message.
// Handled false means the draft did not claim the turn (closed, or just
// abandoned) and classification should proceed.
type PlanTurn struct {
	Handled  bool
	Response *contract.TurnResponse
}

// PlanService drives the multi-turn slot-filling dialogue for training
// plan creation.
type PlanService interface {
	HandleTurn(ctx context.Context, conv *domain.Conversation, text string, persona *domain.PersonaProfile) (*PlanTurn, error)
}

// RouterService orchestrates one conversational turn end to end.
type RouterService interface {
	Handle(ctx context.Context, req contract.TurnRequest) (*contract.TurnResponse, error)
}
