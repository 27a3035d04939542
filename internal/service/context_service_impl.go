package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/intelligence"
	"github.com/strideworks/stride/internal/repository"
)

const (
	// summaryMaxLen bounds the rolling summary stored on the conversation.
	summaryMaxLen = 600
	// summaryTurnWindow is how many recent messages feed the summary.
	summaryTurnWindow = 6
)

type contextService struct {
	conversations repository.ConversationRepo
	cache         repository.AnalysisCacheRepo
	now           func() time.Time

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	drafts   map[string]*domain.PlanDraft
	pending  map[string]bool // unsubscribe confirmations
}

// NewContextService creates the session context store over the given
// repositories. Plan drafts and unsubscribe confirmations are process-local
// and are lost on restart, which costs an in-flight draft but never
// correctness.
func NewContextService(conversations repository.ConversationRepo, cache repository.AnalysisCacheRepo) ContextService {
	return &contextService{
		conversations: conversations,
		cache:         cache,
		now:           func() time.Time { return time.Now().UTC() },
		locks:         map[string]*sync.Mutex{},
		drafts:        map[string]*domain.PlanDraft{},
		pending:       map[string]bool{},
	}
}

func (s *contextService) GetOrCreate(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	if sessionID != "" {
		conv, err := s.conversations.GetByID(ctx, sessionID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("loading conversation: %w", err)
		}
	}

	id := sessionID
	if id == "" {
		id = uuid.NewString()
	}
	now := s.now()
	conv := &domain.Conversation{ID: id, CreatedAt: now, UpdatedAt: now}
	if err := s.conversations.Create(ctx, conv); err != nil {
		// A concurrent first turn for the same session id may have won
		// the insert between our lookup and this create. Use its row.
		if existing, getErr := s.conversations.GetByID(ctx, id); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	return conv, nil
}

func (s *contextService) LockConversation(conversationID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[conversationID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *contextService) AppendTurn(ctx context.Context, conv *domain.Conversation, userMsg, assistantMsg string, intent domain.IntentType, agent string) error {
	now := s.now()

	um := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Role:           domain.RoleUser,
		Content:        userMsg,
		CreatedAt:      now,
	}
	if err := s.conversations.AppendMessage(ctx, um); err != nil {
		return fmt.Errorf("appending user message: %w", err)
	}

	am := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Role:           domain.RoleAssistant,
		Content:        assistantMsg,
		CreatedAt:      now,
	}
	if err := s.conversations.AppendMessage(ctx, am); err != nil {
		return fmt.Errorf("appending assistant message: %w", err)
	}

	recent, err := s.conversations.ListMessages(ctx, conv.ID, summaryTurnWindow)
	if err != nil {
		return fmt.Errorf("loading messages for summary: %w", err)
	}

	conv.Summary = buildSummary(recent)
	conv.LastIntent = intent
	conv.LastAgent = agent
	conv.UpdatedAt = now
	if err := s.conversations.Update(ctx, conv); err != nil {
		return fmt.Errorf("persisting conversation state: %w", err)
	}
	return nil
}

func (s *contextService) SetLocation(ctx context.Context, conv *domain.Conversation, lat, lon float64) error {
	conv.LastLat = &lat
	conv.LastLon = &lon
	conv.UpdatedAt = s.now()
	if err := s.conversations.Update(ctx, conv); err != nil {
		return fmt.Errorf("persisting location: %w", err)
	}
	return nil
}

func (s *contextService) RecentTurns(ctx context.Context, conversationID string, n int) ([]*domain.Message, error) {
	return s.conversations.ListMessages(ctx, conversationID, n)
}

func (s *contextService) RecentUserMessages(ctx context.Context, conversationID string, n int) ([]string, error) {
	// Over-fetch so that assistant turns don't crowd out user ones.
	msgs, err := s.conversations.ListMessages(ctx, conversationID, n*2)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range msgs {
		if m.Role == domain.RoleUser {
			out = append(out, m.Content)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func (s *contextService) UsableAnalysis(ctx context.Context, conversationID string, intent domain.IntentType, maxAge time.Duration) (*domain.AnalysisResult, error) {
	entry, err := s.cache.Get(ctx, conversationID, intent)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading analysis cache: %w", err)
	}

	if entry.Age(s.now()) > maxAge {
		return nil, nil
	}
	if domain.ChartIntents[intent] && len(entry.Charts) == 0 {
		// The UI needs chart data; a chartless entry forces a fresh call.
		return nil, nil
	}
	return entry, nil
}

func (s *contextService) StoreAnalysis(ctx context.Context, a *domain.AnalysisResult) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	if err := s.cache.Put(ctx, a); err != nil {
		return fmt.Errorf("storing analysis: %w", err)
	}
	return nil
}

func (s *contextService) Draft(conversationID string) *domain.PlanDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[conversationID]
	if !ok {
		return nil
	}
	cp := *d
	return &cp
}

func (s *contextService) MergeDraft(conversationID string, slots intelligence.PlanSlots) *domain.PlanDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[conversationID]
	if !ok {
		d = &domain.PlanDraft{ConversationID: conversationID}
		s.drafts[conversationID] = d
	}

	// Monotonic accumulation: only explicitly extracted values overwrite.
	if slots.GoalDistance != nil {
		d.GoalDistance = slots.GoalDistance
	}
	if slots.GoalDate != nil {
		d.GoalDate = slots.GoalDate
	}
	if slots.DaysPerWeek != nil {
		d.DaysPerWeek = slots.DaysPerWeek
	}

	cp := *d
	return &cp
}

func (s *contextService) ClearDraft(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, conversationID)
}

func (s *contextService) ResetDraft(conversationID string) *domain.PlanDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &domain.PlanDraft{ConversationID: conversationID}
	s.drafts[conversationID] = d
	cp := *d
	return &cp
}

func (s *contextService) UnsubscribePending(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[conversationID]
}

func (s *contextService) SetUnsubscribePending(conversationID string, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pending {
		s.pending[conversationID] = true
		return
	}
	delete(s.pending, conversationID)
}

// buildSummary renders a bounded rolling summary from the most recent
// messages, oldest first.
func buildSummary(recent []*domain.Message) string {
	var b strings.Builder
	for _, m := range recent {
		if b.Len() > 0 {
			b.WriteString(" | ")
		}
		switch m.Role {
		case domain.RoleUser:
			b.WriteString("User: ")
		case domain.RoleAssistant:
			b.WriteString("Coach: ")
		default:
			continue
		}
		b.WriteString(m.Content)
	}
	s := b.String()
	if len(s) > summaryMaxLen {
		cut := len(s) - summaryMaxLen
		// Advance to the next rune start so the cut never leaves a
		// partial multi-byte sequence at the front.
		for cut < len(s) && !utf8.RuneStart(s[cut]) {
			cut++
		}
		s = s[cut:]
	}
	return s
}
