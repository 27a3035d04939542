package repository

import (
	"context"
	"errors"

	"github.com/strideworks/stride/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type ConversationRepo interface {
	Create(ctx context.Context, c *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	Update(ctx context.Context, c *domain.Conversation) error

	// AppendMessage inserts the message with the next sequence number and
	// bumps the conversation's updated_at, in one transaction.
	AppendMessage(ctx context.Context, m *domain.Message) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error)
}

// AnalysisCacheRepo stores at most one analysis per (conversation, intent).
// Put unconditionally replaces any previous entry for the key.
type AnalysisCacheRepo interface {
	Put(ctx context.Context, a *domain.AnalysisResult) error
	Get(ctx context.Context, conversationID string, intent domain.IntentType) (*domain.AnalysisResult, error)
}

type PersonaRepo interface {
	Get(ctx context.Context, conversationID string) (*domain.PersonaProfile, error)
	Upsert(ctx context.Context, p *domain.PersonaProfile) error
}
