package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strideworks/stride/internal/domain"
	"github.com/strideworks/stride/internal/intelligence"
	"github.com/strideworks/stride/internal/provider"
	"github.com/strideworks/stride/internal/repository"
)

// summaryWeeks is the history window requested on a persona refresh.
const summaryWeeks = 4

type personaService struct {
	personas     repository.PersonaRepo
	provider     provider.Client
	refreshEvery time.Duration
	now          func() time.Time
}

// NewPersonaService creates the proficiency profiler. refreshEvery is the
// cadence for pulling run-history statistics from the provider.
func NewPersonaService(personas repository.PersonaRepo, client provider.Client, refreshEvery time.Duration) PersonaService {
	return &personaService{
		personas:     personas,
		provider:     client,
		refreshEvery: refreshEvery,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *personaService) Current(ctx context.Context, conversationID string) (*domain.PersonaProfile, error) {
	p, err := s.personas.Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading persona: %w", err)
	}
	return p, nil
}

func (s *personaService) Observe(ctx context.Context, conversationID string, recentUserMessages []string) (*domain.PersonaProfile, error) {
	now := s.now()

	profile, err := s.Current(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &domain.PersonaProfile{ConversationID: conversationID}
	}

	scored := intelligence.ScorePersona(recentUserMessages)
	profile.Score = scored.Score
	profile.Level = scored.Level
	profile.Tags = scored.Tags
	profile.UpdatedAt = now

	if profile.NeedsRefresh(now, s.refreshEvery) {
		summary, err := s.provider.TrainingSummary(ctx, conversationID, summaryWeeks)
		if err == nil && summary.RunCount > 0 && summary.AvgPaceMinPerKm > 0 {
			// Actual run history outranks vocabulary.
			profile.Level = intelligence.LevelForPace(summary.AvgPaceMinPerKm)
			profile.LastRefreshed = &now
		} else if err == nil {
			// Reachable provider but no usable history; record the attempt
			// so we don't hammer it every turn.
			profile.LastRefreshed = &now
		}
		// On provider failure the vocabulary score stands and the refresh
		// stays due.
	}

	if err := s.personas.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("persisting persona: %w", err)
	}
	return profile, nil
}
