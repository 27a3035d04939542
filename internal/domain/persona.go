package domain

import "time"

// PersonaProfile is a coarse runner-skill estimate for a conversation,
// derived from question vocabulary and, when available, synced run history.
type PersonaProfile struct {
	ConversationID string
	Level          Proficiency
	Score          int // clamped to [5,95]
	Tags           []string
	// LastRefreshed tracks the external run-history refresh, which runs on
	// a much slower cadence than vocabulary scoring.
	LastRefreshed *time.Time
	UpdatedAt     time.Time
}

// NeedsRefresh reports whether the externally sourced history statistics
// are due for a refresh at the given cadence.
func (p *PersonaProfile) NeedsRefresh(now time.Time, every time.Duration) bool {
	if p.LastRefreshed == nil {
		return true
	}
	return now.Sub(*p.LastRefreshed) >= every
}
