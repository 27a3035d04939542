package domain

import "time"

// Chart is a structured series payload attached to an analysis, passed
// through to the rendering layer untouched.
type Chart struct {
	Title  string    `json:"title"`
	Type   string    `json:"type"`
	Labels []string  `json:"labels"`
	Series []float64 `json:"series"`
}

// AnalysisResult is a cached provider analysis, keyed by
// (conversation id, intent). At most one live entry per key.
type AnalysisResult struct {
	ConversationID string
	Intent         IntentType
	Analysis       string
	AgentName      string
	Charts         []Chart
	CreatedAt      time.Time
}

// Age returns how old the entry is at the given instant.
func (a *AnalysisResult) Age(now time.Time) time.Duration {
	return now.Sub(a.CreatedAt)
}
