package provider

import (
	"time"

	"github.com/strideworks/stride/internal/domain"
)

// Analysis is the provider's answer for a data-backed analysis intent.
// A non-empty Error field marks the result as failed even on HTTP 200.
type Analysis struct {
	Analysis  string         `json:"analysis"`
	AgentName string         `json:"agent_name"`
	Charts    []domain.Chart `json:"charts"`
	Error     string         `json:"error,omitempty"`
}

// WeatherReport is the provider's answer for a weather query.
type WeatherReport struct {
	TemperatureC   float64 `json:"temperature_c"`
	Condition      string  `json:"condition"`
	WindKph        float64 `json:"wind_kph"`
	Humidity       int     `json:"humidity"`
	Recommendation string  `json:"recommendation"`
	AgentName      string  `json:"agent_name"`
	Error          string  `json:"error,omitempty"`
}

// PlanRequest carries the filled slots and persona context to the plan
// generator.
type PlanRequest struct {
	ConversationID string              `json:"conversation_id"`
	GoalDistance   domain.GoalDistance `json:"goal_distance"`
	GoalDate       time.Time           `json:"goal_date"`
	DaysPerWeek    int                 `json:"days_per_week"`
	Proficiency    domain.Proficiency  `json:"proficiency"`
}

// PlanWeek is one week of a generated training plan.
type PlanWeek struct {
	Week     int      `json:"week"`
	Focus    string   `json:"focus"`
	Sessions []string `json:"sessions"`
	TotalKm  float64  `json:"total_km"`
}

// PlanResult is the generated plan skeleton.
type PlanResult struct {
	Summary   string     `json:"summary"`
	Weeks     []PlanWeek `json:"weeks"`
	AgentName string     `json:"agent_name"`
	Error     string     `json:"error,omitempty"`
}

// TrainingSummary is a small multi-week history digest used by the persona
// refresh. AvgPaceMinPerKm is zero when no pace statistic is derivable.
type TrainingSummary struct {
	Weeks           int     `json:"weeks"`
	RunCount        int     `json:"run_count"`
	TotalKm         float64 `json:"total_km"`
	AvgPaceMinPerKm float64 `json:"avg_pace_min_per_km"`
	Error           string  `json:"error,omitempty"`
}

// Turn is one prior exchange supplied to the context-aware classifier.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClassifyRequest is the input to the context-aware classifier.
type ClassifyRequest struct {
	Text             string `json:"text"`
	RecentTurns      []Turn `json:"recent_turns"`
	LastIntent       string `json:"last_intent"`
	HasConnectedData bool   `json:"has_connected_data"`
}

// ClassifyResult is the structured intent the context-aware classifier
// produced, extracted from its raw diagnostic output.
type ClassifyResult struct {
	Intent               string  `json:"intent"`
	Confidence           float64 `json:"confidence"`
	RequiresExternalData bool    `json:"requires_external_data"`
	Raw                  string  `json:"-"`
}

// classifyEnvelope is the wire shape of /classify-intent: the raw model
// output plus an optional error marker.
type classifyEnvelope struct {
	Raw   string `json:"raw"`
	Error string `json:"error,omitempty"`
}
