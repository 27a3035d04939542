package domain

// IntentType classifies the purpose of a user message.
type IntentType string

const (
	IntentLastRun      IntentType = "last_run"
	IntentRecentRuns   IntentType = "recent_runs"
	IntentFitnessTrend IntentType = "fitness_trend"
	IntentWeather      IntentType = "weather"
	IntentTrainingPlan IntentType = "training_plan"
	IntentGeneral      IntentType = "general"
	IntentNonRunning   IntentType = "non_running"
	IntentProfanity    IntentType = "profanity"
)

// ValidIntents is the canonical set of accepted intent strings.
var ValidIntents = map[string]bool{
	"last_run": true, "recent_runs": true, "fitness_trend": true,
	"weather": true, "training_plan": true, "general": true,
	"non_running": true, "profanity": true,
}

// ChartIntents are intents whose UI requires at least one chart in the payload.
var ChartIntents = map[IntentType]bool{
	IntentLastRun:      true,
	IntentRecentRuns:   true,
	IntentFitnessTrend: true,
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type GoalDistance string

const (
	Distance5K       GoalDistance = "5k"
	Distance10K      GoalDistance = "10k"
	DistanceHalf     GoalDistance = "half"
	DistanceMarathon GoalDistance = "marathon"
)

// PlanWeeks returns the training plan duration for a goal distance.
func (d GoalDistance) PlanWeeks() int {
	switch d {
	case DistanceHalf:
		return 12
	case DistanceMarathon:
		return 16
	default:
		return 8
	}
}

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
)
