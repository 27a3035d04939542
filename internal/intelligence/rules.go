package intelligence

import (
	"regexp"

	"github.com/strideworks/stride/internal/domain"
)

// intentRule maps a compiled pattern to an intent with a fixed confidence.
// Rules are evaluated top-to-bottom; the first match wins, so earlier rules
// have higher priority.
type intentRule struct {
	name         string
	re           *regexp.Regexp
	intent       domain.IntentType
	confidence   float64
	requiresData bool
	keywords     []string
}

var intentRules = []intentRule{
	{
		name:       "profanity",
		re:         regexp.MustCompile(`(?i)\b(fuck\w*|shit\w*|asshole|bitch|bastard)\b`),
		intent:     domain.IntentProfanity,
		confidence: 0.95,
	},
	{
		name:       "weather",
		re:         regexp.MustCompile(`(?i)\b(weather|forecast|raining|rain today|humidity|wind|temperature outside|too (hot|cold) to run|run (outside|outdoors) today)\b`),
		intent:     domain.IntentWeather,
		confidence: 0.9,
		keywords:   []string{"weather", "forecast", "rain"},
	},
	{
		name:         "last_run",
		re:           regexp.MustCompile(`(?i)(analy[sz]e.*(latest|last|recent) run|how (did|was) (i|my).*run|my (latest|last) run|last run)`),
		intent:       domain.IntentLastRun,
		confidence:   0.9,
		requiresData: true,
		keywords:     []string{"analyze", "last run"},
	},
	{
		name:         "recent_runs",
		re:           regexp.MustCompile(`(?i)(compare.*(my )?(recent )?runs|recent trends|how am i progressing|consistency|last (few|\d+) runs)`),
		intent:       domain.IntentRecentRuns,
		confidence:   0.85,
		requiresData: true,
		keywords:     []string{"compare", "recent runs"},
	},
	{
		name:         "fitness_trend",
		re:           regexp.MustCompile(`(?i)(fitness (trend|progress)|long[- ]term|vo2 ?max|race readiness|(comprehensive|full|complete|overall) (analysis|assessment)|\d+[- ]month)`),
		intent:       domain.IntentFitnessTrend,
		confidence:   0.85,
		requiresData: true,
		keywords:     []string{"fitness", "trend", "vo2"},
	},
	{
		name:       "training_plan",
		re:         regexp.MustCompile(`(?i)(training plan|(create|build|make|need|want|give me).{0,24}\bplan\b|plan (for|to).{0,24}\b(5k|10k|half|marathon)\b)`),
		intent:     domain.IntentTrainingPlan,
		confidence: 0.85,
		keywords:   []string{"training plan"},
	},
	{
		name:       "non_running",
		re:         regexp.MustCompile(`(?i)\b(cook(ing)?|recipe|movie|film|netflix|stock(s| market)|crypto|bitcoin|politic\w*|election|homework|algebra|celebrit\w*|gossip|football|basketball|video ?game)\b`),
		intent:     domain.IntentNonRunning,
		confidence: 0.7,
	},
}

// runningVocab are domain terms used by the follow-up fast path and by the
// non_running override heuristic.
var runningVocab = []string{
	"run", "running", "jog", "pace", "mile", "miles", "km", "race",
	"marathon", "5k", "10k", "half", "tempo", "interval", "intervals",
	"fartlek", "cadence", "stride", "long run", "easy run", "recovery",
	"taper", "shoes", "trail", "splits", "threshold", "vo2",
}

// ackTokens are minimal acknowledgement openers that signal a follow-up to
// the previous assistant turn.
var ackTokens = []string{
	"yes", "ok", "okay", "so", "sure", "yep", "yeah", "and", "also",
	"what about", "how about", "thanks", "got it",
}

var gerundPattern = regexp.MustCompile(`(?i)\b[a-z]{3,}ing\b`)
