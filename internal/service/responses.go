package service

import "github.com/strideworks/stride/internal/domain"

// Fixed responses for branches that never reach the provider.
const (
	redirectNonRunning = "I'm your running coach, so that's outside my lane. " +
		"Ask me about your runs, training, pacing, or race prep and I'm all in."
	redirectProfanity = "Let's keep it friendly. I'm happy to talk running whenever you are."
	promptLocation    = "I need your location for a running weather check. " +
		"Enable location sharing and ask me again."
	failureGeneric = "Sorry, I failed to process that request. Please try again in a moment."

	unsubscribeConfirmPrompt = "Just to confirm: reply yes to unsubscribe from plan updates, or no to keep them."
	unsubscribeDone          = "Done, you're unsubscribed from plan updates. You can resubscribe any time."
	unsubscribeKept          = "No problem, your subscription is unchanged."
)

// suggestedPrompts offers likely next questions per answered intent.
var suggestedPrompts = map[domain.IntentType][]string{
	domain.IntentLastRun: {
		"How does it compare to my recent runs?",
		"What should my next workout be?",
	},
	domain.IntentRecentRuns: {
		"Show my fitness trend",
		"Am I ready to race?",
	},
	domain.IntentFitnessTrend: {
		"Analyze my last run",
		"Build me a training plan",
	},
	domain.IntentWeather: {
		"What should I wear?",
		"Is tomorrow better for a long run?",
	},
	domain.IntentTrainingPlan: {
		"Show my full plan",
		"Track my training",
	},
	domain.IntentGeneral: {
		"Analyze my last run",
		"What's the weather for running?",
	},
}

// SuggestedPrompts returns follow-up prompts for an intent, or nil.
func SuggestedPrompts(intent domain.IntentType) []string {
	return suggestedPrompts[intent]
}
