package intelligence

import (
	"regexp"
	"strings"
)

// PlanAction is a side-channel command that bypasses classification and
// interrupts any open plan draft.
type PlanAction string

const (
	ActionNone          PlanAction = ""
	ActionShowPlan      PlanAction = "show_plan"
	ActionTrackTraining PlanAction = "track_training"
	ActionSubscribe     PlanAction = "subscribe"
	ActionUnsubscribe   PlanAction = "unsubscribe"
	ActionEditGoal      PlanAction = "edit_goal"
	ActionReschedule    PlanAction = "reschedule"
)

// actionRules map command phrases to actions, evaluated in order.
// Unsubscribe precedes subscribe so "unsubscribe" never matches as
// "subscribe".
var actionRules = []struct {
	re     *regexp.Regexp
	action PlanAction
}{
	{regexp.MustCompile(`(?i)\b(show|view|see)\b.{0,16}\b(full|whole|entire|my)\s+plan\b`), ActionShowPlan},
	{regexp.MustCompile(`(?i)\btrack\b.{0,16}\btraining\b`), ActionTrackTraining},
	{regexp.MustCompile(`(?i)\bunsubscribe\b`), ActionUnsubscribe},
	{regexp.MustCompile(`(?i)\bsubscribe\b`), ActionSubscribe},
	{regexp.MustCompile(`(?i)\b(edit|change|update)\b.{0,16}\bgoal\b`), ActionEditGoal},
	{regexp.MustCompile(`(?i)\breschedul\w*\b`), ActionReschedule},
}

// DetectAction returns the first side-channel action matched in text.
func DetectAction(text string) PlanAction {
	for _, r := range actionRules {
		if r.re.MatchString(text) {
			return r.action
		}
	}
	return ActionNone
}

var planCreationRe = regexp.MustCompile(`(?i)((create|build|make|generate|start|need|want|give me).{0,24}\b(training\s+)?plan\b|training plan)`)

// WantsPlanCreation reports whether the message carries explicit
// plan-creation language, which opens a draft even with no extractable slot.
func WantsPlanCreation(text string) bool {
	return planCreationRe.MatchString(text)
}

// IsConfirmation reports an affirmative reply in a confirm/cancel exchange.
func IsConfirmation(text string) bool {
	lower := strings.TrimRight(strings.ToLower(strings.TrimSpace(text)), ".!")
	switch lower {
	case "yes", "y", "confirm", "confirmed", "yes please", "do it", "go ahead", "sure":
		return true
	}
	return false
}

// IsCancellation reports a negative reply in a confirm/cancel exchange.
func IsCancellation(text string) bool {
	lower := strings.TrimRight(strings.ToLower(strings.TrimSpace(text)), ".!")
	switch lower {
	case "no", "n", "cancel", "nevermind", "never mind", "stop", "keep it":
		return true
	}
	return false
}
