package intelligence

import (
	"strings"

	"github.com/strideworks/stride/internal/domain"
)

// Vocabulary tiers for proficiency scoring. The tiers are disjoint; a term
// appears in exactly one list.
var (
	advancedTerms = []string{
		"vo2", "lactate", "threshold", "fartlek", "periodization",
		"taper", "negative split", "tempo", "intervals", "cadence",
		"foot strike", "aerobic base",
	}
	intermediateTerms = []string{
		"pace", "heart rate", "long run", "mileage", "splits",
		"recovery run", "strides", "warm up", "cooldown", "easy run",
	}
	beginnerTerms = []string{
		"start running", "first run", "couch to", "how do i run",
		"beginner", "new to running", "never run", "walk breaks",
	}
)

const (
	personaBaseScore = 20
	personaMinScore  = 5
	personaMaxScore  = 95

	advancedDelta     = 8
	intermediateDelta = 4
	beginnerDelta     = -4

	advancedThreshold     = 70
	intermediateThreshold = 40
)

// PersonaScore is the vocabulary-derived proficiency estimate.
type PersonaScore struct {
	Score int
	Level domain.Proficiency
	Tags  []string
}

// ScorePersona derives a proficiency score from recent user messages.
// Each message contributes once per tier term it mentions; the running
// total is clamped to [5,95].
func ScorePersona(recentUserMessages []string) PersonaScore {
	score := personaBaseScore
	tagSet := map[string]bool{}

	for _, msg := range recentUserMessages {
		lower := strings.ToLower(msg)
		for _, term := range advancedTerms {
			if strings.Contains(lower, term) {
				score += advancedDelta
				tagSet[term] = true
			}
		}
		for _, term := range intermediateTerms {
			if strings.Contains(lower, term) {
				score += intermediateDelta
				tagSet[term] = true
			}
		}
		for _, term := range beginnerTerms {
			if strings.Contains(lower, term) {
				score += beginnerDelta
			}
		}
	}

	if score < personaMinScore {
		score = personaMinScore
	}
	if score > personaMaxScore {
		score = personaMaxScore
	}

	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}

	return PersonaScore{Score: score, Level: levelForScore(score), Tags: tags}
}

func levelForScore(score int) domain.Proficiency {
	switch {
	case score >= advancedThreshold:
		return domain.ProficiencyAdvanced
	case score >= intermediateThreshold:
		return domain.ProficiencyIntermediate
	default:
		return domain.ProficiencyBeginner
	}
}

// Pace thresholds (min per km) for the external-history override. A runner
// with synced data gets labeled from actual pace rather than vocabulary.
const (
	advancedPaceCutoff     = 5.5
	intermediatePaceCutoff = 6.5
)

// LevelForPace maps an average pace to a proficiency label.
func LevelForPace(avgPaceMinPerKm float64) domain.Proficiency {
	switch {
	case avgPaceMinPerKm < advancedPaceCutoff:
		return domain.ProficiencyAdvanced
	case avgPaceMinPerKm < intermediatePaceCutoff:
		return domain.ProficiencyIntermediate
	default:
		return domain.ProficiencyBeginner
	}
}
