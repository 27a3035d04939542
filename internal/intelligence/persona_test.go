package intelligence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strideworks/stride/internal/domain"
)

func TestScorePersona_BaseScore(t *testing.T) {
	got := ScorePersona([]string{"how was my day", "tell me something"})
	assert.Equal(t, 20, got.Score)
	assert.Equal(t, domain.ProficiencyBeginner, got.Level)
	assert.Empty(t, got.Tags)
}

func TestScorePersona_AdvancedVocabulary(t *testing.T) {
	msgs := []string{
		"my lactate threshold session felt hard",
		"should I adjust my taper before the race",
		"vo2 work and tempo on the same week?",
		"periodization for the spring block",
		"negative split strategy and intervals",
	}
	got := ScorePersona(msgs)
	assert.GreaterOrEqual(t, got.Score, 70)
	assert.Equal(t, domain.ProficiencyAdvanced, got.Level)
	assert.Contains(t, got.Tags, "taper")
}

func TestScorePersona_IntermediateVocabulary(t *testing.T) {
	msgs := []string{
		"what pace for my long run",
		"my mileage and splits this week",
		"heart rate on the recovery run",
	}
	got := ScorePersona(msgs)
	assert.GreaterOrEqual(t, got.Score, 40)
	assert.Less(t, got.Score, 70)
	assert.Equal(t, domain.ProficiencyIntermediate, got.Level)
}

func TestScorePersona_BeginnerTermsSubtract(t *testing.T) {
	got := ScorePersona([]string{
		"I'm a beginner, never run before",
		"couch to 5k, how do i run",
	})
	assert.Less(t, got.Score, 20)
	assert.Equal(t, domain.ProficiencyBeginner, got.Level)
}

func TestScorePersona_ClampedToBounds(t *testing.T) {
	var floor []string
	for i := 0; i < 20; i++ {
		floor = append(floor, "beginner never run couch to")
	}
	got := ScorePersona(floor)
	assert.Equal(t, 5, got.Score)

	var ceiling []string
	for i := 0; i < 30; i++ {
		ceiling = append(ceiling, "vo2 lactate threshold taper tempo intervals cadence")
	}
	got = ScorePersona(ceiling)
	assert.Equal(t, 95, got.Score)
	assert.Equal(t, domain.ProficiencyAdvanced, got.Level)
}

func TestLevelForPace(t *testing.T) {
	assert.Equal(t, domain.ProficiencyAdvanced, LevelForPace(4.8))
	assert.Equal(t, domain.ProficiencyAdvanced, LevelForPace(5.49))
	assert.Equal(t, domain.ProficiencyIntermediate, LevelForPace(5.5))
	assert.Equal(t, domain.ProficiencyIntermediate, LevelForPace(6.2))
	assert.Equal(t, domain.ProficiencyBeginner, LevelForPace(6.5))
	assert.Equal(t, domain.ProficiencyBeginner, LevelForPace(8.0))
}
