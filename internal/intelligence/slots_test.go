package intelligence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideworks/stride/internal/domain"
)

func TestExtractPlanSlots_Distances(t *testing.T) {
	cases := []struct {
		text string
		want domain.GoalDistance
	}{
		{"training for a 5k", domain.Distance5K},
		{"a 10k in june", domain.Distance10K},
		{"10km race", domain.Distance10K},
		{"my first half marathon", domain.DistanceHalf},
		{"the 13.1 distance", domain.DistanceHalf},
		{"a full marathon next spring", domain.DistanceMarathon},
		{"26.2 miles", domain.DistanceMarathon},
		{"marathon training", domain.DistanceMarathon},
	}
	for _, tc := range cases {
		got := ExtractPlanSlots(tc.text)
		require.NotNil(t, got.GoalDistance, "text %q", tc.text)
		assert.Equal(t, tc.want, *got.GoalDistance, "text %q", tc.text)
	}
}

func TestExtractPlanSlots_HalfBeatsMarathonInHalfMarathon(t *testing.T) {
	got := ExtractPlanSlots("half marathon in october")
	require.NotNil(t, got.GoalDistance)
	assert.Equal(t, domain.DistanceHalf, *got.GoalDistance)
}

func TestExtractPlanSlots_Dates(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		text string
		want time.Time
	}{
		{"race day is 2026-06-01", time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{"racing on 14 June 2026", time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC)},
		{"it's on June 14, 2026", time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC)},
		{"3rd May 2026 is the date", time.Date(2026, time.May, 3, 0, 0, 0, 0, time.UTC)},
		{"mid October 2026", time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)},
		{"mid-september this year", time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := ExtractPlanSlotsAt(tc.text, now)
		require.NotNil(t, got.GoalDate, "text %q", tc.text)
		assert.True(t, tc.want.Equal(*got.GoalDate), "text %q got %v", tc.text, *got.GoalDate)
	}
}

func TestExtractPlanSlots_InvalidDatesRejected(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	for _, text := range []string{
		"2026-02-30 is my race",
		"31 June 2026",
		"mid october", // no year, no "this year" qualifier
	} {
		got := ExtractPlanSlotsAt(text, now)
		assert.Nil(t, got.GoalDate, "text %q", text)
	}
}

func TestExtractPlanSlots_DaysPerWeek(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"I can run 4 days a week", 4},
		{"3 days per week works", 3},
		{"5x week", 5},
		{"training 6 times a week", 6},
	}
	for _, tc := range cases {
		got := ExtractPlanSlots(tc.text)
		require.NotNil(t, got.DaysPerWeek, "text %q", tc.text)
		assert.Equal(t, tc.want, *got.DaysPerWeek, "text %q", tc.text)
	}
}

func TestExtractPlanSlots_NoMatch(t *testing.T) {
	got := ExtractPlanSlots("how do I breathe better")
	assert.True(t, got.Empty())
	assert.Nil(t, got.GoalDistance)
	assert.Nil(t, got.GoalDate)
	assert.Nil(t, got.DaysPerWeek)
}

func TestExtractPlanSlots_AllThreeAtOnce(t *testing.T) {
	got := ExtractPlanSlots("10k on 2026-06-01, running 4 days a week")
	require.NotNil(t, got.GoalDistance)
	require.NotNil(t, got.GoalDate)
	require.NotNil(t, got.DaysPerWeek)
	assert.Equal(t, domain.Distance10K, *got.GoalDistance)
	assert.Equal(t, 4, *got.DaysPerWeek)
}

func TestHasPlanSignal(t *testing.T) {
	assert.True(t, HasPlanSignal("I want a plan"))
	assert.True(t, HasPlanSignal("maybe october"))
	assert.True(t, HasPlanSignal("4 days"))
	assert.True(t, HasPlanSignal("next week"))
	assert.True(t, HasPlanSignal("10k"))
	assert.False(t, HasPlanSignal("how was my form"))
	assert.False(t, HasPlanSignal("tell me a joke"))
}
