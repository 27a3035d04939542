package intelligence

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/strideworks/stride/internal/domain"
)

// PlanSlots holds the structured fields extracted from one message.
// Nil means the field was not mentioned, never that it should be cleared.
type PlanSlots struct {
	GoalDistance *domain.GoalDistance
	GoalDate     *time.Time
	DaysPerWeek  *int
}

// Empty reports whether no slot was extracted.
func (s PlanSlots) Empty() bool {
	return s.GoalDistance == nil && s.GoalDate == nil && s.DaysPerWeek == nil
}

// distanceAliases maps spelling variants to goal distances. First matching
// alias wins, so longer aliases come before their substrings.
var distanceAliases = []struct {
	alias    string
	distance domain.GoalDistance
}{
	{"half marathon", domain.DistanceHalf},
	{"half-marathon", domain.DistanceHalf},
	{"13.1", domain.DistanceHalf},
	{"half", domain.DistanceHalf},
	{"full marathon", domain.DistanceMarathon},
	{"26.2", domain.DistanceMarathon},
	{"marathon", domain.DistanceMarathon},
	{"10k", domain.Distance10K},
	{"10 k", domain.Distance10K},
	{"10km", domain.Distance10K},
	{"5k", domain.Distance5K},
	{"5 k", domain.Distance5K},
	{"5km", domain.Distance5K},
}

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var (
	isoDateRe      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dayMonthYearRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})\b`)
	monthDayYearRe = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	midMonthRe     = regexp.MustCompile(`(?i)\bmid[- ]?(january|february|march|april|may|june|july|august|september|october|november|december)(?:\s+(\d{4}))?\b`)
	daysPerWeekRe  = regexp.MustCompile(`(?i)\b([1-7])\s*(?:days?\s*(?:a|per)\s*week|x\s*/?\s*week|times?\s*(?:a|per)\s*week)\b`)
	monthNameRe    = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	dayCountRe     = regexp.MustCompile(`(?i)\b[1-7]\s*(?:days?|x|times?)\b`)
)

// ExtractPlanSlots pattern-matches training-plan fields out of free text.
// Each field is matched independently; nothing here ever errors.
func ExtractPlanSlots(text string) PlanSlots {
	return ExtractPlanSlotsAt(text, time.Now().UTC())
}

// ExtractPlanSlotsAt is ExtractPlanSlots with an injectable "now" for the
// year-defaulting rule.
func ExtractPlanSlotsAt(text string, now time.Time) PlanSlots {
	var slots PlanSlots
	lower := strings.ToLower(text)

	for _, a := range distanceAliases {
		if containsWord(lower, a.alias) {
			d := a.distance
			slots.GoalDistance = &d
			break
		}
	}

	if t, ok := extractGoalDate(text, now); ok {
		slots.GoalDate = &t
	}

	if m := daysPerWeekRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			slots.DaysPerWeek = &n
		}
	}

	return slots
}

// extractGoalDate tries the supported date formats in priority order and
// returns the first valid calendar date.
func extractGoalDate(text string, now time.Time) (time.Time, bool) {
	if m := isoDateRe.FindString(text); m != "" {
		// time.Parse rejects impossible calendar dates outright.
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t, true
		}
	}

	if m := dayMonthYearRe.FindStringSubmatch(text); m != nil {
		if t, ok := calendarDate(m[3], m[1], strings.ToLower(m[2])); ok {
			return t, true
		}
	}

	if m := monthDayYearRe.FindStringSubmatch(text); m != nil {
		if t, ok := calendarDate(m[3], m[2], strings.ToLower(m[1])); ok {
			return t, true
		}
	}

	if m := midMonthRe.FindStringSubmatch(text); m != nil {
		year := m[2]
		if year == "" {
			// Year defaults to the current one only with an explicit
			// "this year" qualifier.
			if !strings.Contains(strings.ToLower(text), "this year") {
				return time.Time{}, false
			}
			year = strconv.Itoa(now.Year())
		}
		if t, ok := calendarDate(year, "15", strings.ToLower(m[1])); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// calendarDate builds a UTC date and rejects impossible calendar values
// (time.Date normalizes overflow, so round-trip check the day).
func calendarDate(yearStr, dayStr, monthName string) (time.Time, bool) {
	month, ok := monthNames[monthName]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// HasPlanSignal reports whether a message carries any plan-relevant signal:
// an extractable slot, the word "plan", a month name, a day-count pattern,
// or the literal word "week". Used for draft abandonment detection.
func HasPlanSignal(text string) bool {
	lower := strings.ToLower(text)
	if !ExtractPlanSlots(text).Empty() {
		return true
	}
	if containsWord(lower, "plan") {
		return true
	}
	if monthNameRe.MatchString(text) {
		return true
	}
	if dayCountRe.MatchString(text) {
		return true
	}
	return containsWord(lower, "week")
}
