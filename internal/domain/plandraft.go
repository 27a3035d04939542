package domain

import "time"

// PlanDraft accumulates training-plan slots across turns. Fields are only
// ever overwritten by an explicitly extracted new value, never cleared by
// omission.
type PlanDraft struct {
	ConversationID string
	GoalDistance   *GoalDistance
	GoalDate       *time.Time
	DaysPerWeek    *int
}

// Empty reports whether no slot has been filled yet.
func (d *PlanDraft) Empty() bool {
	return d.GoalDistance == nil && d.GoalDate == nil && d.DaysPerWeek == nil
}

// Complete reports whether all three slots are filled.
func (d *PlanDraft) Complete() bool {
	return d.GoalDistance != nil && d.GoalDate != nil && d.DaysPerWeek != nil
}

// MissingFields lists the unfilled slots in prompt order.
func (d *PlanDraft) MissingFields() []string {
	var missing []string
	if d.GoalDistance == nil {
		missing = append(missing, "goal distance")
	}
	if d.GoalDate == nil {
		missing = append(missing, "goal date")
	}
	if d.DaysPerWeek == nil {
		missing = append(missing, "days per week")
	}
	return missing
}
