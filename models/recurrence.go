package models

import "time"

// RuleStatus is the lifecycle state of a recurrence rule. The only allowed
// transition is active -> cancelled; cancelled is terminal.
type RuleStatus string

const (
	RuleActive    RuleStatus = "active"
	RuleCancelled RuleStatus = "cancelled"
)

// RecurrenceRule is the template describing a weekly-repeating session. It owns
// a rolling window of materialized Commitments via RecurrenceRuleID.
type RecurrenceRule struct {
	ID              string       `bson:"id" json:"id"`
	LocationID      string       `bson:"locationId" json:"locationId"`
	DayOfWeek       time.Weekday `bson:"dayOfWeek" json:"dayOfWeek"`
	Time            int          `bson:"time" json:"time"` // minutes from midnight
	DurationMinutes int          `bson:"durationMinutes" json:"durationMinutes"`
	StartDate       string       `bson:"startDate" json:"startDate"` // "YYYY-MM-DD"
	Status          RuleStatus   `bson:"status" json:"status"`

	// Denormalized onto materialized occurrences.
	StudentName string `bson:"studentName,omitempty" json:"studentName,omitempty"`
	ServiceName string `bson:"serviceName,omitempty" json:"serviceName,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsCancelled reports whether the rule has been cancelled. Cancelled rules do
// not regenerate occurrences.
func (r *RecurrenceRule) IsCancelled() bool {
	return r.Status == RuleCancelled
}
