package models

import "time"

// CommitmentKind distinguishes public assessment bookings from operator-created
// tutoring sessions.
type CommitmentKind string

const (
	KindBooking CommitmentKind = "booking"
	KindSession CommitmentKind = "session"
)

// Commitment is an occupied time block at a location. It occupies
// [Time, Time+DurationMinutes) on Date and is the unit the slot generator must
// avoid re-offering.
type Commitment struct {
	ID               string         `bson:"id" json:"id"`
	LocationID       string         `bson:"locationId" json:"locationId"`
	Date             string         `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time             int            `bson:"time" json:"time"` // minutes from midnight
	DurationMinutes  int            `bson:"durationMinutes" json:"durationMinutes"`
	Kind             CommitmentKind `bson:"kind" json:"kind"`
	RecurrenceRuleID string         `bson:"recurrenceRuleId,omitempty" json:"recurrenceRuleId,omitempty"`

	// Denormalized for display and reporting.
	StudentName string `bson:"studentName,omitempty" json:"studentName,omitempty"`
	ServiceName string `bson:"serviceName,omitempty" json:"serviceName,omitempty"`
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// End returns the commitment's end as minutes from midnight.
func (c *Commitment) End() int {
	return c.Time + c.DurationMinutes
}

// IsRecurring reports whether the commitment belongs to a recurrence rule.
func (c *Commitment) IsRecurring() bool {
	return c.RecurrenceRuleID != ""
}
