package models

import "time"

// CalendarBlock is the geometry-annotated projection of one Commitment for the
// day/week grid. TopOffset and Height are unit-less ratios of one hour row; the
// presentation layer supplies the pixel unit.
type CalendarBlock struct {
	CommitmentID     string         `json:"commitmentId"`
	Kind             CommitmentKind `json:"kind"`
	Date             string         `json:"date"`
	Start            int            `json:"start"` // minutes from midnight
	DurationMinutes  int            `json:"durationMinutes"`
	Label            string         `json:"label"` // e.g., "4:00 PM - 4:40 PM"
	StudentName      string         `json:"studentName,omitempty"`
	ServiceName      string         `json:"serviceName,omitempty"`
	RecurrenceRuleID string         `json:"recurrenceRuleId,omitempty"`
	Hour             int            `json:"hour"`      // row the block anchors to
	TopOffset        float64        `json:"topOffset"` // (start mod 60)/60
	Height           float64        `json:"height"`    // duration/60, clamped to a minimum
}

// HourCell is one hour row of a day column. Blocked cells must not accept
// new-commitment clicks.
type HourCell struct {
	Hour    int  `json:"hour"`
	Blocked bool `json:"blocked"`
}

// CalendarColumn is one visible date of a day/week grid.
type CalendarColumn struct {
	Date    string          `json:"date"`
	Weekday time.Weekday    `json:"weekday"`
	Closed  bool            `json:"closed"`
	Hours   []HourCell      `json:"hours"`
	Blocks  []CalendarBlock `json:"blocks"`
}

// CalendarGrid is the day/week projection consumed by the operator calendar.
type CalendarGrid struct {
	View       string           `json:"view"` // "day" or "week"
	AnchorDate string           `json:"anchorDate"`
	Columns    []CalendarColumn `json:"columns"`
}

// MonthCell is one date of the month matrix. Month view carries counts and
// kind indicators only, no minute-level geometry.
type MonthCell struct {
	Date            string `json:"date"`
	InMonth         bool   `json:"inMonth"`
	CommitmentCount int    `json:"commitmentCount"`
	HasBooking      bool   `json:"hasBooking"`
	HasSession      bool   `json:"hasSession"`
}

// MonthGrid is a 6x7 date matrix beginning on the Monday on/before the first
// of the anchor month.
type MonthGrid struct {
	View       string        `json:"view"` // "month"
	AnchorDate string        `json:"anchorDate"`
	Weeks      [][]MonthCell `json:"weeks"` // 6 rows of 7 cells
}
