package models

import "time"

// DayTemplate describes one weekday's opening hours in a location's weekly template.
type DayTemplate struct {
	DayOfWeek time.Weekday `bson:"dayOfWeek" json:"dayOfWeek"`
	Enabled   bool         `bson:"enabled" json:"enabled"`
	OpenTime  int          `bson:"openTime" json:"openTime"`   // minutes from midnight (e.g., 540 for 9:00 AM)
	CloseTime int          `bson:"closeTime" json:"closeTime"` // minutes from midnight (e.g., 1020 for 5:00 PM)
}

// WeeklyAvailability is a location's weekly template, ordered Monday through Sunday.
type WeeklyAvailability []DayTemplate

// UnavailableDate marks a calendar date on which the location is fully closed,
// overriding the weekly template. Unique by date within a location.
type UnavailableDate struct {
	Date   string `bson:"date" json:"date"` // e.g., "2025-12-24"
	Reason string `bson:"reason,omitempty" json:"reason,omitempty"`
}
