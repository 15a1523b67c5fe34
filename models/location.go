package models

import "time"

// Location represents a franchise operating site; the tenant boundary for all
// scheduling data.
type Location struct {
	ID               string             `bson:"id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Timezone         string             `bson:"timezone" json:"timezone"` // IANA identifier, e.g. "America/Chicago"
	Weekly           WeeklyAvailability `bson:"weekly,omitempty" json:"weekly"`
	BufferMinutes    int                `bson:"bufferMinutes" json:"bufferMinutes"` // idle gap enforced after each generated slot
	UnavailableDates []UnavailableDate  `bson:"unavailableDates,omitempty" json:"unavailableDates,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsUnavailableOn reports whether dateKey appears in the location's exception list.
func (l *Location) IsUnavailableOn(dateKey string) bool {
	for _, ud := range l.UnavailableDates {
		if ud.Date == dateKey {
			return true
		}
	}
	return false
}
