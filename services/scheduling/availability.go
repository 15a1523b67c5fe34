package scheduling

import (
	"time"

	"brightpath/models"
)

// Window is an open minute range [Start, End) within one calendar day.
type Window struct {
	Start int `json:"start"` // minutes from midnight
	End   int `json:"end"`
}

// DefaultWeeklyAvailability is the template assigned to a location at first
// access: weekdays 9:00 AM - 5:00 PM, weekends closed.
func DefaultWeeklyAvailability() models.WeeklyAvailability {
	weekly := make(models.WeeklyAvailability, 0, 7)
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	for _, wd := range order {
		enabled := wd != time.Saturday && wd != time.Sunday
		weekly = append(weekly, models.DayTemplate{
			DayOfWeek: wd,
			Enabled:   enabled,
			OpenTime:  9 * 60,
			CloseTime: 17 * 60,
		})
	}
	return weekly
}

// ValidateWeekly rejects a malformed template at write time. Disabled days are
// not constrained; an enabled day must have openTime < closeTime within one day.
func ValidateWeekly(weekly models.WeeklyAvailability) error {
	for _, day := range weekly {
		if !day.Enabled {
			continue
		}
		if day.OpenTime < 0 || day.CloseTime > 24*60 {
			return NewTemplateError("%s: times must fall within one day", day.DayOfWeek)
		}
		if day.OpenTime >= day.CloseTime {
			return NewTemplateError("%s: open time %s must be before close time %s",
				day.DayOfWeek, FormatTime(day.OpenTime), FormatTime(day.CloseTime))
		}
	}
	return nil
}

// dayTemplateFor maps a weekday to its template entry, if present.
func dayTemplateFor(weekly models.WeeklyAvailability, wd time.Weekday) (models.DayTemplate, bool) {
	for _, day := range weekly {
		if day.DayOfWeek == wd {
			return day, true
		}
	}
	return models.DayTemplate{}, false
}

// OpenWindow answers whether the location is open on the given calendar date
// and, if so, during which minute range. A missing or disabled template entry
// means closed (fail safe, never fail open); an exception date always wins
// over an enabled template, never the reverse.
func OpenWindow(loc *models.Location, dateKey string) (Window, bool) {
	if loc == nil {
		return Window{}, false
	}
	date, err := ParseDateKey(dateKey)
	if err != nil {
		return Window{}, false
	}
	day, found := dayTemplateFor(loc.Weekly, date.Weekday())
	if !found || !day.Enabled {
		return Window{}, false
	}
	if loc.IsUnavailableOn(dateKey) {
		return Window{}, false
	}
	return Window{Start: day.OpenTime, End: day.CloseTime}, true
}

// IsOpen reports whether the location accepts commitments on the given date.
func IsOpen(loc *models.Location, dateKey string) bool {
	_, open := OpenWindow(loc, dateKey)
	return open
}
