package models

// WizardSession is the public booking wizard's in-flight state, cached in
// Redis under a session ID until the visitor confirms or the TTL expires.
type WizardSession struct {
	LocationID      string `json:"locationId"`
	DurationMinutes int    `json:"durationMinutes"`
	Date            string `json:"date,omitempty"` // "YYYY-MM-DD", set once a day is picked
	Time            *int   `json:"time,omitempty"` // minutes from midnight, set once a slot is picked
	StudentName     string `json:"studentName,omitempty"`
	ContactEmail    string `json:"contactEmail,omitempty"`
	ContactPhone    string `json:"contactPhone,omitempty"`
}

// HasSelection reports whether the visitor has picked a concrete slot.
func (s *WizardSession) HasSelection() bool {
	return s.Date != "" && s.Time != nil
}
