package scheduling

import "brightpath/models"

// GenerateSlots enumerates discrete bookable start times within an open
// window. Starts ascend from win.Start in steps of duration+buffer; a slot is
// emitted only when it fits entirely inside the window. Empty when the window
// cannot fit one slot.
func GenerateSlots(win Window, durationMinutes, bufferMinutes int) []int {
	if durationMinutes <= 0 || bufferMinutes < 0 {
		return nil
	}
	var slots []int
	for start := win.Start; start+durationMinutes <= win.End; start += durationMinutes + bufferMinutes {
		slots = append(slots, start)
	}
	return slots
}

// AvailableSlots returns the offerable start times for one service duration on
// one date: the generated grid minus exact-start-time collisions with existing
// commitments on that date. Deterministic given the same inputs; no hidden
// clock.
//
// A slot is excluded only when its exact start time collides. Commitments of
// differing durations starting at different grid points are not merged; the
// fixed-grid model treats overlap policy as an extension point.
func AvailableSlots(
	loc *models.Location,
	dateKey string,
	durationMinutes, bufferMinutes int,
	existing []models.Commitment,
) []int {
	win, open := OpenWindow(loc, dateKey)
	if !open {
		return nil
	}

	taken := make(map[int]bool, len(existing))
	for _, c := range existing {
		if c.Date == dateKey {
			taken[c.Time] = true
		}
	}

	var available []int
	for _, start := range GenerateSlots(win, durationMinutes, bufferMinutes) {
		if !taken[start] {
			available = append(available, start)
		}
	}
	return available
}
