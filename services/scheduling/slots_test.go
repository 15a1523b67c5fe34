package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightpath/models"
)

func TestGenerateSlots_ScenarioA(t *testing.T) {
	// 9:00 AM - 5:00 PM, 40-minute assessments, 15-minute buffer.
	slots := GenerateSlots(Window{Start: 540, End: 1020}, 40, 15)
	require.NotEmpty(t, slots)

	assert.Equal(t, 540, slots[0]) // 9:00 AM
	assert.Equal(t, 595, slots[1]) // 9:55 AM
	assert.Equal(t, 650, slots[2]) // 10:50 AM

	for i, start := range slots {
		assert.LessOrEqual(t, start+40, 1020, "slot %d overruns the window", i)
		if i > 0 {
			assert.Equal(t, 55, start-slots[i-1], "gap must be duration+buffer")
		}
	}
}

func TestGenerateSlots_Boundaries(t *testing.T) {
	// Exact fit: one slot fills the window.
	assert.Equal(t, []int{540}, GenerateSlots(Window{Start: 540, End: 580}, 40, 15))

	// Window too small for one slot.
	assert.Empty(t, GenerateSlots(Window{Start: 540, End: 579}, 40, 15))
	assert.Empty(t, GenerateSlots(Window{Start: 540, End: 540}, 40, 15))

	// Zero buffer packs slots back to back.
	slots := GenerateSlots(Window{Start: 540, End: 660}, 60, 0)
	assert.Equal(t, []int{540, 600}, slots)

	// Bad inputs are rejected, not guessed at.
	assert.Nil(t, GenerateSlots(Window{Start: 540, End: 1020}, 0, 15))
	assert.Nil(t, GenerateSlots(Window{Start: 540, End: 1020}, 40, -1))
}

func TestAvailableSlots_ExcludesTakenStarts(t *testing.T) {
	loc := weekdayLocation()
	existing := []models.Commitment{
		{LocationID: loc.ID, Date: "2026-03-02", Time: 595, DurationMinutes: 40, Kind: models.KindBooking},
		// Same start on a different date must not mask the slot.
		{LocationID: loc.ID, Date: "2026-03-03", Time: 540, DurationMinutes: 40, Kind: models.KindSession},
	}

	slots := AvailableSlots(loc, "2026-03-02", 40, 15, existing)
	require.NotEmpty(t, slots)
	assert.Contains(t, slots, 540)
	assert.NotContains(t, slots, 595)
	assert.Contains(t, slots, 650)

	for _, c := range existing {
		if c.Date == "2026-03-02" {
			assert.NotContains(t, slots, c.Time)
		}
	}
}

func TestAvailableSlots_ClosedDateYieldsNothing(t *testing.T) {
	loc := weekdayLocation()
	loc.UnavailableDates = []models.UnavailableDate{{Date: "2026-03-02"}}

	assert.Empty(t, AvailableSlots(loc, "2026-03-02", 40, 15, nil))
	assert.Empty(t, AvailableSlots(loc, "2026-03-07", 40, 15, nil)) // Saturday
}

func TestAvailableSlots_Deterministic(t *testing.T) {
	loc := weekdayLocation()
	existing := []models.Commitment{
		{LocationID: loc.ID, Date: "2026-03-02", Time: 540, DurationMinutes: 40},
	}
	first := AvailableSlots(loc, "2026-03-02", 40, 15, existing)
	second := AvailableSlots(loc, "2026-03-02", 40, 15, existing)
	assert.Equal(t, first, second)
}
