package scheduling

import (
	"fmt"
	"sort"
	"time"

	"brightpath/models"
)

// Grid views accepted by BuildGrid.
const (
	ViewDay   = "day"
	ViewWeek  = "week"
	ViewMonth = "month"
)

// minBlockHeight keeps very short commitments visible: a block never renders
// below a quarter of one hour row.
const minBlockHeight = 0.25

// BuildGrid projects a location's availability and commitments into the bucket
// structure a calendar grid consumes. Pure and idempotent: re-derivable from
// the same three inputs at any time.
func BuildGrid(view, anchorKey string, loc *models.Location, commitments []models.Commitment) (interface{}, error) {
	switch view {
	case ViewDay, ViewWeek:
		return BuildTimeGrid(view, anchorKey, loc, commitments)
	case ViewMonth:
		return BuildMonthGrid(anchorKey, loc, commitments)
	default:
		return nil, fmt.Errorf("unknown calendar view %q", view)
	}
}

func blockFromCommitment(c models.Commitment) models.CalendarBlock {
	height := float64(c.DurationMinutes) / 60
	if height < minBlockHeight {
		height = minBlockHeight
	}
	return models.CalendarBlock{
		CommitmentID:     c.ID,
		Kind:             c.Kind,
		Date:             c.Date,
		Start:            c.Time,
		DurationMinutes:  c.DurationMinutes,
		Label:            FormatTimeRange(c.Time, c.DurationMinutes),
		StudentName:      c.StudentName,
		ServiceName:      c.ServiceName,
		RecurrenceRuleID: c.RecurrenceRuleID,
		Hour:             c.Time / 60,
		TopOffset:        float64(c.Time%60) / 60,
		Height:           height,
	}
}

// BuildTimeGrid produces the hour-indexed day or week projection. Week grids
// start on the Monday on/before the anchor date. Cells outside the open window
// or on an exception date are flagged blocked.
func BuildTimeGrid(view, anchorKey string, loc *models.Location, commitments []models.Commitment) (*models.CalendarGrid, error) {
	anchor, err := ParseDateKey(anchorKey)
	if err != nil {
		return nil, err
	}

	first := anchor
	days := 1
	if view == ViewWeek {
		first = mondayOnOrBefore(anchor)
		days = 7
	}

	byDate := make(map[string][]models.Commitment, len(commitments))
	for _, c := range commitments {
		byDate[c.Date] = append(byDate[c.Date], c)
	}

	grid := &models.CalendarGrid{
		View:       view,
		AnchorDate: anchorKey,
		Columns:    make([]models.CalendarColumn, 0, days),
	}
	for i := 0; i < days; i++ {
		d := first.AddDate(0, 0, i)
		key := DateKey(d)
		win, open := OpenWindow(loc, key)

		col := models.CalendarColumn{
			Date:    key,
			Weekday: d.Weekday(),
			Closed:  !open,
			Hours:   make([]models.HourCell, 0, 24),
		}
		for hour := 0; hour < 24; hour++ {
			blocked := !open || (hour+1)*60 <= win.Start || hour*60 >= win.End
			col.Hours = append(col.Hours, models.HourCell{Hour: hour, Blocked: blocked})
		}

		dayCommitments := byDate[key]
		sort.Slice(dayCommitments, func(a, b int) bool {
			return dayCommitments[a].Time < dayCommitments[b].Time
		})
		for _, c := range dayCommitments {
			col.Blocks = append(col.Blocks, blockFromCommitment(c))
		}

		grid.Columns = append(grid.Columns, col)
	}
	return grid, nil
}

// BuildMonthGrid produces the 6x7 date matrix for the anchor's month,
// annotated per cell with a commitment count and same-day kind indicators.
func BuildMonthGrid(anchorKey string, loc *models.Location, commitments []models.Commitment) (*models.MonthGrid, error) {
	anchor, err := ParseDateKey(anchorKey)
	if err != nil {
		return nil, err
	}
	_ = loc // month view carries no minute geometry; open windows are a grid concern

	firstOfMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	start := mondayOnOrBefore(firstOfMonth)

	counts := make(map[string]int, len(commitments))
	hasBooking := make(map[string]bool)
	hasSession := make(map[string]bool)
	for _, c := range commitments {
		counts[c.Date]++
		switch c.Kind {
		case models.KindBooking:
			hasBooking[c.Date] = true
		case models.KindSession:
			hasSession[c.Date] = true
		}
	}

	grid := &models.MonthGrid{
		View:       ViewMonth,
		AnchorDate: anchorKey,
		Weeks:      make([][]models.MonthCell, 0, 6),
	}
	d := start
	for week := 0; week < 6; week++ {
		row := make([]models.MonthCell, 0, 7)
		for day := 0; day < 7; day++ {
			key := DateKey(d)
			row = append(row, models.MonthCell{
				Date:            key,
				InMonth:         d.Month() == anchor.Month(),
				CommitmentCount: counts[key],
				HasBooking:      hasBooking[key],
				HasSession:      hasSession[key],
			})
			d = d.AddDate(0, 0, 1)
		}
		grid.Weeks = append(grid.Weeks, row)
	}
	return grid, nil
}

// GridRange returns the inclusive date-key span a view covers around its
// anchor, so callers can fetch exactly the commitments the grid will show.
func GridRange(view, anchorKey string) (string, string, error) {
	anchor, err := ParseDateKey(anchorKey)
	if err != nil {
		return "", "", err
	}
	switch view {
	case ViewDay:
		return anchorKey, anchorKey, nil
	case ViewWeek:
		first := mondayOnOrBefore(anchor)
		return DateKey(first), DateKey(first.AddDate(0, 0, 6)), nil
	case ViewMonth:
		firstOfMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		start := mondayOnOrBefore(firstOfMonth)
		return DateKey(start), DateKey(start.AddDate(0, 0, 41)), nil
	default:
		return "", "", fmt.Errorf("unknown calendar view %q", view)
	}
}

// mondayOnOrBefore snaps a date back to the start of its Monday-based week.
func mondayOnOrBefore(t time.Time) time.Time {
	return t.AddDate(0, 0, -int((t.Weekday()+6)%7))
}
