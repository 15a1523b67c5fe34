package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"brightpath/models"
	"brightpath/services/scheduling"
)

type stubLocationRepo struct {
	byID map[string]models.Location
}

func (s *stubLocationRepo) Create(ctx context.Context, loc *models.Location) error {
	s.byID[loc.ID] = *loc
	return nil
}

func (s *stubLocationRepo) GetByID(ctx context.Context, id string) (*models.Location, error) {
	loc, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (s *stubLocationRepo) Update(ctx context.Context, loc *models.Location) error {
	s.byID[loc.ID] = *loc
	return nil
}

func (s *stubLocationRepo) List(ctx context.Context) ([]models.Location, error) {
	out := make([]models.Location, 0, len(s.byID))
	for _, loc := range s.byID {
		out = append(out, loc)
	}
	return out, nil
}

func (s *stubLocationRepo) UpdateWeekly(ctx context.Context, id string, weekly models.WeeklyAvailability, bufferMinutes int) error {
	loc := s.byID[id]
	loc.Weekly = weekly
	loc.BufferMinutes = bufferMinutes
	s.byID[id] = loc
	return nil
}

func (s *stubLocationRepo) AddUnavailableDate(ctx context.Context, id string, date models.UnavailableDate) error {
	loc := s.byID[id]
	loc.UnavailableDates = append(loc.UnavailableDates, date)
	s.byID[id] = loc
	return nil
}

func (s *stubLocationRepo) RemoveUnavailableDate(ctx context.Context, id, dateKey string) error {
	loc := s.byID[id]
	kept := loc.UnavailableDates[:0]
	for _, d := range loc.UnavailableDates {
		if d.Date != dateKey {
			kept = append(kept, d)
		}
	}
	loc.UnavailableDates = kept
	s.byID[id] = loc
	return nil
}

type stubCommitmentRepo struct {
	byID map[string]models.Commitment
}

func (s *stubCommitmentRepo) Create(ctx context.Context, c *models.Commitment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.byID[c.ID] = *c
	return nil
}

func (s *stubCommitmentRepo) CreateMany(ctx context.Context, cs []models.Commitment) ([]string, error) {
	ids := make([]string, 0, len(cs))
	for i := range cs {
		if err := s.Create(ctx, &cs[i]); err != nil {
			return ids, err
		}
		ids = append(ids, cs[i].ID)
	}
	return ids, nil
}

func (s *stubCommitmentRepo) GetByID(ctx context.Context, id string) (*models.Commitment, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *stubCommitmentRepo) Update(ctx context.Context, c *models.Commitment) error {
	s.byID[c.ID] = *c
	return nil
}

func (s *stubCommitmentRepo) Delete(ctx context.Context, id string) error {
	delete(s.byID, id)
	return nil
}

func (s *stubCommitmentRepo) ListByLocationAndDate(ctx context.Context, locationID, dateKey string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range s.byID {
		if c.LocationID == locationID && c.Date == dateKey {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCommitmentRepo) ListByLocationRange(ctx context.Context, locationID, fromKey, toKey string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range s.byID {
		if c.LocationID == locationID && c.Date >= fromKey && c.Date <= toKey {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCommitmentRepo) ListByRule(ctx context.Context, ruleID string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range s.byID {
		if c.RecurrenceRuleID == ruleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCommitmentRepo) ListByRuleFromDate(ctx context.Context, ruleID, fromKey string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range s.byID {
		if c.RecurrenceRuleID == ruleID && c.Date >= fromKey {
			out = append(out, c)
		}
	}
	return out, nil
}

func newCalendarRouter(locations *stubLocationRepo, commitments *stubCommitmentRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCalendarHandler(locations, commitments, zap.NewNop())
	r.GET("/api/locations/:id/calendar", h.GetCalendarHandler)
	return r
}

func TestGetCalendar_DefaultsAnchorToToday(t *testing.T) {
	loc := models.Location{
		ID:       "loc-1",
		Name:     "Downtown",
		Timezone: "UTC",
		Weekly:   scheduling.DefaultWeeklyAvailability(),
	}
	locations := &stubLocationRepo{byID: map[string]models.Location{loc.ID: loc}}
	commitments := &stubCommitmentRepo{byID: make(map[string]models.Commitment)}

	today, err := scheduling.TodayKey(loc.Timezone, time.Now())
	require.NoError(t, err)
	require.NoError(t, commitments.Create(context.Background(), &models.Commitment{
		LocationID:      loc.ID,
		Date:            today,
		Time:            600,
		DurationMinutes: 40,
		Kind:            models.KindBooking,
	}))

	router := newCalendarRouter(locations, commitments)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/locations/loc-1/calendar", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var grid models.CalendarGrid
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))
	assert.Equal(t, scheduling.ViewWeek, grid.View)
	assert.Equal(t, today, grid.AnchorDate)
	require.Len(t, grid.Columns, 7)

	blocks := 0
	for _, col := range grid.Columns {
		blocks += len(col.Blocks)
	}
	assert.Equal(t, 1, blocks, "today's booking must land in the fetched range")
}

func TestGetCalendar_UnknownLocation(t *testing.T) {
	locations := &stubLocationRepo{byID: make(map[string]models.Location)}
	commitments := &stubCommitmentRepo{byID: make(map[string]models.Commitment)}

	router := newCalendarRouter(locations, commitments)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/locations/nope/calendar?anchor=2026-03-04", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCalendar_RejectsMalformedAnchor(t *testing.T) {
	loc := models.Location{ID: "loc-1", Timezone: "UTC", Weekly: scheduling.DefaultWeeklyAvailability()}
	locations := &stubLocationRepo{byID: map[string]models.Location{loc.ID: loc}}
	commitments := &stubCommitmentRepo{byID: make(map[string]models.Commitment)}

	router := newCalendarRouter(locations, commitments)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/locations/loc-1/calendar?anchor=soon", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
