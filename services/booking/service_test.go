package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightpath/models"
	"brightpath/services/scheduling"
)

type fakeLocationRepo struct {
	byID map[string]models.Location
}

func (f *fakeLocationRepo) Create(ctx context.Context, loc *models.Location) error {
	f.byID[loc.ID] = *loc
	return nil
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id string) (*models.Location, error) {
	loc, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (f *fakeLocationRepo) Update(ctx context.Context, loc *models.Location) error {
	f.byID[loc.ID] = *loc
	return nil
}

func (f *fakeLocationRepo) List(ctx context.Context) ([]models.Location, error) {
	out := make([]models.Location, 0, len(f.byID))
	for _, loc := range f.byID {
		out = append(out, loc)
	}
	return out, nil
}

func (f *fakeLocationRepo) UpdateWeekly(ctx context.Context, id string, weekly models.WeeklyAvailability, bufferMinutes int) error {
	loc := f.byID[id]
	loc.Weekly = weekly
	loc.BufferMinutes = bufferMinutes
	f.byID[id] = loc
	return nil
}

func (f *fakeLocationRepo) AddUnavailableDate(ctx context.Context, id string, date models.UnavailableDate) error {
	loc := f.byID[id]
	loc.UnavailableDates = append(loc.UnavailableDates, date)
	f.byID[id] = loc
	return nil
}

func (f *fakeLocationRepo) RemoveUnavailableDate(ctx context.Context, id, dateKey string) error {
	loc := f.byID[id]
	kept := loc.UnavailableDates[:0]
	for _, d := range loc.UnavailableDates {
		if d.Date != dateKey {
			kept = append(kept, d)
		}
	}
	loc.UnavailableDates = kept
	f.byID[id] = loc
	return nil
}

type fakeCommitmentStore struct {
	byID map[string]models.Commitment
}

func (f *fakeCommitmentStore) Create(ctx context.Context, c *models.Commitment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCommitmentStore) CreateMany(ctx context.Context, cs []models.Commitment) ([]string, error) {
	ids := make([]string, 0, len(cs))
	for i := range cs {
		if err := f.Create(ctx, &cs[i]); err != nil {
			return ids, err
		}
		ids = append(ids, cs[i].ID)
	}
	return ids, nil
}

func (f *fakeCommitmentStore) GetByID(ctx context.Context, id string) (*models.Commitment, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCommitmentStore) Update(ctx context.Context, c *models.Commitment) error {
	if _, ok := f.byID[c.ID]; !ok {
		return fmt.Errorf("commitment %s not found", c.ID)
	}
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCommitmentStore) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeCommitmentStore) ListByLocationAndDate(ctx context.Context, locationID, dateKey string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range f.byID {
		if c.LocationID == locationID && c.Date == dateKey {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommitmentStore) ListByLocationRange(ctx context.Context, locationID, fromKey, toKey string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range f.byID {
		if c.LocationID == locationID && c.Date >= fromKey && c.Date <= toKey {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommitmentStore) ListByRule(ctx context.Context, ruleID string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range f.byID {
		if c.RecurrenceRuleID == ruleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommitmentStore) ListByRuleFromDate(ctx context.Context, ruleID, fromKey string) ([]models.Commitment, error) {
	var out []models.Commitment
	for _, c := range f.byID {
		if c.RecurrenceRuleID == ruleID && c.Date >= fromKey {
			out = append(out, c)
		}
	}
	return out, nil
}

func newWizardFixture(t *testing.T) (*DefaultBookingWizardService, *fakeCommitmentStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	locations := &fakeLocationRepo{byID: map[string]models.Location{
		"loc-1": {
			ID:            "loc-1",
			Name:          "Riverside Centre",
			Timezone:      "America/New_York",
			Weekly:        scheduling.DefaultWeeklyAvailability(),
			BufferMinutes: 15,
		},
	}}
	commitments := &fakeCommitmentStore{byID: map[string]models.Commitment{}}

	svc := &DefaultBookingWizardService{
		Locations:   locations,
		Commitments: commitments,
		Sessions:    client,
	}
	return svc, commitments, mr
}

func TestStartSession_StoresStateUnderFreshID(t *testing.T) {
	svc, _, _ := newWizardFixture(t)
	ctx := context.Background()

	sessionID, session, err := svc.StartSession(ctx, "loc-1", 60)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.Equal(t, "loc-1", session.LocationID)
	assert.Equal(t, 60, session.DurationMinutes)

	loaded, err := svc.loadSession(sessionID)
	require.NoError(t, err)
	assert.Equal(t, *session, *loaded)
}

func TestStartSession_UnknownLocation(t *testing.T) {
	svc, _, _ := newWizardFixture(t)

	_, _, err := svc.StartSession(context.Background(), "nope", 60)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestGetOpenSlots_ExcludesBookedStarts(t *testing.T) {
	svc, commitments, _ := newWizardFixture(t)
	ctx := context.Background()

	// 2026-03-02 is a Monday: open 9:00-17:00, 60+15 grid.
	require.NoError(t, commitments.Create(ctx, &models.Commitment{
		LocationID:      "loc-1",
		Date:            "2026-03-02",
		Time:            540,
		DurationMinutes: 60,
		Kind:            models.KindBooking,
	}))

	sessionID, _, err := svc.StartSession(ctx, "loc-1", 60)
	require.NoError(t, err)

	options, err := svc.GetOpenSlots(ctx, sessionID, "2026-03-02")
	require.NoError(t, err)
	require.NotEmpty(t, options)

	for _, opt := range options {
		assert.NotEqual(t, 540, opt.Time)
	}
	assert.Equal(t, 615, options[0].Time)
	assert.Equal(t, "10:15 AM", options[0].Label)
}

func TestUpdateSession_NewDateClearsPickedTime(t *testing.T) {
	svc, _, _ := newWizardFixture(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx, "loc-1", 60)
	require.NoError(t, err)

	date := "2026-03-02"
	slot := 540
	session, err := svc.UpdateSession(ctx, sessionID, WizardUpdate{Date: &date, Time: &slot})
	require.NoError(t, err)
	require.True(t, session.HasSelection())

	nextDay := "2026-03-03"
	session, err = svc.UpdateSession(ctx, sessionID, WizardUpdate{Date: &nextDay})
	require.NoError(t, err)
	assert.Equal(t, nextDay, session.Date)
	assert.Nil(t, session.Time)
}

func TestConfirmBooking_PersistsAndDropsSession(t *testing.T) {
	svc, commitments, _ := newWizardFixture(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx, "loc-1", 60)
	require.NoError(t, err)

	date := "2026-03-02"
	slot := 540
	name := "Ada Byron"
	email := "ada@example.com"
	_, err = svc.UpdateSession(ctx, sessionID, WizardUpdate{
		Date: &date, Time: &slot, StudentName: &name, ContactEmail: &email,
	})
	require.NoError(t, err)

	commitment, err := svc.ConfirmBooking(ctx, sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, commitment.ID)
	assert.Equal(t, models.KindBooking, commitment.Kind)
	assert.Equal(t, 540, commitment.Time)
	assert.Equal(t, "Ada Byron", commitment.StudentName)
	assert.Contains(t, commitment.Notes, "ada@example.com")

	stored, err := commitments.GetByID(ctx, commitment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	_, err = svc.loadSession(sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConfirmBooking_SlotTakenMidFlow(t *testing.T) {
	svc, commitments, _ := newWizardFixture(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx, "loc-1", 60)
	require.NoError(t, err)

	date := "2026-03-02"
	slot := 540
	name := "Ada Byron"
	_, err = svc.UpdateSession(ctx, sessionID, WizardUpdate{Date: &date, Time: &slot, StudentName: &name})
	require.NoError(t, err)

	// Someone else books the same start before confirmation.
	require.NoError(t, commitments.Create(ctx, &models.Commitment{
		LocationID:      "loc-1",
		Date:            date,
		Time:            slot,
		DurationMinutes: 60,
		Kind:            models.KindBooking,
	}))

	_, err = svc.ConfirmBooking(ctx, sessionID)
	assert.ErrorIs(t, err, scheduling.ErrSlotTaken)

	// The session survives so the visitor can pick another slot.
	session, err := svc.loadSession(sessionID)
	require.NoError(t, err)
	assert.Equal(t, date, session.Date)
}

func TestConfirmBooking_IncompleteSession(t *testing.T) {
	svc, _, _ := newWizardFixture(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx, "loc-1", 60)
	require.NoError(t, err)

	_, err = svc.ConfirmBooking(ctx, sessionID)
	assert.ErrorIs(t, err, ErrIncompleteSession)
}

func TestSessionExpiry(t *testing.T) {
	svc, _, mr := newWizardFixture(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx, "loc-1", 60)
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	_, err = svc.GetOpenSlots(ctx, sessionID, "2026-03-02")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
