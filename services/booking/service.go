package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"brightpath/models"
	"brightpath/services/scheduling"
	"brightpath/utils"
)

// StartSession opens a new wizard session for the given location and lesson
// length, and returns its ID alongside the initial state.
func (svc *DefaultBookingWizardService) StartSession(ctx context.Context, locationID string, durationMinutes int) (string, *models.WizardSession, error) {
	if durationMinutes <= 0 {
		return "", nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	loc, err := svc.Locations.GetByID(ctx, locationID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch location %s: %w", locationID, err)
	}
	if loc == nil {
		return "", nil, ErrLocationNotFound
	}

	sessionID := uuid.New().String()
	session := models.WizardSession{
		LocationID:      loc.ID,
		DurationMinutes: durationMinutes,
	}
	if err := utils.SaveBookingSession(svc.Sessions, sessionID, session); err != nil {
		return "", nil, err
	}

	utils.GetLogger().Info("booking session started",
		zap.String("sessionID", sessionID),
		zap.String("locationID", loc.ID))
	return sessionID, &session, nil
}

// GetOpenSlots lists the start times still bookable on the chosen day for the
// session's location and duration.
func (svc *DefaultBookingWizardService) GetOpenSlots(ctx context.Context, sessionID, dateKey string) ([]SlotOption, error) {
	session, err := svc.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := scheduling.ParseDateKey(dateKey); err != nil {
		return nil, err
	}

	loc, err := svc.Locations.GetByID(ctx, session.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location %s: %w", session.LocationID, err)
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}

	existing, err := svc.Commitments.ListByLocationAndDate(ctx, loc.ID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list commitments for %s on %s: %w", loc.ID, dateKey, err)
	}

	starts := scheduling.AvailableSlots(loc, dateKey, session.DurationMinutes, loc.BufferMinutes, existing)
	options := make([]SlotOption, 0, len(starts))
	for _, start := range starts {
		options = append(options, SlotOption{
			Time:  start,
			Label: scheduling.FormatTime(start),
		})
	}
	return options, nil
}

// UpdateSession merges the visitor's picks into the cached session state.
func (svc *DefaultBookingWizardService) UpdateSession(ctx context.Context, sessionID string, upd WizardUpdate) (*models.WizardSession, error) {
	session, err := svc.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	if upd.Date != nil {
		if _, err := scheduling.ParseDateKey(*upd.Date); err != nil {
			return nil, err
		}
		session.Date = *upd.Date
		// A new day invalidates any previously picked time.
		if upd.Time == nil {
			session.Time = nil
		}
	}
	if upd.Time != nil {
		session.Time = upd.Time
	}
	if upd.StudentName != nil {
		session.StudentName = *upd.StudentName
	}
	if upd.ContactEmail != nil {
		session.ContactEmail = *upd.ContactEmail
	}
	if upd.ContactPhone != nil {
		session.ContactPhone = *upd.ContactPhone
	}

	if err := utils.SaveBookingSession(svc.Sessions, sessionID, *session); err != nil {
		return nil, err
	}
	return session, nil
}

// ConfirmBooking re-validates the picked slot against current availability and
// commitments, persists the booking, and discards the session.
func (svc *DefaultBookingWizardService) ConfirmBooking(ctx context.Context, sessionID string) (*models.Commitment, error) {
	session, err := svc.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasSelection() || session.StudentName == "" {
		return nil, ErrIncompleteSession
	}

	loc, err := svc.Locations.GetByID(ctx, session.LocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location %s: %w", session.LocationID, err)
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}

	existing, err := svc.Commitments.ListByLocationAndDate(ctx, loc.ID, session.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to list commitments for %s on %s: %w", loc.ID, session.Date, err)
	}
	if !slotStillOpen(loc, session, existing) {
		return nil, scheduling.ErrSlotTaken
	}

	commitment := models.Commitment{
		LocationID:      loc.ID,
		Date:            session.Date,
		Time:            *session.Time,
		DurationMinutes: session.DurationMinutes,
		Kind:            models.KindBooking,
		StudentName:     session.StudentName,
		Notes:           contactNote(session),
	}
	if err := svc.Commitments.Create(ctx, &commitment); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	if err := utils.DeleteBookingSession(svc.Sessions, sessionID); err != nil {
		utils.GetLogger().Warn("failed to delete booking session after confirm",
			zap.String("sessionID", sessionID), zap.Error(err))
	}

	utils.GetLogger().Info("booking confirmed",
		zap.String("commitmentID", commitment.ID),
		zap.String("locationID", loc.ID),
		zap.String("date", commitment.Date))
	return &commitment, nil
}

// CancelSession discards the wizard session. Unknown IDs are treated as
// already gone.
func (svc *DefaultBookingWizardService) CancelSession(ctx context.Context, sessionID string) error {
	return utils.DeleteBookingSession(svc.Sessions, sessionID)
}

func (svc *DefaultBookingWizardService) loadSession(sessionID string) (*models.WizardSession, error) {
	session, err := utils.GetBookingSession(svc.Sessions, sessionID)
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	return session, nil
}

// slotStillOpen re-runs the slot computation at confirm time; the picked
// start must still be offered, otherwise someone else got there first.
func slotStillOpen(loc *models.Location, session *models.WizardSession, existing []models.Commitment) bool {
	starts := scheduling.AvailableSlots(loc, session.Date, session.DurationMinutes, loc.BufferMinutes, existing)
	for _, start := range starts {
		if start == *session.Time {
			return true
		}
	}
	return false
}

func contactNote(session *models.WizardSession) string {
	switch {
	case session.ContactEmail != "" && session.ContactPhone != "":
		return fmt.Sprintf("Contact: %s / %s", session.ContactEmail, session.ContactPhone)
	case session.ContactEmail != "":
		return "Contact: " + session.ContactEmail
	case session.ContactPhone != "":
		return "Contact: " + session.ContactPhone
	default:
		return ""
	}
}
