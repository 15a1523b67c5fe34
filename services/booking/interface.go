package booking

import (
	"context"

	"github.com/go-redis/redis/v8"

	commitmentRepo "brightpath/database/repository/commitment"
	locationRepo "brightpath/database/repository/location"
	"brightpath/models"
)

// SlotOption is one bookable start time offered to the visitor.
type SlotOption struct {
	Time  int    `json:"time"` // minutes from midnight
	Label string `json:"label"`
}

// WizardUpdate carries the fields a visitor may change mid-flow. Nil fields
// are left untouched.
type WizardUpdate struct {
	Date         *string `json:"date,omitempty"`
	Time         *int    `json:"time,omitempty"`
	StudentName  *string `json:"studentName,omitempty"`
	ContactEmail *string `json:"contactEmail,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
}

// BookingWizardService defines the interface for managing a stateful public
// booking session.
type BookingWizardService interface {
	StartSession(ctx context.Context, locationID string, durationMinutes int) (string, *models.WizardSession, error)
	GetOpenSlots(ctx context.Context, sessionID, dateKey string) ([]SlotOption, error)
	UpdateSession(ctx context.Context, sessionID string, upd WizardUpdate) (*models.WizardSession, error)
	ConfirmBooking(ctx context.Context, sessionID string) (*models.Commitment, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// DefaultBookingWizardService implements BookingWizardService.
type DefaultBookingWizardService struct {
	Locations   locationRepo.LocationRepository
	Commitments commitmentRepo.CommitmentRepository
	Sessions    *redis.Client
}
