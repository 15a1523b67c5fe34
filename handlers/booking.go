package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brightpath/services/booking"
	"brightpath/services/scheduling"
)

// BookingHandler serves the public booking wizard endpoints.
type BookingHandler struct {
	Wizard booking.BookingWizardService
	Logger *zap.Logger
}

func NewBookingHandler(wizard booking.BookingWizardService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Wizard: wizard, Logger: logger}
}

// StartSession opens a wizard session for a location and lesson length.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input struct {
		LocationID      string `json:"locationId" binding:"required"`
		DurationMinutes int    `json:"durationMinutes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sessionID, session, err := h.Wizard.StartSession(c.Request.Context(), input.LocationID, input.DurationMinutes)
	if err != nil {
		if errors.Is(err, booking.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		h.Logger.Error("failed to start booking session", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to start booking session", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionID": sessionID,
		"session":   session,
	})
}

// GetOpenSlots lists bookable start times on a given day.
func (h *BookingHandler) GetOpenSlots(c *gin.Context) {
	sessionID := c.Param("sessionID")
	dateKey := c.Query("date")

	options, err := h.Wizard.GetOpenSlots(c.Request.Context(), sessionID, dateKey)
	if err != nil {
		h.respondWizardError(c, err, "failed to list open slots")
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": options})
}

// UpdateSession merges the visitor's picks into the session.
func (h *BookingHandler) UpdateSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var upd booking.WizardUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Wizard.UpdateSession(c.Request.Context(), sessionID, upd)
	if err != nil {
		h.respondWizardError(c, err, "failed to update booking session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// ConfirmBooking finalizes the wizard into a persisted booking.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	sessionID := c.Param("sessionID")

	commitment, err := h.Wizard.ConfirmBooking(c.Request.Context(), sessionID)
	if err != nil {
		h.respondWizardError(c, err, "failed to confirm booking")
		return
	}
	c.JSON(http.StatusCreated, commitment)
}

// CancelSession abandons the wizard.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Wizard.CancelSession(c.Request.Context(), sessionID); err != nil {
		h.Logger.Error("failed to cancel booking session", zap.String("sessionID", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel booking session"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) respondWizardError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, booking.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking session not found or expired"})
	case errors.Is(err, booking.ErrLocationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
	case errors.Is(err, booking.ErrIncompleteSession):
		c.JSON(http.StatusBadRequest, gin.H{"error": "pick a date, time and student name before confirming"})
	case errors.Is(err, scheduling.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "that slot was just taken, please pick another"})
	default:
		h.Logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": err.Error()})
	}
}
