package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	commitmentRepoPkg "brightpath/database/repository/commitment"
	locationRepoPkg "brightpath/database/repository/location"
	"brightpath/models"
	"brightpath/services/scheduling"
)

// SessionHandler serves the admin scheduling endpoints: one-off sessions and
// weekly-repeating series.
type SessionHandler struct {
	Locations   locationRepoPkg.LocationRepository
	Commitments commitmentRepoPkg.CommitmentRepository
	Engine      scheduling.RecurrenceEngine
	Logger      *zap.Logger
}

func NewSessionHandler(
	locations locationRepoPkg.LocationRepository,
	commitments commitmentRepoPkg.CommitmentRepository,
	engine scheduling.RecurrenceEngine,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		Locations:   locations,
		Commitments: commitments,
		Engine:      engine,
		Logger:      logger,
	}
}

// todayFor resolves "today" in the location's timezone. The scheduling
// engine never reads a clock itself.
func (h *SessionHandler) todayFor(c *gin.Context, locationID string) (string, bool) {
	loc, err := h.Locations.GetByID(c.Request.Context(), locationID)
	if err != nil {
		h.Logger.Error("failed to fetch location", zap.String("id", locationID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch location"})
		return "", false
	}
	if loc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return "", false
	}
	today, err := scheduling.TodayKey(loc.Timezone, time.Now())
	if err != nil {
		h.Logger.Error("invalid location timezone", zap.String("id", locationID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid location timezone"})
		return "", false
	}
	return today, true
}

// CreateSessionHandler books a one-off admin session after checking the day
// is open, the session fits the open window, and nothing else starts at the
// same minute.
func (h *SessionHandler) CreateSessionHandler(c *gin.Context) {
	var input struct {
		LocationID      string `json:"locationId" binding:"required"`
		Date            string `json:"date" binding:"required"`
		Time            int    `json:"time"`
		DurationMinutes int    `json:"durationMinutes" binding:"required"`
		StudentName     string `json:"studentName"`
		ServiceName     string `json:"serviceName"`
		Notes           string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if _, err := scheduling.ParseDateKey(input.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
		return
	}

	loc, err := h.Locations.GetByID(c.Request.Context(), input.LocationID)
	if err != nil {
		h.Logger.Error("failed to fetch location", zap.String("id", input.LocationID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch location"})
		return
	}
	if loc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	win, open := scheduling.OpenWindow(loc, input.Date)
	if !open {
		c.JSON(http.StatusConflict, gin.H{"error": "location is closed on " + input.Date})
		return
	}
	if input.Time < win.Start || input.Time+input.DurationMinutes > win.End {
		c.JSON(http.StatusConflict, gin.H{"error": "session does not fit the open hours"})
		return
	}

	existing, err := h.Commitments.ListByLocationAndDate(c.Request.Context(), loc.ID, input.Date)
	if err != nil {
		h.Logger.Error("failed to list commitments", zap.String("locationID", loc.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check existing commitments"})
		return
	}
	for _, other := range existing {
		if other.Time == input.Time {
			c.JSON(http.StatusConflict, gin.H{"error": "another commitment already starts at that time"})
			return
		}
	}

	commitment := models.Commitment{
		LocationID:      loc.ID,
		Date:            input.Date,
		Time:            input.Time,
		DurationMinutes: input.DurationMinutes,
		Kind:            models.KindSession,
		StudentName:     input.StudentName,
		ServiceName:     input.ServiceName,
		Notes:           input.Notes,
	}
	if err := h.Commitments.Create(c.Request.Context(), &commitment); err != nil {
		h.Logger.Error("failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusCreated, commitment)
}

// GetSessionHandler returns one commitment by ID.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	id := c.Param("id")
	commitment, err := h.Commitments.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Logger.Error("failed to fetch commitment", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch session"})
		return
	}
	if commitment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, commitment)
}

// CreateRecurringHandler opens a weekly series and materializes its first
// three months of occurrences.
func (h *SessionHandler) CreateRecurringHandler(c *gin.Context) {
	var input scheduling.CreateRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	today, ok := h.todayFor(c, input.LocationID)
	if !ok {
		return
	}

	rule, occurrences, err := h.Engine.Create(c.Request.Context(), input, today)
	if err != nil {
		h.Logger.Error("failed to create recurring session", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create recurring session", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"rule":        rule,
		"occurrences": occurrences,
	})
}

// MaterializeRuleHandler re-runs occurrence generation for one rule, topping
// the rolling window up from today.
func (h *SessionHandler) MaterializeRuleHandler(c *gin.Context) {
	ruleID := c.Param("id")
	var input struct {
		LocationID string `json:"locationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	today, ok := h.todayFor(c, input.LocationID)
	if !ok {
		return
	}

	created, err := h.Engine.Materialize(c.Request.Context(), ruleID, today)
	if err != nil {
		h.respondEngineError(c, err, "failed to materialize rule")
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// EditOccurrenceHandler edits a single commitment, detaching its fields from
// the series without touching siblings.
func (h *SessionHandler) EditOccurrenceHandler(c *gin.Context) {
	id := c.Param("id")
	var patch scheduling.OccurrencePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	commitment, err := h.Engine.EditThisOccurrence(c.Request.Context(), id, patch)
	if err != nil {
		h.respondEngineError(c, err, "failed to edit session")
		return
	}
	c.JSON(http.StatusOK, commitment)
}

// EditSeriesHandler applies a patch to a rule and all its occurrences from
// today forward. History stays as it was.
func (h *SessionHandler) EditSeriesHandler(c *gin.Context) {
	ruleID := c.Param("id")
	var input struct {
		LocationID string                     `json:"locationId" binding:"required"`
		Patch      scheduling.OccurrencePatch `json:"patch"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	today, ok := h.todayFor(c, input.LocationID)
	if !ok {
		return
	}

	updated, err := h.Engine.EditAllFuture(c.Request.Context(), ruleID, input.Patch, today)
	if err != nil {
		h.respondEngineError(c, err, "failed to edit series")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteOccurrenceHandler removes one commitment.
func (h *SessionHandler) DeleteOccurrenceHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Engine.DeleteThisOccurrence(c.Request.Context(), id); err != nil {
		h.respondEngineError(c, err, "failed to delete session")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSeriesHandler cancels a rule and removes its occurrences from today
// forward.
func (h *SessionHandler) DeleteSeriesHandler(c *gin.Context) {
	ruleID := c.Param("id")
	var input struct {
		LocationID string `json:"locationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	today, ok := h.todayFor(c, input.LocationID)
	if !ok {
		return
	}

	deleted, err := h.Engine.DeleteAllFuture(c.Request.Context(), ruleID, today)
	if err != nil {
		h.respondEngineError(c, err, "failed to delete series")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// respondEngineError maps scheduling engine errors onto HTTP statuses. A
// partial batch reports the records left behind so the caller can retry.
func (h *SessionHandler) respondEngineError(c *gin.Context, err error, msg string) {
	var batchErr *scheduling.PartialBatchError
	switch {
	case errors.Is(err, scheduling.ErrRuleNotFound),
		errors.Is(err, scheduling.ErrCommitmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, scheduling.ErrRuleCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &batchErr):
		h.Logger.Error(msg, zap.Strings("failedIDs", batchErr.FailedIDs), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     msg + ": some records could not be updated",
			"failedIds": batchErr.FailedIDs,
		})
	default:
		h.Logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": err.Error()})
	}
}
