package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	locationRepoPkg "brightpath/database/repository/location"
	"brightpath/models"
	"brightpath/services/scheduling"
)

// AvailabilityHandler serves the weekly template and exception date
// endpoints for a location.
type AvailabilityHandler struct {
	Repo   locationRepoPkg.LocationRepository
	Logger *zap.Logger
}

func NewAvailabilityHandler(repo locationRepoPkg.LocationRepository, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Repo: repo, Logger: logger}
}

// GetWeeklyHandler returns the location's weekly template and buffer. A
// location that never configured hours gets the standard weekday template,
// persisted on first access.
func (h *AvailabilityHandler) GetWeeklyHandler(c *gin.Context) {
	id := c.Param("id")
	loc, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Logger.Error("failed to fetch location", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch location"})
		return
	}
	if loc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	if len(loc.Weekly) == 0 {
		loc.Weekly = scheduling.DefaultWeeklyAvailability()
		if err := h.Repo.UpdateWeekly(c.Request.Context(), id, loc.Weekly, loc.BufferMinutes); err != nil {
			h.Logger.Warn("failed to persist default weekly template", zap.String("id", id), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"weekly":        loc.Weekly,
		"bufferMinutes": loc.BufferMinutes,
	})
}

// UpdateWeeklyHandler replaces the weekly template and buffer.
func (h *AvailabilityHandler) UpdateWeeklyHandler(c *gin.Context) {
	id := c.Param("id")
	var input struct {
		Weekly        models.WeeklyAvailability `json:"weekly" binding:"required"`
		BufferMinutes int                       `json:"bufferMinutes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := scheduling.ValidateWeekly(input.Weekly); err != nil {
		var tmplErr *scheduling.TemplateError
		if errors.As(err, &tmplErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekly template", "details": tmplErr.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekly template", "details": err.Error()})
		return
	}
	if input.BufferMinutes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buffer minutes cannot be negative"})
		return
	}

	if err := h.Repo.UpdateWeekly(c.Request.Context(), id, input.Weekly, input.BufferMinutes); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		h.Logger.Error("failed to update weekly template", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update weekly template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"weekly":        input.Weekly,
		"bufferMinutes": input.BufferMinutes,
	})
}

// AddUnavailableDateHandler marks a whole day as closed.
func (h *AvailabilityHandler) AddUnavailableDateHandler(c *gin.Context) {
	id := c.Param("id")
	var input models.UnavailableDate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if _, err := scheduling.ParseDateKey(input.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
		return
	}

	if err := h.Repo.AddUnavailableDate(c.Request.Context(), id, input); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		h.Logger.Error("failed to add unavailable date", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add unavailable date"})
		return
	}
	c.JSON(http.StatusOK, input)
}

// RemoveUnavailableDateHandler reopens a previously closed day.
func (h *AvailabilityHandler) RemoveUnavailableDateHandler(c *gin.Context) {
	id := c.Param("id")
	dateKey := c.Param("date")
	if _, err := scheduling.ParseDateKey(dateKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
		return
	}

	if err := h.Repo.RemoveUnavailableDate(c.Request.Context(), id, dateKey); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		h.Logger.Error("failed to remove unavailable date", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove unavailable date"})
		return
	}
	c.Status(http.StatusNoContent)
}
