package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	commitmentRepoPkg "brightpath/database/repository/commitment"
	locationRepoPkg "brightpath/database/repository/location"
	"brightpath/services/scheduling"
)

// CalendarHandler serves the admin calendar views.
type CalendarHandler struct {
	Locations   locationRepoPkg.LocationRepository
	Commitments commitmentRepoPkg.CommitmentRepository
	Logger      *zap.Logger
}

func NewCalendarHandler(
	locations locationRepoPkg.LocationRepository,
	commitments commitmentRepoPkg.CommitmentRepository,
	logger *zap.Logger,
) *CalendarHandler {
	return &CalendarHandler{Locations: locations, Commitments: commitments, Logger: logger}
}

// GetCalendarHandler renders a day, week or month grid for one location.
// Defaults to the week view, anchored on today in the location's timezone
// when no anchor is given.
func (h *CalendarHandler) GetCalendarHandler(c *gin.Context) {
	locationID := c.Param("id")
	view := c.DefaultQuery("view", scheduling.ViewWeek)
	anchorKey := c.Query("anchor")

	loc, err := h.Locations.GetByID(c.Request.Context(), locationID)
	if err != nil {
		h.Logger.Error("failed to fetch location", zap.String("id", locationID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch location"})
		return
	}
	if loc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	if anchorKey == "" {
		anchorKey, err = scheduling.TodayKey(loc.Timezone, time.Now())
		if err != nil {
			h.Logger.Error("failed to resolve today for location",
				zap.String("locationID", loc.ID), zap.String("timezone", loc.Timezone), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve calendar date"})
			return
		}
	}

	fromKey, toKey, err := scheduling.GridRange(view, anchorKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid calendar request", "details": err.Error()})
		return
	}

	commitments, err := h.Commitments.ListByLocationRange(c.Request.Context(), loc.ID, fromKey, toKey)
	if err != nil {
		h.Logger.Error("failed to list commitments for calendar",
			zap.String("locationID", loc.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load calendar"})
		return
	}

	grid, err := scheduling.BuildGrid(view, anchorKey, loc, commitments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to build calendar", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, grid)
}
