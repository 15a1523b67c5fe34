package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	locationRepoPkg "brightpath/database/repository/location"
	"brightpath/models"
	"brightpath/services/scheduling"
)

// LocationHandler serves the location management endpoints.
type LocationHandler struct {
	Repo   locationRepoPkg.LocationRepository
	Logger *zap.Logger
}

func NewLocationHandler(repo locationRepoPkg.LocationRepository, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{Repo: repo, Logger: logger}
}

// CreateLocationHandler registers a new tutoring centre location. A missing
// weekly template gets the standard weekday hours.
func (h *LocationHandler) CreateLocationHandler(c *gin.Context) {
	var input struct {
		Name          string                    `json:"name" binding:"required"`
		Timezone      string                    `json:"timezone" binding:"required"`
		Weekly        models.WeeklyAvailability `json:"weekly"`
		BufferMinutes int                       `json:"bufferMinutes"`
		Unavailable   []models.UnavailableDate  `json:"unavailableDates"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	weekly := input.Weekly
	if len(weekly) == 0 {
		weekly = scheduling.DefaultWeeklyAvailability()
	}
	if err := scheduling.ValidateWeekly(weekly); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekly template", "details": err.Error()})
		return
	}
	if input.BufferMinutes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buffer minutes cannot be negative"})
		return
	}

	loc := models.Location{
		Name:             input.Name,
		Timezone:         input.Timezone,
		Weekly:           weekly,
		BufferMinutes:    input.BufferMinutes,
		UnavailableDates: input.Unavailable,
	}
	if err := h.Repo.Create(c.Request.Context(), &loc); err != nil {
		h.Logger.Error("failed to create location", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create location"})
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// GetLocationHandler returns one location by ID.
func (h *LocationHandler) GetLocationHandler(c *gin.Context) {
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
	c.JSON(http.StatusOK, loc)
}

// ListLocationsHandler returns all locations.
func (h *LocationHandler) ListLocationsHandler(c *gin.Context) {
	locs, err := h.Repo.List(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to list locations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list locations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locs})
}

// UpdateLocationHandler updates name and timezone.
func (h *LocationHandler) UpdateLocationHandler(c *gin.Context) {
	id := c.Param("id")
	var input struct {
		Name     string `json:"name"`
		Timezone string `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

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

	if input.Name != "" {
		loc.Name = input.Name
	}
	if input.Timezone != "" {
		loc.Timezone = input.Timezone
	}
	if err := h.Repo.Update(c.Request.Context(), loc); err != nil {
		h.Logger.Error("failed to update location", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update location"})
		return
	}
	c.JSON(http.StatusOK, loc)
}
