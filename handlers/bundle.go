// File: brightpath/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Location endpoints.
	CreateLocationHandler gin.HandlerFunc
	GetLocationHandler    gin.HandlerFunc
	ListLocationsHandler  gin.HandlerFunc
	UpdateLocationHandler gin.HandlerFunc

	// Availability endpoints.
	GetWeeklyHandler             gin.HandlerFunc
	UpdateWeeklyHandler          gin.HandlerFunc
	AddUnavailableDateHandler    gin.HandlerFunc
	RemoveUnavailableDateHandler gin.HandlerFunc

	// Session endpoints.
	CreateSessionHandler    gin.HandlerFunc
	GetSessionHandler       gin.HandlerFunc
	CreateRecurringHandler  gin.HandlerFunc
	MaterializeRuleHandler  gin.HandlerFunc
	EditOccurrenceHandler   gin.HandlerFunc
	EditSeriesHandler       gin.HandlerFunc
	DeleteOccurrenceHandler gin.HandlerFunc
	DeleteSeriesHandler     gin.HandlerFunc

	// Calendar endpoints.
	GetCalendarHandler gin.HandlerFunc

	// Public booking wizard endpoints.
	StartBookingSession  gin.HandlerFunc
	GetOpenSlots         gin.HandlerFunc
	UpdateBookingSession gin.HandlerFunc
	ConfirmBooking       gin.HandlerFunc
	CancelBookingSession gin.HandlerFunc
}
