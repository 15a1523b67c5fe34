package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"brightpath/handlers"
	"brightpath/utils"
)

// RegisterLocationRoutes registers location and availability management
// endpoints.
func RegisterLocationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/locations")
	{
		api.POST("", hb.CreateLocationHandler)
		api.GET("", hb.ListLocationsHandler)
		api.GET("/:id", hb.GetLocationHandler)
		api.PATCH("/:id", hb.UpdateLocationHandler)

		api.GET("/:id/availability", hb.GetWeeklyHandler)
		api.PUT("/:id/availability", hb.UpdateWeeklyHandler)
		api.POST("/:id/unavailable-dates", hb.AddUnavailableDateHandler)
		api.DELETE("/:id/unavailable-dates/:date", hb.RemoveUnavailableDateHandler)

		api.GET("/:id/calendar", hb.GetCalendarHandler)
	}
}

// RegisterSessionRoutes registers admin scheduling endpoints for one-off
// sessions and weekly series.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.POST("", hb.CreateSessionHandler)
		api.GET("/:id", hb.GetSessionHandler)
		api.PATCH("/:id", hb.EditOccurrenceHandler)
		api.DELETE("/:id", hb.DeleteOccurrenceHandler)
	}

	rules := r.Group("/api/recurring")
	{
		rules.POST("", hb.CreateRecurringHandler)
		rules.POST("/:id/materialize", hb.MaterializeRuleHandler)
		rules.PATCH("/:id", hb.EditSeriesHandler)
		rules.DELETE("/:id", hb.DeleteSeriesHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the public booking wizard.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.POST("/session", hb.StartBookingSession)
		bookingGroup.GET("/session/:sessionID/slots", hb.GetOpenSlots)
		bookingGroup.PUT("/session/:sessionID", hb.UpdateBookingSession)
		bookingGroup.POST("/session/:sessionID/confirm", hb.ConfirmBooking)
		bookingGroup.DELETE("/session/:sessionID", hb.CancelBookingSession)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Hi, I'm BrightPath",
			"deps":    utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterLocationRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r)
}
