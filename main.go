// File: brightpath/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"brightpath/config"
	"brightpath/cron"
	"brightpath/database"
	commitmentRepoPkg "brightpath/database/repository/commitment"
	locationRepoPkg "brightpath/database/repository/location"
	recurrenceRepoPkg "brightpath/database/repository/recurrence"
	"brightpath/handlers"
	"brightpath/middleware"
	"brightpath/routes"
	"brightpath/services/booking"
	"brightpath/services/scheduling"
	"brightpath/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetSessionCacheClient()},
		database.MongoClient,
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	locRepo := locationRepoPkg.NewMongoLocationRepo()
	commitRepo := commitmentRepoPkg.NewMongoCommitmentRepo()
	ruleRepo := recurrenceRepoPkg.NewMongoRuleRepo()

	// services.
	recurrenceEngine := &scheduling.DefaultRecurrenceEngine{
		Rules:         ruleRepo,
		Commitments:   commitRepo,
		HorizonMonths: config.AppConfig.HorizonMonths,
	}

	wizardService := &booking.DefaultBookingWizardService{
		Locations:   locRepo,
		Commitments: commitRepo,
		Sessions:    utils.GetSessionCacheClient(),
	}

	locationHandler := handlers.NewLocationHandler(locRepo, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(locRepo, logger)
	sessionHandler := handlers.NewSessionHandler(locRepo, commitRepo, recurrenceEngine, logger)
	calendarHandler := handlers.NewCalendarHandler(locRepo, commitRepo, logger)
	bookingHandler := handlers.NewBookingHandler(wizardService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Location endpoints.
		CreateLocationHandler: locationHandler.CreateLocationHandler,
		GetLocationHandler:    locationHandler.GetLocationHandler,
		ListLocationsHandler:  locationHandler.ListLocationsHandler,
		UpdateLocationHandler: locationHandler.UpdateLocationHandler,

		// Availability endpoints.
		GetWeeklyHandler:             availabilityHandler.GetWeeklyHandler,
		UpdateWeeklyHandler:          availabilityHandler.UpdateWeeklyHandler,
		AddUnavailableDateHandler:    availabilityHandler.AddUnavailableDateHandler,
		RemoveUnavailableDateHandler: availabilityHandler.RemoveUnavailableDateHandler,

		// Session endpoints.
		CreateSessionHandler:    sessionHandler.CreateSessionHandler,
		GetSessionHandler:       sessionHandler.GetSessionHandler,
		CreateRecurringHandler:  sessionHandler.CreateRecurringHandler,
		MaterializeRuleHandler:  sessionHandler.MaterializeRuleHandler,
		EditOccurrenceHandler:   sessionHandler.EditOccurrenceHandler,
		EditSeriesHandler:       sessionHandler.EditSeriesHandler,
		DeleteOccurrenceHandler: sessionHandler.DeleteOccurrenceHandler,
		DeleteSeriesHandler:     sessionHandler.DeleteSeriesHandler,

		// Calendar endpoints.
		GetCalendarHandler: calendarHandler.GetCalendarHandler,

		// Public booking wizard endpoints.
		StartBookingSession:  bookingHandler.StartSession,
		GetOpenSlots:         bookingHandler.GetOpenSlots,
		UpdateBookingSession: bookingHandler.UpdateSession,
		ConfirmBooking:       bookingHandler.ConfirmBooking,
		CancelBookingSession: bookingHandler.CancelSession,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Sweep recurrence rules nightly to keep the rolling window full.
	cron.InitHorizonWorker(recurrenceEngine, ruleRepo, locRepo)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
