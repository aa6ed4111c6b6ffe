package main

import (
	"os"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/uzima-retreat/booking-service/config"
	"github.com/uzima-retreat/booking-service/internal/handler"
	"github.com/uzima-retreat/booking-service/internal/middleware"
	"github.com/uzima-retreat/booking-service/internal/repository"
	"github.com/uzima-retreat/booking-service/internal/service"
	"github.com/uzima-retreat/booking-service/internal/ticket"
	"github.com/uzima-retreat/booking-service/pkg/database"
	"github.com/uzima-retreat/booking-service/pkg/rabbitmq"
	"github.com/uzima-retreat/booking-service/pkg/validator"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer publisher.Close()

	// Repositories
	retreatRepo := repository.NewRetreatRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Services
	codes := ticket.NewGenerator(cfg.TicketPrefix)
	retreatSvc := service.NewRetreatService(retreatRepo, bookingRepo, publisher, &log)
	bookingSvc := service.NewBookingService(bookingRepo, retreatRepo, codes, publisher, &log)
	checkInSvc := service.NewCheckInService(bookingRepo, publisher, &log)
	lookupSvc := service.NewLookupService(bookingRepo)
	rosterSvc := service.NewRosterService(bookingRepo, retreatRepo)

	// Echo
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "retreat-booking-service"})
	})

	handler.NewRetreatHandler(retreatSvc).RegisterRoutes(e.Group("/api/v1/retreats"))
	handler.NewBookingHandler(bookingSvc, lookupSvc, rosterSvc).RegisterRoutes(e)
	handler.NewCheckInHandler(checkInSvc).RegisterRoutes(e)

	log.Info().Str("port", cfg.ServerPort).Msg("retreat booking service starting")
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
