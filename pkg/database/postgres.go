package database

import (
	"log"

	"github.com/uzima-retreat/booking-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Retreat{}, &models.Booking{}, &models.FamilyMember{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: ticket codes are globally unique once minted;
	// approval retries generation when it trips.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_ticket_code
		ON bookings (ticket_code)
		WHERE ticket_code IS NOT NULL
	`)

	return db
}
