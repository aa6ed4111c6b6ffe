package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/uzima-retreat/booking-service/internal/models"
	"github.com/uzima-retreat/booking-service/internal/repository"
	"gorm.io/gorm"
)

const (
	ReasonTicketNotFound  = "ticket not found"
	ReasonTicketNotUsable = "ticket not usable"
)

// CheckInResult is the structured outcome of a scan. An unusable or unknown
// ticket is a normal result, not an error; AlreadyCheckedIn=true is the
// idempotent success branch staff see when a guest's code is scanned twice.
type CheckInResult struct {
	Valid            bool
	AlreadyCheckedIn bool
	Reason           string
	Booking          *models.Booking
}

type CheckInService interface {
	CheckIn(ctx context.Context, code string) (*CheckInResult, error)
	UndoCheckIn(ctx context.Context, id uint) (*models.Booking, error)
}

type checkInService struct {
	bookingRepo repository.BookingRepository
	publisher   EventPublisher
	log         *zerolog.Logger
}

func NewCheckInService(bookingRepo repository.BookingRepository, publisher EventPublisher, log *zerolog.Logger) CheckInService {
	return &checkInService{bookingRepo: bookingRepo, publisher: publisher, log: log}
}

// CheckIn resolves a scanned or hand-typed ticket code and flips the booking
// to attended exactly once. Manual entry is case-normalized since codes are
// minted uppercase.
func (s *checkInService) CheckIn(ctx context.Context, code string) (*CheckInResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return &CheckInResult{Valid: false, Reason: ReasonTicketNotFound}, nil
	}

	booking, err := s.bookingRepo.FindByTicketCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CheckInResult{Valid: false, Reason: ReasonTicketNotFound}, nil
		}
		return nil, fmt.Errorf("resolve ticket code: %w", err)
	}

	// A cancelled or rescheduled booking keeps its code, so the status
	// gate is what actually revokes the ticket.
	if booking.Status != models.StatusApproved {
		return &CheckInResult{
			Valid:   false,
			Reason:  fmt.Sprintf("%s: booking is %s", ReasonTicketNotUsable, booking.Status),
			Booking: booking,
		}, nil
	}

	if booking.Attended {
		return &CheckInResult{Valid: true, AlreadyCheckedIn: true, Booking: booking}, nil
	}

	now := time.Now()
	won, err := s.bookingRepo.MarkAttended(ctx, booking.ID, now)
	if err != nil {
		return nil, fmt.Errorf("mark attended: %w", err)
	}
	if !won {
		// A concurrent scan got there first; report the idempotent branch
		// with the original timestamp.
		fresh, err := s.bookingRepo.FindByID(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		return &CheckInResult{Valid: true, AlreadyCheckedIn: true, Booking: fresh}, nil
	}

	booking.Attended = true
	booking.CheckedInAt = &now

	s.log.Info().
		Uint("booking_id", booking.ID).
		Str("ticket_code", code).
		Msg("guest checked in")

	if s.publisher != nil {
		_ = s.publisher.Publish("booking.checked_in", booking)
	}
	return &CheckInResult{Valid: true, AlreadyCheckedIn: false, Booking: booking}, nil
}

// UndoCheckIn is a manual staff correction; the only guard is that the
// booking exists.
func (s *checkInService) UndoCheckIn(ctx context.Context, id uint) (*models.Booking, error) {
	err := s.bookingRepo.UpdateFields(ctx, s.bookingRepo.GetDB(), id, map[string]any{
		"attended":      false,
		"checked_in_at": nil,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	s.log.Info().Uint("booking_id", id).Msg("check-in undone")
	return s.bookingRepo.FindByID(ctx, id)
}
