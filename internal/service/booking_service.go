package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/uzima-retreat/booking-service/internal/models"
	"github.com/uzima-retreat/booking-service/internal/repository"
	"github.com/uzima-retreat/booking-service/internal/ticket"
	"gorm.io/gorm"
)

var (
	ErrRetreatNotFound    = errors.New("retreat not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrAlreadyApproved    = errors.New("booking is already approved")
	ErrBookingCancelled   = errors.New("booking is cancelled")
	ErrAlreadyCancelled   = errors.New("booking is already cancelled")
	ErrBookingAttended    = errors.New("booking has already been checked in")
	ErrInvalidPayment     = errors.New("payment status must be pending or paid")
	ErrInvalidStatus      = errors.New("unknown booking status")
	ErrNoFieldsToUpdate   = errors.New("no recognized fields to update")
	ErrTicketCodeConflict = errors.New("could not mint a unique ticket code")
	ErrRetreatHasBookings = errors.New("retreat still has bookings")
	ErrSlugTaken          = errors.New("retreat slug already in use")
)

// EventPublisher is the hook for the external notification sender: approval
// and check-in outcomes are published for it to act on. Nil-safe by contract.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

const ticketCodeAttempts = 3

type FamilyMemberInput struct {
	Name         string
	Relationship string
}

type CreateBookingInput struct {
	FullName      string
	Email         string
	Phone         string
	WhatsApp      string
	Note          string
	FamilyMembers []FamilyMemberInput
}

type BookingService interface {
	CreateBooking(ctx context.Context, retreatID uint, input CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, retreatID *uint, status *models.BookingStatus) ([]models.Booking, error)
	ApproveBooking(ctx context.Context, id uint) (*models.Booking, error)
	SetPaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uint) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, id, newRetreatID uint, statusOverride *models.BookingStatus) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	retreatRepo repository.RetreatRepository
	codes       *ticket.Generator
	publisher   EventPublisher
	log         *zerolog.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	retreatRepo repository.RetreatRepository,
	codes *ticket.Generator,
	publisher EventPublisher,
	log *zerolog.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		retreatRepo: retreatRepo,
		codes:       codes,
		publisher:   publisher,
		log:         log,
	}
}

// CreateBooking records a guest submission as pending. Capacity is advisory
// metadata, so no seat check happens here; staff reconcile overbooking at
// approval time against the roster.
func (s *bookingService) CreateBooking(ctx context.Context, retreatID uint, input CreateBookingInput) (*models.Booking, error) {
	retreat, err := s.retreatRepo.FindByID(ctx, retreatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRetreatNotFound
		}
		return nil, fmt.Errorf("resolve retreat: %w", err)
	}

	booking := &models.Booking{
		RetreatID:       retreat.ID,
		RetreatTitle:    retreat.Title,
		FullName:        input.FullName,
		Email:           input.Email,
		Phone:           input.Phone,
		PhoneNormalized: models.NormalizePhone(input.Phone),
		WhatsApp:        input.WhatsApp,
		Note:            input.Note,
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentPending,
	}
	for _, fm := range input.FamilyMembers {
		booking.FamilyMembers = append(booking.FamilyMembers, models.FamilyMember{
			Name:         fm.Name,
			Relationship: fm.Relationship,
		})
	}

	if err := s.bookingRepo.Create(ctx, s.bookingRepo.GetDB(), booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info().
		Uint("booking_id", booking.ID).
		Uint("retreat_id", retreat.ID).
		Msg("booking created")
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, retreatID *uint, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookingRepo.FindAll(ctx, retreatID, status)
}

// ApproveBooking promotes a pending (or rescheduled) booking and mints its
// ticket code inside a row-locked transaction so two concurrent approvals
// cannot each persist a distinct code. A code collision on the unique index
// rolls the transaction back and the whole attempt is retried with a fresh
// code.
func (s *bookingService) ApproveBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var approved *models.Booking

	for attempt := 0; attempt < ticketCodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, err
		}

		err = s.bookingRepo.Transact(ctx, func(tx *gorm.DB) error {
			booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrBookingNotFound
				}
				return err
			}

			if booking.Attended || booking.Status == models.StatusApproved {
				return ErrAlreadyApproved
			}
			if booking.Status == models.StatusCancelled {
				return ErrBookingCancelled
			}

			if err := s.bookingRepo.UpdateFields(ctx, tx, id, map[string]any{
				"status":      models.StatusApproved,
				"ticket_code": code,
			}); err != nil {
				return err
			}

			booking.Status = models.StatusApproved
			booking.TicketCode = &code
			approved = booking
			return nil
		})

		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn().Str("ticket_code", code).Msg("ticket code collision, regenerating")
			approved = nil
			continue
		}
		return nil, err
	}
	if approved == nil {
		return nil, ErrTicketCodeConflict
	}

	s.log.Info().
		Uint("booking_id", approved.ID).
		Str("ticket_code", *approved.TicketCode).
		Msg("booking approved")

	if s.publisher != nil {
		_ = s.publisher.Publish("booking.approved", approved)
	}
	return approved, nil
}

func (s *bookingService) SetPaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) (*models.Booking, error) {
	if status != models.PaymentPending && status != models.PaymentPaid {
		return nil, ErrInvalidPayment
	}

	err := s.bookingRepo.UpdateFields(ctx, s.bookingRepo.GetDB(), id, map[string]any{
		"payment_status": status,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return s.GetBooking(ctx, id)
}

func (s *bookingService) CancelBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var cancelled *models.Booking

	err := s.bookingRepo.Transact(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status == models.StatusCancelled {
			return ErrAlreadyCancelled
		}
		if booking.Attended {
			return ErrBookingAttended
		}

		now := time.Now()
		// Ticket code is kept on purpose; check-in rejects it by status.
		if err := s.bookingRepo.UpdateFields(ctx, tx, id, map[string]any{
			"status":       models.StatusCancelled,
			"cancelled_at": now,
		}); err != nil {
			return err
		}

		booking.Status = models.StatusCancelled
		booking.CancelledAt = &now
		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("booking_id", id).Msg("booking cancelled")
	return cancelled, nil
}

// RescheduleBooking repoints the booking to a new retreat. Unless the staff
// caller overrides the status, the booking lands in "rescheduled" and needs a
// fresh approval before its ticket becomes usable again.
func (s *bookingService) RescheduleBooking(ctx context.Context, id, newRetreatID uint, statusOverride *models.BookingStatus) (*models.Booking, error) {
	if statusOverride != nil && !statusOverride.Valid() {
		return nil, ErrInvalidStatus
	}

	target, err := s.retreatRepo.FindByID(ctx, newRetreatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRetreatNotFound
		}
		return nil, fmt.Errorf("resolve target retreat: %w", err)
	}

	err = s.bookingRepo.Transact(ctx, func(tx *gorm.DB) error {
		if _, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		status := models.StatusRescheduled
		if statusOverride != nil {
			status = *statusOverride
		}

		return s.bookingRepo.UpdateFields(ctx, tx, id, map[string]any{
			"retreat_id":                   target.ID,
			"retreat_title":                target.Title,
			"rescheduled_to_retreat_id":    target.ID,
			"rescheduled_to_retreat_title": target.Title,
			"rescheduled_at":               time.Now(),
			"status":                       status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("booking_id", id).
		Uint("new_retreat_id", target.ID).
		Msg("booking rescheduled")
	return s.GetBooking(ctx, id)
}
