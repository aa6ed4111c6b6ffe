package service

import (
	"context"
	"errors"
	"strings"

	"github.com/uzima-retreat/booking-service/internal/models"
	"github.com/uzima-retreat/booking-service/internal/repository"
	"gorm.io/gorm"
)

var ErrLookupParams = errors.New("provide a booking id, or both full name and phone")

// LookupParams carries the two mutually exclusive recovery modes: direct id,
// or the (name, phone) pair a guest can reproduce after losing their ticket.
type LookupParams struct {
	ID       *uint
	FullName string
	Phone    string
}

type LookupService interface {
	Lookup(ctx context.Context, params LookupParams) (*models.Booking, error)
}

type lookupService struct {
	bookingRepo repository.BookingRepository
}

func NewLookupService(bookingRepo repository.BookingRepository) LookupService {
	return &lookupService{bookingRepo: bookingRepo}
}

func (s *lookupService) Lookup(ctx context.Context, params LookupParams) (*models.Booking, error) {
	if params.ID != nil {
		booking, err := s.bookingRepo.FindByID(ctx, *params.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, err
		}
		return booking, nil
	}

	name := strings.TrimSpace(params.FullName)
	phone := models.NormalizePhone(params.Phone)
	if name == "" || phone == "" {
		return nil, ErrLookupParams
	}

	booking, err := s.bookingRepo.FindByNamePhone(ctx, name, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}
