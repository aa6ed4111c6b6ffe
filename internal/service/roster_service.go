package service

import (
	"context"
	"errors"
	"strings"

	"github.com/uzima-retreat/booking-service/internal/models"
	"github.com/uzima-retreat/booking-service/internal/repository"
	"gorm.io/gorm"
)

var ErrInvalidRosterStatus = errors.New("unknown roster status filter")

type RosterStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Cancelled int `json:"cancelled"`
	Attended  int `json:"attended"`
	Paid      int `json:"paid"`
}

// RosterFilter narrows the staff list view. Status accepts the booking
// statuses plus the derived "attended" and "not-attended" (approved but not
// yet checked in) views.
type RosterFilter struct {
	Search string
	Status string
}

type Roster struct {
	Bookings []models.Booking `json:"bookings"`
	Stats    RosterStats      `json:"stats"`
}

type RosterService interface {
	Roster(ctx context.Context, retreatID uint, filter RosterFilter) (*Roster, error)
}

type rosterService struct {
	bookingRepo repository.BookingRepository
	retreatRepo repository.RetreatRepository
}

func NewRosterService(bookingRepo repository.BookingRepository, retreatRepo repository.RetreatRepository) RosterService {
	return &rosterService{bookingRepo: bookingRepo, retreatRepo: retreatRepo}
}

// Roster recomputes counts from the current booking rows on every read;
// there is no stored counter to drift. Stats cover the whole retreat, the
// list honors the filter.
func (s *rosterService) Roster(ctx context.Context, retreatID uint, filter RosterFilter) (*Roster, error) {
	if !validRosterStatus(filter.Status) {
		return nil, ErrInvalidRosterStatus
	}

	if _, err := s.retreatRepo.FindByID(ctx, retreatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRetreatNotFound
		}
		return nil, err
	}

	bookings, err := s.bookingRepo.FindAll(ctx, &retreatID, nil)
	if err != nil {
		return nil, err
	}

	roster := &Roster{Bookings: []models.Booking{}}
	for _, b := range bookings {
		roster.Stats.Total++
		switch b.Status {
		case models.StatusPending:
			roster.Stats.Pending++
		case models.StatusApproved:
			roster.Stats.Approved++
		case models.StatusCancelled:
			roster.Stats.Cancelled++
		}
		if b.Attended {
			roster.Stats.Attended++
		}
		if b.PaymentStatus == models.PaymentPaid {
			roster.Stats.Paid++
		}

		if matchesStatus(&b, filter.Status) && matchesSearch(&b, filter.Search) {
			roster.Bookings = append(roster.Bookings, b)
		}
	}
	return roster, nil
}

func validRosterStatus(status string) bool {
	switch status {
	case "", "pending", "approved", "cancelled", "rescheduled", "attended", "not-attended":
		return true
	}
	return false
}

func matchesStatus(b *models.Booking, status string) bool {
	switch status {
	case "":
		return true
	case "attended":
		return b.Attended
	case "not-attended":
		return b.Status == models.StatusApproved && !b.Attended
	default:
		return b.Status == models.BookingStatus(status)
	}
}

func matchesSearch(b *models.Booking, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	fields := []string{b.FullName, b.Email, b.Phone}
	if b.TicketCode != nil {
		fields = append(fields, *b.TicketCode)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
