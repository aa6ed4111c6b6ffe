package dto

import (
	"time"

	"github.com/uzima-retreat/booking-service/internal/models"
)

type FamilyMemberResponse struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}

type BookingResponse struct {
	ID                        uint                   `json:"id"`
	RetreatID                 uint                   `json:"retreat_id"`
	RetreatTitle              string                 `json:"retreat_title"`
	FullName                  string                 `json:"full_name"`
	Email                     string                 `json:"email"`
	Phone                     string                 `json:"phone"`
	WhatsApp                  string                 `json:"whatsapp,omitempty"`
	Note                      string                 `json:"note,omitempty"`
	Status                    models.BookingStatus   `json:"status"`
	PaymentStatus             models.PaymentStatus   `json:"payment_status"`
	TicketCode                *string                `json:"ticket_code,omitempty"`
	Attended                  bool                   `json:"attended"`
	CheckedInAt               *time.Time             `json:"checked_in_at,omitempty"`
	CancelledAt               *time.Time             `json:"cancelled_at,omitempty"`
	RescheduledToRetreatID    *uint                  `json:"rescheduled_to_retreat_id,omitempty"`
	RescheduledToRetreatTitle *string                `json:"rescheduled_to_retreat_title,omitempty"`
	RescheduledAt             *time.Time             `json:"rescheduled_at,omitempty"`
	FamilyMembers             []FamilyMemberResponse `json:"family_members,omitempty"`
	CreatedAt                 time.Time              `json:"created_at"`
}

type RetreatResponse struct {
	ID             uint      `json:"id"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	StartTime      string    `json:"start_time,omitempty"`
	EndTime        string    `json:"end_time,omitempty"`
	Location       string    `json:"location,omitempty"`
	Capacity       int       `json:"capacity"`
	CapacityMale   int       `json:"capacity_male"`
	CapacityFemale int       `json:"capacity_female"`
	IsPaid         bool      `json:"is_paid"`
	Price          float64   `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
}

type CheckInResponse struct {
	Valid            bool             `json:"valid"`
	AlreadyCheckedIn bool             `json:"already_checked_in"`
	Reason           string           `json:"reason,omitempty"`
	Booking          *BookingResponse `json:"booking,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                        b.ID,
		RetreatID:                 b.RetreatID,
		RetreatTitle:              b.RetreatTitle,
		FullName:                  b.FullName,
		Email:                     b.Email,
		Phone:                     b.Phone,
		WhatsApp:                  b.WhatsApp,
		Note:                      b.Note,
		Status:                    b.Status,
		PaymentStatus:             b.PaymentStatus,
		TicketCode:                b.TicketCode,
		Attended:                  b.Attended,
		CheckedInAt:               b.CheckedInAt,
		CancelledAt:               b.CancelledAt,
		RescheduledToRetreatID:    b.RescheduledToRetreatID,
		RescheduledToRetreatTitle: b.RescheduledToRetreatTitle,
		RescheduledAt:             b.RescheduledAt,
		CreatedAt:                 b.CreatedAt,
	}
	for _, fm := range b.FamilyMembers {
		resp.FamilyMembers = append(resp.FamilyMembers, FamilyMemberResponse{
			Name:         fm.Name,
			Relationship: fm.Relationship,
		})
	}
	return resp
}

func ToRetreatResponse(r *models.Retreat) RetreatResponse {
	return RetreatResponse{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          r.Title,
		Description:    r.Description,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Location:       r.Location,
		Capacity:       r.Capacity,
		CapacityMale:   r.CapacityMale,
		CapacityFemale: r.CapacityFemale,
		IsPaid:         r.IsPaid,
		Price:          r.Price,
		CreatedAt:      r.CreatedAt,
	}
}
