package dto

import "time"

type CreateRetreatRequest struct {
	Slug           string    `json:"slug" validate:"required"`
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Location       string    `json:"location"`
	Capacity       int       `json:"capacity" validate:"gte=0"`
	CapacityMale   int       `json:"capacity_male" validate:"gte=0"`
	CapacityFemale int       `json:"capacity_female" validate:"gte=0"`
	IsPaid         bool      `json:"is_paid"`
	Price          float64   `json:"price" validate:"gte=0"`
}

// UpdateRetreatRequest is a partial patch; only non-nil fields are applied.
// The slug is immutable and has no field here.
type UpdateRetreatRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	StartTime      *string    `json:"start_time"`
	EndTime        *string    `json:"end_time"`
	Location       *string    `json:"location"`
	Capacity       *int       `json:"capacity" validate:"omitempty,gte=0"`
	CapacityMale   *int       `json:"capacity_male" validate:"omitempty,gte=0"`
	CapacityFemale *int       `json:"capacity_female" validate:"omitempty,gte=0"`
	IsPaid         *bool      `json:"is_paid"`
	Price          *float64   `json:"price" validate:"omitempty,gte=0"`
}

// Fields flattens the patch into the column map the repository applies.
func (r *UpdateRetreatRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.StartDate != nil {
		fields["start_date"] = *r.StartDate
	}
	if r.EndDate != nil {
		fields["end_date"] = *r.EndDate
	}
	if r.StartTime != nil {
		fields["start_time"] = *r.StartTime
	}
	if r.EndTime != nil {
		fields["end_time"] = *r.EndTime
	}
	if r.Location != nil {
		fields["location"] = *r.Location
	}
	if r.Capacity != nil {
		fields["capacity"] = *r.Capacity
	}
	if r.CapacityMale != nil {
		fields["capacity_male"] = *r.CapacityMale
	}
	if r.CapacityFemale != nil {
		fields["capacity_female"] = *r.CapacityFemale
	}
	if r.IsPaid != nil {
		fields["is_paid"] = *r.IsPaid
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	return fields
}

type FamilyMemberRequest struct {
	Name         string `json:"name" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
}

type CreateBookingRequest struct {
	FullName      string                `json:"full_name" validate:"required"`
	Email         string                `json:"email" validate:"required,email"`
	Phone         string                `json:"phone" validate:"required"`
	WhatsApp      string                `json:"whatsapp"`
	Note          string                `json:"note"`
	FamilyMembers []FamilyMemberRequest `json:"family_members" validate:"omitempty,dive"`
}

type SetPaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid"`
}

type RescheduleBookingRequest struct {
	RetreatID uint    `json:"retreat_id" validate:"required"`
	Status    *string `json:"status" validate:"omitempty,oneof=pending approved cancelled rescheduled"`
}

type CheckInRequest struct {
	Code string `json:"code" validate:"required"`
}

type LookupBookingRequest struct {
	ID       *uint  `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}
