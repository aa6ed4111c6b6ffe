package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"
	StatusApproved    BookingStatus = "approved"
	StatusCancelled   BookingStatus = "cancelled"
	StatusRescheduled BookingStatus = "rescheduled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Booking struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	RetreatID uint `gorm:"not null;index" json:"retreat_id"`
	// Denormalized so the roster stays readable if the retreat is
	// renamed or removed later.
	RetreatTitle string `gorm:"not null" json:"retreat_title"`

	FullName string `gorm:"not null" json:"full_name"`
	Email    string `gorm:"not null" json:"email"`
	Phone    string `gorm:"not null" json:"phone"`
	// PhoneNormalized is the whitespace-stripped lookup key, written once at
	// creation so lost-ticket lookup never depends on how the guest spaced
	// their number. The raw Phone stays for display.
	PhoneNormalized string `gorm:"index" json:"-"`
	WhatsApp        string `json:"whatsapp,omitempty"`
	Note            string `gorm:"type:text" json:"note,omitempty"`

	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	TicketCode    *string       `json:"ticket_code,omitempty"`
	Attended      bool          `gorm:"not null;default:false" json:"attended"`
	CheckedInAt   *time.Time    `json:"checked_in_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`

	RescheduledToRetreatID    *uint      `json:"rescheduled_to_retreat_id,omitempty"`
	RescheduledToRetreatTitle *string    `json:"rescheduled_to_retreat_title,omitempty"`
	RescheduledAt             *time.Time `json:"rescheduled_at,omitempty"`

	FamilyMembers []FamilyMember `gorm:"foreignKey:BookingID" json:"family_members,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Retreat *Retreat `gorm:"foreignKey:RetreatID" json:"retreat,omitempty"`
}

// NormalizePhone strips all whitespace (including tabs and non-breaking
// spaces) so "+255 700 000 000" and "+255700000000" compare equal as lookup
// keys.
func NormalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

type FamilyMember struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	BookingID    uint   `gorm:"not null;index" json:"booking_id"`
	Name         string `gorm:"not null" json:"name"`
	Relationship string `gorm:"not null" json:"relationship"`
}
