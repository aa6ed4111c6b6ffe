package models

import "time"

type Retreat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	Location    string    `json:"location,omitempty"`

	// Capacity is advisory metadata for staff, not a live counter.
	// Seat splits should sum to <= Capacity but this is not enforced.
	Capacity       int `gorm:"not null;default:0" json:"capacity"`
	CapacityMale   int `gorm:"not null;default:0" json:"capacity_male"`
	CapacityFemale int `gorm:"not null;default:0" json:"capacity_female"`

	IsPaid bool    `gorm:"not null;default:false" json:"is_paid"`
	Price  float64 `gorm:"not null;default:0" json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
