package repository

import (
	"context"
	"time"

	"github.com/uzima-retreat/booking-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindByTicketCode(ctx context.Context, code string) (*models.Booking, error)
	FindByNamePhone(ctx context.Context, fullName, phone string) (*models.Booking, error)
	FindAll(ctx context.Context, retreatID *uint, status *models.BookingStatus) ([]models.Booking, error)
	CountByRetreatID(ctx context.Context, retreatID uint) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error
	MarkAttended(ctx context.Context, id uint, at time.Time) (bool, error)
	Transact(ctx context.Context, fn func(tx *gorm.DB) error) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).
		Preload("FamilyMembers").
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate acquires a row-level lock on the booking within the given
// transaction. Used to serialize approvals of the same booking.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByTicketCode(ctx context.Context, code string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).
		Where("ticket_code = ?", code).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByNamePhone matches the name case-insensitively and the phone against
// the normalized lookup column written at creation, so "+255 700 000 000"
// entered at booking time still matches "+255700000000" entered at lookup
// time. Multiple matches resolve deterministically to the lowest id.
func (r *bookingRepository) FindByNamePhone(ctx context.Context, fullName, phone string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).
		Where("LOWER(full_name) = LOWER(?)", fullName).
		Where("phone_normalized = ?", phone).
		Order("id ASC").
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, retreatID *uint, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Preload("FamilyMembers")
	if retreatID != nil {
		q = q.Where("retreat_id = ?", *retreatID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) CountByRetreatID(ctx context.Context, retreatID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("retreat_id = ?", retreatID).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) UpdateFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	res := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAttended is the single atomic conditional write of the check-in path.
// Two concurrent scans of the same code serialize here: only the request
// whose UPDATE matches attended=false flips the row, the loser sees zero
// rows affected and reports the booking as already checked in.
func (r *bookingRepository) MarkAttended(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND attended = ?", id, false).
		Updates(map[string]any{"attended": true, "checked_in_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
