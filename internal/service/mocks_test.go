package service

import (
	"context"
	"sync"
	"time"

	"github.com/uzima-retreat/booking-service/internal/models"
	"gorm.io/gorm"
)

// --- Mock RetreatRepository ---

type mockRetreatRepo struct {
	createFn     func(ctx context.Context, retreat *models.Retreat) error
	findByIDFn   func(ctx context.Context, id uint) (*models.Retreat, error)
	findBySlugFn func(ctx context.Context, slug string) (*models.Retreat, error)
	findAllFn    func(ctx context.Context) ([]models.Retreat, error)
	updateFn     func(ctx context.Context, id uint, fields map[string]any) error
	deleteFn     func(ctx context.Context, id uint) error
}

func (m *mockRetreatRepo) Create(ctx context.Context, retreat *models.Retreat) error {
	return m.createFn(ctx, retreat)
}
func (m *mockRetreatRepo) FindByID(ctx context.Context, id uint) (*models.Retreat, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockRetreatRepo) FindBySlug(ctx context.Context, slug string) (*models.Retreat, error) {
	return m.findBySlugFn(ctx, slug)
}
func (m *mockRetreatRepo) FindAll(ctx context.Context) ([]models.Retreat, error) {
	return m.findAllFn(ctx)
}
func (m *mockRetreatRepo) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	return m.updateFn(ctx, id, fields)
}
func (m *mockRetreatRepo) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	createFn          func(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	findByIDFn        func(ctx context.Context, id uint) (*models.Booking, error)
	findForUpdateFn   func(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	findByCodeFn      func(ctx context.Context, code string) (*models.Booking, error)
	findByNamePhoneFn func(ctx context.Context, fullName, phone string) (*models.Booking, error)
	findAllFn         func(ctx context.Context, retreatID *uint, status *models.BookingStatus) ([]models.Booking, error)
	countByRetreatFn  func(ctx context.Context, retreatID uint) (int64, error)
	updateFieldsFn    func(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error
	markAttendedFn    func(ctx context.Context, id uint, at time.Time) (bool, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return m.createFn(ctx, tx, booking)
}
func (m *mockBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return m.findForUpdateFn(ctx, tx, id)
}
func (m *mockBookingRepo) FindByTicketCode(ctx context.Context, code string) (*models.Booking, error) {
	return m.findByCodeFn(ctx, code)
}
func (m *mockBookingRepo) FindByNamePhone(ctx context.Context, fullName, phone string) (*models.Booking, error) {
	return m.findByNamePhoneFn(ctx, fullName, phone)
}
func (m *mockBookingRepo) FindAll(ctx context.Context, retreatID *uint, status *models.BookingStatus) ([]models.Booking, error) {
	return m.findAllFn(ctx, retreatID, status)
}
func (m *mockBookingRepo) CountByRetreatID(ctx context.Context, retreatID uint) (int64, error) {
	return m.countByRetreatFn(ctx, retreatID)
}
func (m *mockBookingRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]any) error {
	return m.updateFieldsFn(ctx, tx, id, fields)
}
func (m *mockBookingRepo) MarkAttended(ctx context.Context, id uint, at time.Time) (bool, error) {
	return m.markAttendedFn(ctx, id, at)
}
func (m *mockBookingRepo) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
func (m *mockBookingRepo) GetDB() *gorm.DB { return nil }

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []string
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, routingKey)
	return nil
}

func (m *mockPublisher) published() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}
