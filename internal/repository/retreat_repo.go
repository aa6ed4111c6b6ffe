package repository

import (
	"context"

	"github.com/uzima-retreat/booking-service/internal/models"
	"gorm.io/gorm"
)

type RetreatRepository interface {
	Create(ctx context.Context, retreat *models.Retreat) error
	FindByID(ctx context.Context, id uint) (*models.Retreat, error)
	FindBySlug(ctx context.Context, slug string) (*models.Retreat, error)
	FindAll(ctx context.Context) ([]models.Retreat, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type retreatRepository struct {
	db *gorm.DB
}

func NewRetreatRepository(db *gorm.DB) RetreatRepository {
	return &retreatRepository{db: db}
}

func (r *retreatRepository) Create(ctx context.Context, retreat *models.Retreat) error {
	return r.db.WithContext(ctx).Create(retreat).Error
}

func (r *retreatRepository) FindByID(ctx context.Context, id uint) (*models.Retreat, error) {
	var retreat models.Retreat
	if err := r.db.WithContext(ctx).First(&retreat, id).Error; err != nil {
		return nil, err
	}
	return &retreat, nil
}

func (r *retreatRepository) FindBySlug(ctx context.Context, slug string) (*models.Retreat, error) {
	var retreat models.Retreat
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&retreat).Error; err != nil {
		return nil, err
	}
	return &retreat, nil
}

func (r *retreatRepository) FindAll(ctx context.Context) ([]models.Retreat, error) {
	var retreats []models.Retreat
	if err := r.db.WithContext(ctx).Order("start_date ASC, id ASC").Find(&retreats).Error; err != nil {
		return nil, err
	}
	return retreats, nil
}

func (r *retreatRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Retreat{}).
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

func (r *retreatRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Retreat{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
