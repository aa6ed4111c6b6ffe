package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/uzima-retreat/booking-service/internal/models"
	"github.com/uzima-retreat/booking-service/internal/repository"
	"gorm.io/gorm"
)

type RetreatService interface {
	CreateRetreat(ctx context.Context, retreat *models.Retreat) error
	GetRetreat(ctx context.Context, id uint) (*models.Retreat, error)
	GetRetreatBySlug(ctx context.Context, slug string) (*models.Retreat, error)
	ListRetreats(ctx context.Context) ([]models.Retreat, error)
	UpdateRetreat(ctx context.Context, id uint, fields map[string]any) (*models.Retreat, error)
	DeleteRetreat(ctx context.Context, id uint) error
}

type retreatService struct {
	retreatRepo repository.RetreatRepository
	bookingRepo repository.BookingRepository
	publisher   EventPublisher
	log         *zerolog.Logger
}

func NewRetreatService(
	retreatRepo repository.RetreatRepository,
	bookingRepo repository.BookingRepository,
	publisher EventPublisher,
	log *zerolog.Logger,
) RetreatService {
	return &retreatService{
		retreatRepo: retreatRepo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		log:         log,
	}
}

func (s *retreatService) CreateRetreat(ctx context.Context, retreat *models.Retreat) error {
	if err := s.retreatRepo.Create(ctx, retreat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create retreat: %w", err)
	}

	s.log.Info().Uint("retreat_id", retreat.ID).Str("slug", retreat.Slug).Msg("retreat created")

	if s.publisher != nil {
		_ = s.publisher.Publish("retreat.created", retreat)
	}
	return nil
}

func (s *retreatService) GetRetreat(ctx context.Context, id uint) (*models.Retreat, error) {
	retreat, err := s.retreatRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRetreatNotFound
		}
		return nil, err
	}
	return retreat, nil
}

func (s *retreatService) GetRetreatBySlug(ctx context.Context, slug string) (*models.Retreat, error) {
	retreat, err := s.retreatRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRetreatNotFound
		}
		return nil, err
	}
	return retreat, nil
}

func (s *retreatService) ListRetreats(ctx context.Context) ([]models.Retreat, error) {
	return s.retreatRepo.FindAll(ctx)
}

// UpdateRetreat applies a partial field patch. The slug is immutable after
// creation and availability fields are a raw overwrite; approval never
// decrements them.
func (s *retreatService) UpdateRetreat(ctx context.Context, id uint, fields map[string]any) (*models.Retreat, error) {
	delete(fields, "slug")
	delete(fields, "id")
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.retreatRepo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRetreatNotFound
		}
		return nil, err
	}
	return s.retreatRepo.FindByID(ctx, id)
}

// DeleteRetreat refuses while bookings reference the retreat; booking rows
// are never cascaded away.
func (s *retreatService) DeleteRetreat(ctx context.Context, id uint) error {
	count, err := s.bookingRepo.CountByRetreatID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRetreatHasBookings
	}

	if err := s.retreatRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRetreatNotFound
		}
		return err
	}

	s.log.Info().Uint("retreat_id", id).Msg("retreat deleted")
	return nil
}
