package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillbridge/internal/model"
)

// AvailabilityRepository defines availability slot persistence operations.
type AvailabilityRepository interface {
	Create(ctx context.Context, slot *model.Availability) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Availability, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]model.Availability, error)
}

type availabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Create(ctx context.Context, slot *model.Availability) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *availabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	var slot model.Availability
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Availability{}).Error
}

// ListByTutor returns a tutor's week in day then start time order.
func (r *availabilityRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]model.Availability, error) {
	var slots []model.Availability
	if err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}
