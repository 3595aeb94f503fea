package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
)

// LatestReviewsOnProfile is how many reviews FindDetail loads.
const LatestReviewsOnProfile = 10

// TutorFilter narrows the public tutor listing.
type TutorFilter struct {
	Subject   string
	MinRating *decimal.Decimal
	MaxPrice  *decimal.Decimal
}

// TutorRepository defines tutor profile persistence operations.
type TutorRepository interface {
	Create(ctx context.Context, profile *model.TutorProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error)
	Update(ctx context.Context, profile *model.TutorProfile) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, totalReviews int) error
	List(ctx context.Context, filter TutorFilter, page pagination.Params) ([]model.TutorProfile, int64, error)
}

type tutorRepository struct {
	db *gorm.DB
}

// NewTutorRepository creates a new tutor profile repository.
func NewTutorRepository(db *gorm.DB) TutorRepository {
	return &tutorRepository{db: db}
}

// Create creates a new tutor profile.
func (r *tutorRepository) Create(ctx context.Context, profile *model.TutorProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindByID finds a tutor profile by ID.
func (r *tutorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	var profile model.TutorProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByIDForUpdate finds a tutor profile by ID with row-level lock for update.
func (r *tutorRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	var profile model.TutorProfile
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID finds the profile owned by a user.
func (r *tutorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error) {
	var profile model.TutorProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindDetail loads a profile with its user, weekly availability and the
// latest reviews.
func (r *tutorRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	var profile model.TutorProfile
	err := r.db.WithContext(ctx).
		Preload("User", selectPublicUser).
		Preload("Availability", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(LatestReviewsOnProfile)
		}).
		Preload("Reviews.Student", selectPublicUser).
		Where("id = ?", id).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update writes the client-editable fields. Rating and TotalReviews are left alone.
func (r *tutorRepository) Update(ctx context.Context, profile *model.TutorProfile) error {
	return r.db.WithContext(ctx).Model(&model.TutorProfile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"bio":            profile.Bio,
			"hourly_rate":    profile.HourlyRate,
			"subjects":       profile.Subjects,
			"qualifications": profile.Qualifications,
			"experience":     profile.Experience,
		}).Error
}

// UpdateRating stores the derived rating aggregate.
func (r *tutorRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, totalReviews int) error {
	return r.db.WithContext(ctx).Model(&model.TutorProfile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":        rating,
			"total_reviews": totalReviews,
		}).Error
}

// List returns one page of tutors, best rated first.
func (r *tutorRepository) List(ctx context.Context, filter TutorFilter, page pagination.Params) ([]model.TutorProfile, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.TutorProfile{})
	if s := strings.ToLower(strings.TrimSpace(filter.Subject)); s != "" {
		q = whereSubject(q, s)
	}
	if filter.MinRating != nil {
		q = q.Where("rating >= ?", *filter.MinRating)
	}
	if filter.MaxPrice != nil {
		q = q.Where("hourly_rate <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []model.TutorProfile
	if err := q.Preload("User", selectPublicUser).
		Order("rating DESC, created_at DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// whereSubject matches profiles whose subjects JSON array contains subject.
func whereSubject(db *gorm.DB, subject string) *gorm.DB {
	needle, _ := json.Marshal([]string{subject})
	if db.Dialector.Name() == "postgres" {
		return db.Where("subjects @> CAST(? AS jsonb)", string(needle))
	}
	return db.Where("JSON_CONTAINS(subjects, ?)", string(needle))
}

func selectPublicUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "phone", "role", "is_active", "created_at", "updated_at")
}
