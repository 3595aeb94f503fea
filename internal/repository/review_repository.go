package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
)

// RatingStats is the aggregate of a tutor's review ratings.
type RatingStats struct {
	RatingSum int64
	Total     int64
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Review, error)
	ListByTutor(ctx context.Context, tutorID uuid.UUID, page pagination.Params) ([]model.Review, int64, error)
	RatingStats(ctx context.Context, tutorID uuid.UUID) (RatingStats, error)
	TutorIDsByStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error)
	Count(ctx context.Context) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create creates a new review. A second review for the same booking fails
// with gorm.ErrDuplicatedKey.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Update writes rating and comment.
func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Model(&model.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{
			"rating":  review.Rating,
			"comment": review.Comment,
		}).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{}).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Preload("Student", selectPublicUser).
		Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByTutor returns one page of a tutor's reviews, newest first.
func (r *reviewRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID, page pagination.Params) ([]model.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("tutor_id = ?", tutorID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	if err := q.Preload("Student", selectPublicUser).
		Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// RatingStats sums and counts the ratings of a tutor in one query.
func (r *reviewRepository) RatingStats(ctx context.Context, tutorID uuid.UUID) (RatingStats, error) {
	var stats RatingStats
	err := ratingStatsQuery(r.db.WithContext(ctx), tutorID).Scan(&stats).Error
	return stats, err
}

func ratingStatsQuery(db *gorm.DB, tutorID uuid.UUID) *gorm.DB {
	return db.Model(&model.Review{}).
		Select("COALESCE(SUM(rating), 0) AS rating_sum, COUNT(*) AS total").
		Where("tutor_id = ?", tutorID)
}

// TutorIDsByStudent lists the tutors a student has reviewed.
func (r *reviewRepository) TutorIDsByStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("student_id = ?", studentID).
		Distinct().
		Pluck("tutor_id", &ids).Error
	return ids, err
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).Count(&n).Error
	return n, err
}
