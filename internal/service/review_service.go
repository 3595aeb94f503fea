package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillbridge/internal/cache"
	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
	"skillbridge/internal/repository"
	"skillbridge/internal/validation"
)

// CreateReviewInput is the payload of a new review.
type CreateReviewInput struct {
	BookingID uuid.UUID `json:"bookingId" validate:"required"`
	Rating    int       `json:"rating" validate:"min=1,max=5"`
	Comment   *string   `json:"comment" validate:"omitnil,notblank,max=1000"`
}

// UpdateReviewInput changes rating and/or comment. Nil fields are kept.
type UpdateReviewInput struct {
	Rating  *int    `json:"rating" validate:"omitnil,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitnil,notblank,max=1000"`
}

// ReviewService keeps reviews and the tutor rating aggregate consistent.
// Every write locks the tutor profile row and recomputes the aggregate in
// the same transaction.
type ReviewService interface {
	Create(ctx context.Context, studentID uuid.UUID, input CreateReviewInput) (*model.Review, error)
	Update(ctx context.Context, studentID, reviewID uuid.UUID, input UpdateReviewInput) (*model.Review, error)
	Delete(ctx context.Context, studentID, reviewID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ListByTutor(ctx context.Context, tutorID uuid.UUID, page pagination.Params) ([]model.Review, int64, error)
}

type reviewService struct {
	store     repository.Store
	validator *validation.Validator
	cache     *cache.Client
}

// NewReviewService creates a new review service.
func NewReviewService(store repository.Store, validator *validation.Validator, cache *cache.Client) ReviewService {
	return &reviewService{
		store:     store,
		validator: validator,
		cache:     cache,
	}
}

func (s *reviewService) Create(ctx context.Context, studentID uuid.UUID, input CreateReviewInput) (*model.Review, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	var review *model.Review
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		booking, err := tx.Bookings().FindByIDForUpdate(ctx, input.BookingID)
		if err != nil {
			return lookupErr(err, errors.ErrBookingNotFound, "find booking")
		}
		if booking.StudentID != studentID {
			return errors.ErrForbidden.WithMessage("you can only review your own bookings")
		}
		if booking.Status != model.BookingStatusCompleted {
			return errors.ErrBookingNotCompleted
		}
		if err := lockTutor(ctx, tx, booking.TutorID); err != nil {
			return err
		}

		_, err = tx.Reviews().FindByBookingID(ctx, booking.ID)
		if err == nil {
			return errors.ErrReviewExists
		}
		if !isNotFound(err) {
			return fmt.Errorf("find review: %w", err)
		}

		review = &model.Review{
			BookingID: booking.ID,
			StudentID: studentID,
			TutorID:   booking.TutorID,
			Rating:    input.Rating,
			Comment:   trimOptional(input.Comment),
		}
		if err := tx.Reviews().Create(ctx, review); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.ErrReviewExists
			}
			return fmt.Errorf("create review: %w", err)
		}
		return recomputeTutorRating(ctx, tx, booking.TutorID)
	})
	if err != nil {
		return nil, err
	}

	invalidateTutor(ctx, s.cache, review.TutorID)
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, studentID, reviewID uuid.UUID, input UpdateReviewInput) (*model.Review, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	var review *model.Review
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		review, err = s.ownedReview(ctx, tx, studentID, reviewID)
		if err != nil {
			return err
		}
		if err := lockTutor(ctx, tx, review.TutorID); err != nil {
			return err
		}

		if input.Rating != nil {
			review.Rating = *input.Rating
		}
		if input.Comment != nil {
			review.Comment = trimOptional(input.Comment)
		}
		if err := tx.Reviews().Update(ctx, review); err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		return recomputeTutorRating(ctx, tx, review.TutorID)
	})
	if err != nil {
		return nil, err
	}

	invalidateTutor(ctx, s.cache, review.TutorID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, studentID, reviewID uuid.UUID) error {
	var tutorID uuid.UUID
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		review, err := s.ownedReview(ctx, tx, studentID, reviewID)
		if err != nil {
			return err
		}
		tutorID = review.TutorID
		if err := lockTutor(ctx, tx, tutorID); err != nil {
			return err
		}
		if err := tx.Reviews().Delete(ctx, review.ID); err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return recomputeTutorRating(ctx, tx, tutorID)
	})
	if err != nil {
		return err
	}

	invalidateTutor(ctx, s.cache, tutorID)
	return nil
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	review, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, errors.ErrReviewNotFound, "find review")
	}
	return review, nil
}

func (s *reviewService) ListByTutor(ctx context.Context, tutorID uuid.UUID, page pagination.Params) ([]model.Review, int64, error) {
	if _, err := s.store.Tutors().FindByID(ctx, tutorID); err != nil {
		return nil, 0, lookupErr(err, errors.ErrTutorNotFound, "find tutor")
	}
	reviews, total, err := s.store.Reviews().ListByTutor(ctx, tutorID, page.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *reviewService) ownedReview(ctx context.Context, tx repository.Store, studentID, reviewID uuid.UUID) (*model.Review, error) {
	review, err := tx.Reviews().FindByID(ctx, reviewID)
	if err != nil {
		return nil, lookupErr(err, errors.ErrReviewNotFound, "find review")
	}
	if review.StudentID != studentID {
		return nil, errors.ErrForbidden.WithMessage("you can only modify your own reviews")
	}
	return review, nil
}

// lockTutor takes the row lock that serializes rating recomputation per tutor.
func lockTutor(ctx context.Context, tx repository.Store, tutorID uuid.UUID) error {
	if _, err := tx.Tutors().FindByIDForUpdate(ctx, tutorID); err != nil {
		return lookupErr(err, errors.ErrTutorNotFound, "lock tutor")
	}
	return nil
}
