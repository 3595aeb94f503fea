package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
	"skillbridge/internal/repository"
	"skillbridge/internal/validation"
)

var (
	minBookingPrice = decimal.RequireFromString("0.01")
	maxBookingPrice = decimal.NewFromInt(10000)
)

// allowedTargets lists the statuses each non-admin role may move a
// CONFIRMED booking it owns to. Admins are unrestricted.
var allowedTargets = map[model.Role][]model.BookingStatus{
	model.RoleStudent: {model.BookingStatusCancelled},
	model.RoleTutor:   {model.BookingStatusCompleted, model.BookingStatusCancelled},
}

// CreateBookingInput is the payload of a new booking.
type CreateBookingInput struct {
	TutorID     uuid.UUID       `json:"tutorId" validate:"required"`
	CategoryID  uuid.UUID       `json:"categoryId" validate:"required"`
	Subject     string          `json:"subject" validate:"required,notblank,max=100"`
	SessionDate time.Time       `json:"sessionDate" validate:"required"`
	Duration    int             `json:"duration" validate:"min=1,max=480"`
	Price       decimal.Decimal `json:"price"`
	Notes       *string         `json:"notes" validate:"omitnil,max=500"`
}

// BookingService governs booking creation and status transitions.
type BookingService interface {
	Create(ctx context.Context, studentID uuid.UUID, input CreateBookingInput) (*model.Booking, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, actor Actor, status *model.BookingStatus, page pagination.Params) ([]model.Booking, int64, error)
	Transition(ctx context.Context, actor Actor, id uuid.UUID, target model.BookingStatus) (*model.Booking, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*model.Booking, error)
}

type bookingService struct {
	store     repository.Store
	validator *validation.Validator
	now       func() time.Time
}

// NewBookingService creates a new booking service.
func NewBookingService(store repository.Store, validator *validation.Validator) BookingService {
	return &bookingService{
		store:     store,
		validator: validator,
		now:       time.Now,
	}
}

// Create inserts a CONFIRMED booking. The session is not checked against the
// tutor's weekly availability.
func (s *bookingService) Create(ctx context.Context, studentID uuid.UUID, input CreateBookingInput) (*model.Booking, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	if !input.SessionDate.After(s.now()) {
		return nil, errors.Validation("sessionDate must be in the future")
	}
	if input.Price.LessThan(minBookingPrice) || input.Price.GreaterThan(maxBookingPrice) {
		return nil, errors.Validation("price must be between 0.01 and 10000")
	}

	if _, err := s.store.Tutors().FindByID(ctx, input.TutorID); err != nil {
		return nil, lookupErr(err, errors.ErrTutorNotFound, "find tutor")
	}
	if _, err := s.store.Categories().FindByID(ctx, input.CategoryID); err != nil {
		return nil, lookupErr(err, errors.ErrCategoryNotFound, "find category")
	}

	booking := &model.Booking{
		StudentID:   studentID,
		TutorID:     input.TutorID,
		CategoryID:  input.CategoryID,
		Subject:     strings.TrimSpace(input.Subject),
		SessionDate: input.SessionDate.UTC(),
		Duration:    input.Duration,
		Price:       input.Price.Round(2),
		Status:      model.BookingStatusConfirmed,
		Notes:       trimOptional(input.Notes),
	}
	if err := s.store.Bookings().Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	return s.detail(ctx, booking.ID)
}

// Get returns a booking visible to the actor.
func (s *bookingService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.detail(ctx, id)
	if err != nil {
		return nil, err
	}

	owns, err := s.owns(ctx, s.store, actor, booking)
	if err != nil {
		return nil, err
	}
	if !owns && !actor.IsAdmin() {
		return nil, errors.ErrForbidden
	}
	return booking, nil
}

// List returns the actor's bookings: a student's own, a tutor's profile
// bookings, or every booking for an admin.
func (s *bookingService) List(ctx context.Context, actor Actor, status *model.BookingStatus, page pagination.Params) ([]model.Booking, int64, error) {
	if status != nil && !status.Valid() {
		return nil, 0, errors.Validation("status must be one of: CONFIRMED, COMPLETED, CANCELLED")
	}

	filter := repository.BookingFilter{Status: status}
	switch actor.Role {
	case model.RoleStudent:
		filter.StudentID = &actor.UserID
	case model.RoleTutor:
		profile, err := s.store.Tutors().FindByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, 0, lookupErr(err, errors.ErrTutorProfileNotFound, "find tutor profile")
		}
		filter.TutorID = &profile.ID
	case model.RoleAdmin:
	default:
		return nil, 0, errors.ErrForbidden
	}

	bookings, total, err := s.store.Bookings().List(ctx, filter, page.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, total, nil
}

// Transition moves a booking to target under the role rules. The booking row
// stays locked until the status is written.
func (s *bookingService) Transition(ctx context.Context, actor Actor, id uuid.UUID, target model.BookingStatus) (*model.Booking, error) {
	if !target.Valid() {
		return nil, errors.Validation("status must be one of: CONFIRMED, COMPLETED, CANCELLED")
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		booking, err := tx.Bookings().FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookupErr(err, errors.ErrBookingNotFound, "find booking")
		}
		if err := s.authorizeTransition(ctx, tx, actor, booking, target); err != nil {
			return err
		}
		if booking.Status == target {
			return nil
		}
		if err := tx.Bookings().UpdateStatus(ctx, booking.ID, target); err != nil {
			return fmt.Errorf("update booking status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.detail(ctx, id)
}

// Cancel is Transition to CANCELLED.
func (s *bookingService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*model.Booking, error) {
	return s.Transition(ctx, actor, id, model.BookingStatusCancelled)
}

func (s *bookingService) authorizeTransition(ctx context.Context, tx repository.Store, actor Actor, booking *model.Booking, target model.BookingStatus) error {
	if actor.IsAdmin() {
		return nil
	}

	targets, ok := allowedTargets[actor.Role]
	if !ok {
		return errors.ErrForbidden
	}
	owns, err := s.owns(ctx, tx, actor, booking)
	if err != nil {
		return err
	}
	if !owns {
		return errors.ErrForbidden
	}
	if !containsStatus(targets, target) {
		return errors.ErrInvalidTransition
	}
	if booking.Status != model.BookingStatusConfirmed {
		return errors.ErrBookingNotConfirmed
	}
	return nil
}

// owns reports whether the actor is the booking's student or the user
// behind its tutor profile.
func (s *bookingService) owns(ctx context.Context, store repository.Store, actor Actor, booking *model.Booking) (bool, error) {
	switch actor.Role {
	case model.RoleStudent:
		return booking.StudentID == actor.UserID, nil
	case model.RoleTutor:
		profile, err := store.Tutors().FindByUserID(ctx, actor.UserID)
		if err != nil {
			if isNotFound(err) {
				return false, nil
			}
			return false, fmt.Errorf("find tutor profile: %w", err)
		}
		return profile.ID == booking.TutorID, nil
	}
	return false, nil
}

func (s *bookingService) detail(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.store.Bookings().FindDetail(ctx, id)
	if err != nil {
		return nil, lookupErr(err, errors.ErrBookingNotFound, "find booking")
	}
	return booking, nil
}

func containsStatus(list []model.BookingStatus, status model.BookingStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}
