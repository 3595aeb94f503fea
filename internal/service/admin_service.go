package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"skillbridge/internal/cache"
	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
	"skillbridge/internal/repository"
)

const recentBookingsOnDashboard = 5

// DashboardStats summarizes the marketplace for administrators.
type DashboardStats struct {
	TotalUsers       int64                         `json:"totalUsers"`
	TotalStudents    int64                         `json:"totalStudents"`
	TotalTutors      int64                         `json:"totalTutors"`
	TotalBookings    int64                         `json:"totalBookings"`
	TotalReviews     int64                         `json:"totalReviews"`
	TotalCategories  int                           `json:"totalCategories"`
	BookingsByStatus map[model.BookingStatus]int64 `json:"bookingsByStatus"`
	RecentBookings   []model.Booking               `json:"recentBookings"`
}

// AdminService exposes user moderation and reporting.
type AdminService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context, filter repository.UserFilter, page pagination.Params) ([]model.User, int64, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListBookings(ctx context.Context, status *model.BookingStatus, page pagination.Params) ([]model.Booking, int64, error)
}

type adminService struct {
	store repository.Store
	cache *cache.Client
}

// NewAdminService creates a new admin service.
func NewAdminService(store repository.Store, cache *cache.Client) AdminService {
	return &adminService{store: store, cache: cache}
}

func (s *adminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var (
		stats = &DashboardStats{}
		err   error
	)
	student, tutor := model.RoleStudent, model.RoleTutor

	if stats.TotalUsers, err = s.store.Users().Count(ctx, nil); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalStudents, err = s.store.Users().Count(ctx, &student); err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	if stats.TotalTutors, err = s.store.Users().Count(ctx, &tutor); err != nil {
		return nil, fmt.Errorf("count tutors: %w", err)
	}
	if stats.TotalBookings, err = s.store.Bookings().Count(ctx); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if stats.TotalReviews, err = s.store.Reviews().Count(ctx); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	stats.TotalCategories = len(categories)

	if stats.BookingsByStatus, err = s.store.Bookings().CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}
	if stats.RecentBookings, err = s.store.Bookings().Recent(ctx, recentBookingsOnDashboard); err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, filter repository.UserFilter, page pagination.Params) ([]model.User, int64, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, 0, errors.Validation("role must be one of: STUDENT, TUTOR, ADMIN")
	}
	users, total, err := s.store.Users().List(ctx, filter, page.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *adminService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, errors.ErrUserNotFound, "find user")
	}
	return user, nil
}

func (s *adminService) SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*model.User, error) {
	if err := s.store.Users().UpdateActive(ctx, id, active); err != nil {
		return nil, lookupErr(err, errors.ErrUserNotFound, "update user")
	}
	return s.GetUser(ctx, id)
}

// DeleteUser removes a non-admin user with everything that cascades from it
// and recomputes the rating of every tutor that loses reviews.
func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	var affected []uuid.UUID
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		user, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, errors.ErrUserNotFound, "find user")
		}
		if user.Role == model.RoleAdmin {
			return errors.ErrCannotDeleteAdmin
		}

		// Bookings before tutors, the order review writes lock in.
		if err := tx.Bookings().LockByUser(ctx, id); err != nil {
			return fmt.Errorf("lock bookings: %w", err)
		}
		affected, err = tx.Reviews().TutorIDsByStudent(ctx, id)
		if err != nil {
			return fmt.Errorf("reviewed tutors: %w", err)
		}
		for _, tutorID := range affected {
			if err := lockTutor(ctx, tx, tutorID); err != nil {
				return err
			}
		}

		if err := tx.Users().Delete(ctx, id); err != nil {
			return lookupErr(err, errors.ErrUserNotFound, "delete user")
		}

		for _, tutorID := range affected {
			if err := recomputeTutorRating(ctx, tx, tutorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidateTutor(ctx, s.cache, affected...)
	return nil
}

func (s *adminService) ListBookings(ctx context.Context, status *model.BookingStatus, page pagination.Params) ([]model.Booking, int64, error) {
	if status != nil && !status.Valid() {
		return nil, 0, errors.Validation("status must be one of: CONFIRMED, COMPLETED, CANCELLED")
	}
	bookings, total, err := s.store.Bookings().List(ctx, repository.BookingFilter{Status: status}, page.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, total, nil
}
