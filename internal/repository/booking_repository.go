package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
)

// BookingFilter narrows booking listings. Nil fields are not applied.
type BookingFilter struct {
	StudentID *uuid.UUID
	TutorID   *uuid.UUID
	Status    *model.BookingStatus
}

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	LockByUser(ctx context.Context, userID uuid.UUID) error
	FindDetail(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error
	List(ctx context.Context, filter BookingFilter, page pagination.Params) ([]model.Booking, int64, error)
	Recent(ctx context.Context, n int) ([]model.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// FindByID finds a booking by ID.
func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate finds a booking by ID with row-level lock for update.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// LockByUser row-locks every booking the user takes part in, as student or
// through their tutor profile.
func (r *bookingRepository) LockByUser(ctx context.Context, userID uuid.UUID) error {
	var ids []uuid.UUID
	return lockByUserQuery(r.db.WithContext(ctx), userID).Pluck("id", &ids).Error
}

func lockByUserQuery(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	profiles := db.Session(&gorm.Session{NewDB: true}).Model(&model.TutorProfile{}).Select("id").Where("user_id = ?", userID)
	return forUpdate(db.Model(&model.Booking{})).
		Where("student_id = ? OR tutor_id IN (?)", userID, profiles).
		Order("id")
}

// FindDetail loads a booking with its participants, category and review.
func (r *bookingRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := withBookingRelations(r.db.WithContext(ctx)).
		Preload("Review").
		Where("id = ?", id).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatus sets the status of a booking.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	return r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// List returns one page of bookings, latest session first.
func (r *bookingRepository) List(ctx context.Context, filter BookingFilter, page pagination.Params) ([]model.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Booking{})
	if filter.StudentID != nil {
		q = q.Where("student_id = ?", *filter.StudentID)
	}
	if filter.TutorID != nil {
		q = q.Where("tutor_id = ?", *filter.TutorID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []model.Booking
	if err := withBookingRelations(q).
		Order("session_date DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Recent returns the n most recently created bookings.
func (r *bookingRepository) Recent(ctx context.Context, n int) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := withBookingRelations(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Limit(n).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Count counts all bookings.
func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).Count(&n).Error
	return n, err
}

// CountByStatus groups booking counts by status.
func (r *bookingRepository) CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error) {
	var rows []struct {
		Status model.BookingStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountByCategory counts bookings that reference a category.
func (r *bookingRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}

func withBookingRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Student", selectPublicUser).
		Preload("Tutor").
		Preload("Tutor.User", selectPublicUser).
		Preload("Category")
}
