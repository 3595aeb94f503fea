package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store groups the repositories so that a service can run several of them
// in one transaction.
type Store interface {
	Users() UserRepository
	Tutors() TutorRepository
	Categories() CategoryRepository
	Availability() AvailabilityRepository
	Bookings() BookingRepository
	Reviews() ReviewRepository
	// WithTransaction runs fn against a Store bound to a single database
	// transaction. Returning an error from fn rolls everything back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository                { return NewUserRepository(s.db) }
func (s *gormStore) Tutors() TutorRepository              { return NewTutorRepository(s.db) }
func (s *gormStore) Categories() CategoryRepository       { return NewCategoryRepository(s.db) }
func (s *gormStore) Availability() AvailabilityRepository { return NewAvailabilityRepository(s.db) }
func (s *gormStore) Bookings() BookingRepository          { return NewBookingRepository(s.db) }
func (s *gormStore) Reviews() ReviewRepository            { return NewReviewRepository(s.db) }

// WithTransaction executes a function within a database transaction.
func (s *gormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{db: tx})
	})
}

// forUpdate adds a row-level lock held until the surrounding transaction ends.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
