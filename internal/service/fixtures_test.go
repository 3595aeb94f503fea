package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
	"skillbridge/internal/repository"
	"skillbridge/internal/validation"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// marketplace is a seeded in-memory marketplace: one student, one tutor
// with a profile, one category.
type marketplace struct {
	store     *memStore
	validator *validation.Validator
	student   model.User
	tutor     model.User
	profile   model.TutorProfile
	category  model.Category
}

func newMarketplace(t *testing.T) *marketplace {
	t.Helper()
	m := &marketplace{store: newMemStore(), validator: validation.New()}
	m.student = m.addUser(t, "Sam Student", model.RoleStudent)
	m.tutor = m.addUser(t, "Tia Tutor", model.RoleTutor)
	m.profile = m.addProfile(t, m.tutor.ID)

	m.category = model.Category{Name: "Mathematics"}
	require.NoError(t, m.store.Categories().Create(context.Background(), &m.category))
	return m
}

func (m *marketplace) addUser(t *testing.T, name string, role model.Role) model.User {
	t.Helper()
	u := model.User{Name: name, Email: uuid.NewString() + "@example.com", Role: role, IsActive: true}
	require.NoError(t, m.store.Users().Create(context.Background(), &u))
	return u
}

func (m *marketplace) addProfile(t *testing.T, userID uuid.UUID) model.TutorProfile {
	t.Helper()
	p := model.TutorProfile{UserID: userID, HourlyRate: decimal.NewFromInt(40)}
	require.NoError(t, m.store.Tutors().Create(context.Background(), &p))
	return p
}

func (m *marketplace) addBooking(t *testing.T, studentID, tutorID uuid.UUID, status model.BookingStatus) model.Booking {
	t.Helper()
	b := model.Booking{
		StudentID:   studentID,
		TutorID:     tutorID,
		CategoryID:  m.category.ID,
		Subject:     "Algebra",
		SessionDate: testNow.Add(48 * time.Hour),
		Duration:    60,
		Price:       decimal.NewFromInt(40),
		Status:      status,
	}
	require.NoError(t, m.store.Bookings().Create(context.Background(), &b))
	return b
}

func (m *marketplace) bookingService() *bookingService {
	return &bookingService{store: m.store, validator: m.validator, now: func() time.Time { return testNow }}
}

func (m *marketplace) reviewService() ReviewService {
	return NewReviewService(m.store, m.validator, nil)
}

func (m *marketplace) tutorProfile(t *testing.T, id uuid.UUID) *model.TutorProfile {
	t.Helper()
	p, err := m.store.Tutors().FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (m *marketplace) asStudent() Actor { return Actor{UserID: m.student.ID, Role: model.RoleStudent} }
func (m *marketplace) asTutor() Actor { return Actor{UserID: m.tutor.ID, Role: model.RoleTutor} }

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }
func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// MockTutorRepository is a mock implementation of TutorRepository.
type MockTutorRepository struct {
	mock.Mock
}

func (m *MockTutorRepository) Create(ctx context.Context, profile *model.TutorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockTutorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TutorProfile), args.Error(1)
}

func (m *MockTutorRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TutorProfile), args.Error(1)
}

func (m *MockTutorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TutorProfile), args.Error(1)
}

func (m *MockTutorRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TutorProfile), args.Error(1)
}

func (m *MockTutorRepository) Update(ctx context.Context, profile *model.TutorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockTutorRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, totalReviews int) error {
	args := m.Called(ctx, id, rating, totalReviews)
	return args.Error(0)
}

func (m *MockTutorRepository) List(ctx context.Context, filter repository.TutorFilter, page pagination.Params) ([]model.TutorProfile, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.TutorProfile), args.Get(1).(int64), args.Error(2)
}
