package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
)

func TestReviewService_RatingFollowsReviews(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	svc := m.reviewService()

	booking := m.addBooking(t, m.student.ID, m.profile.ID, model.BookingStatusCompleted)

	review, err := svc.Create(ctx, m.student.ID, CreateReviewInput{BookingID: booking.ID, Rating: 5, Comment: strPtr("  Great session  ")})
	require.NoError(t, err)
	assert.Equal(t, "Great session", *review.Comment)

	profile := m.tutorProfile(t, m.profile.ID)
	assert.Equal(t, "5", profile.Rating.String())
	assert.Equal(t, 1, profile.TotalReviews)

	_, err = svc.Update(ctx, m.student.ID, review.ID, UpdateReviewInput{Rating: intPtr(3)})
	require.NoError(t, err)
	profile = m.tutorProfile(t, m.profile.ID)
	assert.Equal(t, "3", profile.Rating.String())
	assert.Equal(t, 1, profile.TotalReviews)

	require.NoError(t, svc.Delete(ctx, m.student.ID, review.ID))
	profile = m.tutorProfile(t, m.profile.ID)
	assert.True(t, profile.Rating.IsZero())
	assert.Equal(t, 0, profile.TotalReviews)
}

func TestReviewService_AverageAcrossStudents(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	svc := m.reviewService()
	other := m.addUser(t, "Olive Other", model.RoleStudent)

	first := m.addBooking(t, m.student.ID, m.profile.ID, model.BookingStatusCompleted)
	second := m.addBooking(t, other.ID, m.profile.ID, model.BookingStatusCompleted)

	_, err := svc.Create(ctx, m.student.ID, CreateReviewInput{BookingID: first.ID, Rating: 4})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, CreateReviewInput{BookingID: second.ID, Rating: 5})
	require.NoError(t, err)

	profile := m.tutorProfile(t, m.profile.ID)
	assert.True(t, decimal.RequireFromString("4.50").Equal(profile.Rating))
	assert.Equal(t, 2, profile.TotalReviews)

	reviews, total, err := svc.ListByTutor(ctx, m.profile.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reviews, 2)
}

func TestReviewService_CreateRejects(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(t *testing.T, m *marketplace) (uuid.UUID, CreateReviewInput)
		wantErr  *errors.AppError
		wantKind errors.Kind
	}{
		{
			name: "booking not completed",
			setup: func(t *testing.T, m *marketplace) (uuid.UUID, CreateReviewInput) {
				b := m.addBooking(t, m.student.ID, m.profile.ID, model.BookingStatusConfirmed)
				return m.student.ID, CreateReviewInput{BookingID: b.ID, Rating: 4}
			},
			wantErr:  errors.ErrBookingNotCompleted,
			wantKind: errors.KindConflict,
		},
		{
			name: "another student's booking",
			setup: func(t *testing.T, m *marketplace) (uuid.UUID, CreateReviewInput) {
				other := m.addUser(t, "Olive Other", model.RoleStudent)
				b := m.addBooking(t, other.ID, m.profile.ID, model.BookingStatusCompleted)
				return m.student.ID, CreateReviewInput{BookingID: b.ID, Rating: 4}
			},
			wantErr:  errors.ErrForbidden,
			wantKind: errors.KindForbidden,
		},
		{
			name: "unknown booking",
			setup: func(t *testing.T, m *marketplace) (uuid.UUID, CreateReviewInput) {
				return m.student.ID, CreateReviewInput{BookingID: uuid.New(), Rating: 4}
			},
			wantErr:  errors.ErrBookingNotFound,
			wantKind: errors.KindNotFound,
		},
		{
			name: "rating out of range",
			setup: func(t *testing.T, m *marketplace) (uuid.UUID, CreateReviewInput) {
				b := m.addBooking(t, m.student.ID, m.profile.ID, model.BookingStatusCompleted)
				return m.student.ID, CreateReviewInput{BookingID: b.ID, Rating: 6}
			},
			wantKind: errors.KindValidation,
		},
		{
			name: "blank comment",
			setup: func(t *testing.T, m *marketplace) (uuid.UUID, CreateReviewInput) {
				b := m.addBooking(t, m.student.ID, m.profile.ID, model.BookingStatusCompleted)
				return m.student.ID, CreateReviewInput{BookingID: b.ID, Rating: 4, Comment: strPtr("   ")}
			},
			wantKind: errors.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMarketplace(t)
			studentID, input := tt.setup(t, m)

			_, err := m.reviewService().Create(ctx, studentID, input)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, errors.KindOf(err))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}

			profile := m.tutorProfile(t, m.profile.ID)
			assert.Equal(t, 0, profile.TotalReviews)
		})
	}
}

func TestReviewService_DuplicateReview(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	svc := m.reviewService()
	booking := m.addBooking(t, m.student.ID, m.profile.ID, model.BookingStatusCompleted)

	_, err := svc.Create(ctx, m.student.ID, CreateReviewInput{BookingID: booking.ID, Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(ctx, m.student.ID, CreateReviewInput{BookingID: booking.ID, Rating: 1})
	assert.True(t, errors.Is(err, errors.ErrReviewExists))

	profile := m.tutorProfile(t, m.profile.ID)
	assert.Equal(t, 1, profile.TotalReviews)
	assert.Equal(t, "5", profile.Rating.String())
}

func TestReviewService_ModifyRequiresAuthor(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	svc := m.reviewService()
	booking := m.addBooking(t, m.student.ID, m.profile.ID, model.BookingStatusCompleted)
	review, err := svc.Create(ctx, m.student.ID, CreateReviewInput{BookingID: booking.ID, Rating: 5})
	require.NoError(t, err)

	intruder := m.addUser(t, "Ivan Intruder", model.RoleStudent)

	_, err = svc.Update(ctx, intruder.ID, review.ID, UpdateReviewInput{Rating: intPtr(1)})
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))

	err = svc.Delete(ctx, intruder.ID, review.ID)
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))

	err = svc.Delete(ctx, m.student.ID, uuid.New())
	assert.True(t, errors.Is(err, errors.ErrReviewNotFound))

	assert.Equal(t, "5", m.tutorProfile(t, m.profile.ID).Rating.String())
}

func TestReviewService_RollsBackWhenRatingUpdateFails(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	booking := m.addBooking(t, m.student.ID, m.profile.ID, model.BookingStatusCompleted)

	tutors := new(MockTutorRepository)
	profile := m.profile
	tutors.On("FindByIDForUpdate", mock.Anything, m.profile.ID).Return(&profile, nil)
	tutors.On("UpdateRating", mock.Anything, m.profile.ID, mock.AnythingOfType("decimal.Decimal"), 1).
		Return(errors.New("connection lost"))
	m.store.tutorsRepo = tutors

	_, err := m.reviewService().Create(ctx, m.student.ID, CreateReviewInput{BookingID: booking.ID, Rating: 5})
	require.Error(t, err)
	assert.Equal(t, errors.KindInternal, errors.KindOf(err))
	tutors.AssertExpectations(t)

	_, err = m.store.Reviews().FindByBookingID(ctx, booking.ID)
	assert.True(t, isNotFound(err), "review must not survive a failed rating update")
}

func TestReviewService_ListByUnknownTutor(t *testing.T) {
	m := newMarketplace(t)

	_, _, err := m.reviewService().ListByTutor(context.Background(), uuid.New(), pagination.Params{})
	assert.True(t, errors.Is(err, errors.ErrTutorNotFound))
}

func TestBookingReview_EndToEnd(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	bookings := m.bookingService()
	reviews := m.reviewService()

	booking, err := bookings.Create(ctx, m.student.ID, CreateBookingInput{
		TutorID:     m.profile.ID,
		CategoryID:  m.category.ID,
		Subject:     "Algebra",
		SessionDate: testNow.Add(24 * time.Hour),
		Duration:    60,
		Price:       decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, booking.Status)

	// a confirmed session cannot be reviewed yet
	_, err = reviews.Create(ctx, m.student.ID, CreateReviewInput{BookingID: booking.ID, Rating: 5})
	assert.True(t, errors.Is(err, errors.ErrBookingNotCompleted))

	completed, err := bookings.Transition(ctx, m.asTutor(), booking.ID, model.BookingStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, completed.Status)

	review, err := reviews.Create(ctx, m.student.ID, CreateReviewInput{BookingID: booking.ID, Rating: 5})
	require.NoError(t, err)
	profile := m.tutorProfile(t, m.profile.ID)
	assert.Equal(t, "5.00", profile.Rating.StringFixed(2))
	assert.Equal(t, 1, profile.TotalReviews)

	require.NoError(t, reviews.Delete(ctx, m.student.ID, review.ID))
	profile = m.tutorProfile(t, m.profile.ID)
	assert.Equal(t, "0.00", profile.Rating.StringFixed(2))
	assert.Equal(t, 0, profile.TotalReviews)
}
