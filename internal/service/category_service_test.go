package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillbridge/internal/errors"
	"skillbridge/internal/model"
)

func TestCategoryService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         CategoryInput
		expectedError error
		expectedKind  errors.Kind
	}{
		{name: "new category", input: CategoryInput{Name: " Physics ", Description: strPtr("Mechanics and more")}},
		{name: "duplicate name", input: CategoryInput{Name: "Mathematics"}, expectedError: errors.ErrCategoryExists, expectedKind: errors.KindConflict},
		{name: "blank name", input: CategoryInput{Name: "  "}, expectedKind: errors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMarketplace(t)
			svc := NewCategoryService(m.store, m.validator)

			category, err := svc.Create(context.Background(), tt.input)

			if tt.expectedKind != errors.KindInternal {
				require.Error(t, err)
				assert.Equal(t, tt.expectedKind, errors.KindOf(err))
				if tt.expectedError != nil {
					assert.Equal(t, tt.expectedError, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Physics", category.Name)
		})
	}
}

func TestCategoryService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	m := newMarketplace(t)
	svc := NewCategoryService(m.store, m.validator)

	physics, err := svc.Create(ctx, CategoryInput{Name: "Physics"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, physics.ID, CategoryUpdateInput{Name: strPtr("Mathematics")})
	assert.Equal(t, errors.ErrCategoryExists, err)

	renamed, err := svc.Update(ctx, physics.ID, CategoryUpdateInput{Name: strPtr("Physics"), Description: strPtr("Mechanics")})
	require.NoError(t, err)
	assert.Equal(t, "Mechanics", *renamed.Description)

	m.addBooking(t, m.student.ID, m.profile.ID, model.BookingStatusConfirmed)
	assert.Equal(t, errors.ErrCategoryInUse, svc.Delete(ctx, m.category.ID))

	require.NoError(t, svc.Delete(ctx, physics.ID))
	_, err = svc.Get(ctx, physics.ID)
	assert.Equal(t, errors.ErrCategoryNotFound, err)

	assert.Equal(t, errors.ErrCategoryNotFound, svc.Delete(ctx, uuid.New()))

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
