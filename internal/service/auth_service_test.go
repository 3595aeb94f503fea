package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skillbridge/internal/auth"
	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/validation"
)

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newTestAuthService(store *memStore, tokens auth.TokenStoreInterface) (*authService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret-at-least-16", time.Hour)
	svc := NewAuthService(store, validation.New(), jwtService, tokens).(*authService)
	svc.now = func() time.Time { return testNow }
	return svc, jwtService
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		expectedRole  model.Role
		expectProfile bool
		expectedError error
		expectedKind  errors.Kind
	}{
		{
			name:         "student by default",
			input:        RegisterInput{Name: "Sam Student", Email: "  Sam@Example.com ", Password: "password123"},
			expectedRole: model.RoleStudent,
		},
		{
			name:          "tutor gets an empty profile",
			input:         RegisterInput{Name: "Tia Tutor", Email: "tia@example.com", Password: "password123", Role: model.RoleTutor},
			expectedRole:  model.RoleTutor,
			expectProfile: true,
		},
		{
			name:          "email already registered",
			input:         RegisterInput{Name: "Existing", Email: "taken@example.com", Password: "password123"},
			expectedError: errors.ErrUserAlreadyExists,
			expectedKind:  errors.KindConflict,
		},
		{
			name:         "admin cannot self-register",
			input:        RegisterInput{Name: "Mallory", Email: "mallory@example.com", Password: "password123", Role: model.RoleAdmin},
			expectedKind: errors.KindValidation,
		},
		{
			name:         "short password",
			input:        RegisterInput{Name: "Shorty", Email: "short@example.com", Password: "12345"},
			expectedKind: errors.KindValidation,
		},
		{
			name:         "malformed email",
			input:        RegisterInput{Name: "Nobody", Email: "not-an-email", Password: "password123"},
			expectedKind: errors.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			existing := model.User{Name: "Existing", Email: "taken@example.com", Role: model.RoleStudent, IsActive: true}
			require.NoError(t, store.Users().Create(context.Background(), &existing))

			svc, jwtService := newTestAuthService(store, new(MockTokenStore))
			user, token, err := svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil || tt.expectedKind != errors.KindInternal {
				require.Error(t, err)
				assert.Equal(t, tt.expectedKind, errors.KindOf(err))
				if tt.expectedError != nil {
					assert.True(t, errors.Is(err, tt.expectedError))
				}
				assert.Nil(t, user)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, normalizeEmail(tt.input.Email), user.Email)
			assert.Equal(t, tt.expectedRole, user.Role)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)

			claims, err := jwtService.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, tt.expectedRole, claims.Role)

			_, err = store.Tutors().FindByUserID(context.Background(), user.ID)
			assert.Equal(t, tt.expectProfile, err == nil)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		active        bool
		expectedError error
	}{
		{name: "successful login", email: "sam@example.com", password: "password123", active: true},
		{name: "email is case-insensitive", email: "SAM@example.com", password: "password123", active: true},
		{name: "padded email", email: "  Sam@Example.com ", password: "password123", active: true},
		{name: "wrong password", email: "sam@example.com", password: "nope-nope", active: true, expectedError: errors.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@example.com", password: "password123", active: true, expectedError: errors.ErrInvalidCredentials},
		{name: "disabled account", email: "sam@example.com", password: "password123", active: false, expectedError: errors.ErrAccountDisabled},
		{name: "disabled account with wrong password", email: "sam@example.com", password: "nope-nope", active: false, expectedError: errors.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newMemStore()
			svc, _ := newTestAuthService(store, new(MockTokenStore))

			registered, _, err := svc.Register(ctx, RegisterInput{Name: "Sam Student", Email: "sam@example.com", Password: "password123"})
			require.NoError(t, err)
			require.NoError(t, store.Users().UpdateActive(ctx, registered.ID, tt.active))

			user, token, err := svc.Login(ctx, LoginInput{Email: tt.email, Password: tt.password})

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, user.ID)
			assert.NotEmpty(t, token)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	tokens := new(MockTokenStore)
	svc, _ := newTestAuthService(newMemStore(), tokens)

	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "token-id",
			ExpiresAt: jwt.NewNumericDate(testNow.Add(30 * time.Minute)),
		},
	}
	tokens.On("BlacklistAccessToken", mock.Anything, "token-id", 30*time.Minute).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), claims))
	tokens.AssertExpectations(t)

	assert.Equal(t, errors.ErrUnauthorized, svc.Logout(context.Background(), &auth.Claims{}))
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := newTestAuthService(store, new(MockTokenStore))

	created, err := svc.EnsureAdmin(ctx, "Admin", "Admin@SkillBridge.com", "admin12345")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "Admin", "admin@skillbridge.com", "admin12345")
	require.NoError(t, err)
	assert.False(t, created)

	user, _, err := svc.Login(ctx, LoginInput{Email: "admin@skillbridge.com", Password: "admin12345"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}
