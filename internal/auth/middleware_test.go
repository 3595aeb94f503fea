package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skillbridge/internal/model"
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

func newProtectedServer(svc *JWTService, store TokenStoreInterface, roles ...model.Role) *echo.Echo {
	e := echo.New()
	g := e.Group("", JWTMiddleware(svc, store), RequireRole(roles...))
	g.GET("/protected", func(c echo.Context) error {
		claims, _ := ClaimsFromContext(c)
		return c.String(http.StatusOK, string(claims.Role))
	})
	return e
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	student := &model.User{ID: uuid.New(), Email: "s@example.com", Role: model.RoleStudent}
	token, err := svc.GenerateToken(student)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		roles          []model.Role
		revoked        bool
		expectedStatus int
	}{
		{"valid token and role", "Bearer " + token, []model.Role{model.RoleStudent}, false, http.StatusOK},
		{"missing header", "", []model.Role{model.RoleStudent}, false, http.StatusUnauthorized},
		{"malformed token", "Bearer abc.def.ghi", []model.Role{model.RoleStudent}, false, http.StatusUnauthorized},
		{"revoked token", "Bearer " + token, []model.Role{model.RoleStudent}, true, http.StatusUnauthorized},
		{"wrong role", "Bearer " + token, []model.Role{model.RoleTutor, model.RoleAdmin}, false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockTokenStore)
			store.On("IsAccessTokenBlacklisted", mock.Anything, mock.Anything).Return(tt.revoked, nil).Maybe()

			e := newProtectedServer(svc, store, tt.roles...)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
