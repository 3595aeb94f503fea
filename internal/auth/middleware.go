package auth

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"skillbridge/internal/errors"
	"skillbridge/internal/model"
)

const contextKey = "user"

// JWTMiddleware verifies the bearer token with the JWT service and rejects
// revoked tokens. Verified claims are stored on the echo context.
func JWTMiddleware(jwtService *JWTService, tokenStore TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  contextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				return nil, err
			}
			revoked, _ := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if revoked {
				return nil, errors.New("token revoked")
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "invalid or missing authentication token",
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// ClaimsFromContext returns the verified claims of the current request.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(contextKey).(*Claims)
	return claims, ok && claims != nil
}

// RequireRole rejects requests whose token role is not one of roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: errors.ErrUnauthorized.Message,
					Code:  errors.ErrUnauthorized.Code,
				})
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: errors.ErrForbidden.Message,
				Code:  errors.ErrForbidden.Code,
			})
		}
	}
}
