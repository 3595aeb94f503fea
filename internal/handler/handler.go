package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skillbridge/internal/auth"
	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/service"
)

// MessageResponse is returned by endpoints without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError converts a service error into an echo error carrying an ErrorResponse.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// normalizer is implemented by payloads that canonicalize fields before
// validation.
type normalizer interface {
	Normalize()
}

// bind decodes and validates the request body into dst.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST_BODY")
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	if err := c.Validate(dst); err != nil {
		return respondError(err)
	}
	return nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, badRequest("invalid "+name, "INVALID_UUID")
	}
	return id, nil
}

// actor returns the authenticated caller. Routes using it sit behind the JWT middleware.
func actor(c echo.Context) (service.Actor, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return service.Actor{}, respondError(errors.ErrUnauthorized)
	}
	return service.Actor{UserID: claims.UserID, Role: claims.Role}, nil
}

func statusQuery(c echo.Context) (*model.BookingStatus, error) {
	raw := c.QueryParam("status")
	if raw == "" {
		return nil, nil
	}
	status := model.BookingStatus(raw)
	if !status.Valid() {
		return nil, respondError(errors.Validation("status must be one of: CONFIRMED, COMPLETED, CANCELLED"))
	}
	return &status, nil
}
