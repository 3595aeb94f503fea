package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillbridge/internal/errors"
	"skillbridge/internal/model"
)

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   model.Role
}

// IsAdmin reports whether the actor has unrestricted access.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// lookupErr turns a missing row into notFound and wraps anything else.
func lookupErr(err error, notFound *errors.AppError, op string) error {
	if isNotFound(err) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// trimOptional trims s and maps an empty result to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
