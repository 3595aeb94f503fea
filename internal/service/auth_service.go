package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"skillbridge/internal/auth"
	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/repository"
	"skillbridge/internal/validation"
)

const bcryptCost = 10

// RegisterInput is the payload of a new account. ADMIN accounts are only
// created by the seed command.
type RegisterInput struct {
	Name     string     `json:"name" validate:"required,notblank,min=2,max=100"`
	Email    string     `json:"email" validate:"required,email,max=100"`
	Password string     `json:"password" validate:"required,min=6,max=100"`
	Phone    *string    `json:"phone" validate:"omitnil,max=30"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=STUDENT TUTOR"`
}

// Normalize trims the name and canonicalizes the email before validation.
func (in *RegisterInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
}

// LoginInput is a credential pair.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) Normalize() {
	in.Email = normalizeEmail(in.Email)
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, input LoginInput) (*model.User, string, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}

type authService struct {
	store      repository.Store
	validator  *validation.Validator
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(store repository.Store, validator *validation.Validator, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		store:      store,
		validator:  validator,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

// Register creates a user with a hashed password. A TUTOR gets an empty
// profile in the same transaction.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	input.Normalize()
	if err := s.validator.Struct(input); err != nil {
		return nil, "", err
	}
	if input.Role == "" {
		input.Role = model.RoleStudent
	}

	user := &model.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    trimOptional(input.Phone),
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.create(ctx, user, input.Password); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and returns a fresh token.
func (s *authService) Login(ctx context.Context, input LoginInput) (*model.User, string, error) {
	input.Normalize()
	if err := s.validator.Struct(input); err != nil {
		return nil, "", err
	}

	user, err := s.store.Users().FindByEmail(ctx, input.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, "", errors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", errors.ErrAccountDisabled
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, errors.ErrUserNotFound, "find user")
	}
	return user, nil
}

// Logout revokes the presented token until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return errors.ErrUnauthorized
	}
	if err := s.tokenStore.BlacklistAccessToken(ctx, claims.ID, claims.TTL(s.now())); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// EnsureAdmin creates the admin account unless the email is already taken.
// It reports whether a user was created.
func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !isNotFound(err) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	admin := &model.User{
		Name:     name,
		Email:    email,
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := s.create(ctx, admin, password); err != nil {
		return false, err
	}
	return true, nil
}

func (s *authService) create(ctx context.Context, user *model.User, password string) error {
	if _, err := s.store.Users().FindByEmail(ctx, user.Email); err == nil {
		return errors.ErrUserAlreadyExists
	} else if !isNotFound(err) {
		return fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)

	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.ErrUserAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		if user.Role != model.RoleTutor {
			return nil
		}

		profile := &model.TutorProfile{UserID: user.ID}
		if err := tx.Tutors().Create(ctx, profile); err != nil {
			return fmt.Errorf("create tutor profile: %w", err)
		}
		user.TutorProfile = profile
		return nil
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
