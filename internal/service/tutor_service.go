package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"skillbridge/internal/cache"
	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
	"skillbridge/internal/repository"
	"skillbridge/internal/validation"
)

var (
	minHourlyRate = decimal.NewFromInt(5)
	maxHourlyRate = decimal.NewFromInt(10000)
)

// UpdateProfileInput holds the client-editable profile fields. Nil fields are kept.
type UpdateProfileInput struct {
	Bio            *string          `json:"bio" validate:"omitnil,max=2000"`
	HourlyRate     *decimal.Decimal `json:"hourlyRate"`
	Subjects       []string         `json:"subjects" validate:"omitnil,max=20,dive,notblank,max=100"`
	Qualifications *string          `json:"qualifications" validate:"omitnil,max=1000"`
	Experience     *int             `json:"experience" validate:"omitnil,min=0,max=100"`
}

// TutorService exposes tutor profiles.
type TutorService interface {
	List(ctx context.Context, filter repository.TutorFilter, page pagination.Params) ([]model.TutorProfile, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*model.TutorProfile, error)
}

type tutorService struct {
	store     repository.Store
	validator *validation.Validator
	cache     *cache.Client
}

// NewTutorService creates a new tutor service.
func NewTutorService(store repository.Store, validator *validation.Validator, cache *cache.Client) TutorService {
	return &tutorService{
		store:     store,
		validator: validator,
		cache:     cache,
	}
}

func (s *tutorService) List(ctx context.Context, filter repository.TutorFilter, page pagination.Params) ([]model.TutorProfile, int64, error) {
	tutors, total, err := s.store.Tutors().List(ctx, filter, page.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list tutors: %w", err)
	}
	return tutors, total, nil
}

// Get returns a tutor with availability and latest reviews, cached in redis.
func (s *tutorService) Get(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	var cached model.TutorProfile
	if s.cache.GetJSON(ctx, tutorCacheKey(id), &cached) {
		return &cached, nil
	}

	profile, err := s.store.Tutors().FindDetail(ctx, id)
	if err != nil {
		return nil, lookupErr(err, errors.ErrTutorNotFound, "find tutor")
	}

	_ = s.cache.SetJSON(ctx, tutorCacheKey(id), profile, tutorCacheTTL)
	return profile, nil
}

func (s *tutorService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*model.TutorProfile, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	if input.HourlyRate != nil && (input.HourlyRate.LessThan(minHourlyRate) || input.HourlyRate.GreaterThan(maxHourlyRate)) {
		return nil, errors.Validation("hourlyRate must be between 5 and 10000")
	}

	profile, err := s.store.Tutors().FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, errors.ErrTutorProfileNotFound, "find tutor profile")
	}

	if input.Bio != nil {
		profile.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.HourlyRate != nil {
		profile.HourlyRate = input.HourlyRate.Round(2)
	}
	if input.Subjects != nil {
		profile.Subjects = normalizeSubjects(input.Subjects)
	}
	if input.Qualifications != nil {
		profile.Qualifications = strings.TrimSpace(*input.Qualifications)
	}
	if input.Experience != nil {
		profile.Experience = *input.Experience
	}

	if err := s.store.Tutors().Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update tutor profile: %w", err)
	}

	invalidateTutor(ctx, s.cache, profile.ID)
	return profile, nil
}

// normalizeSubjects lowercases, trims and de-duplicates subjects so the
// subject filter can match case-insensitively.
func normalizeSubjects(subjects []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(subjects))
	seen := make(map[string]struct{}, len(subjects))
	for _, subject := range subjects {
		v := strings.ToLower(strings.TrimSpace(subject))
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
