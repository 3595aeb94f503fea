package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/repository"
	"skillbridge/internal/validation"
)

// CategoryInput creates a category.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required,notblank,max=50"`
	Description *string `json:"description" validate:"omitnil,max=500"`
}

// CategoryUpdateInput changes a category. Nil fields are kept.
type CategoryUpdateInput struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=50"`
	Description *string `json:"description" validate:"omitnil,max=500"`
}

// CategoryService manages booking categories.
type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, input CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryUpdateInput) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	store     repository.Store
	validator *validation.Validator
}

// NewCategoryService creates a new category service.
func NewCategoryService(store repository.Store, validator *validation.Validator) CategoryService {
	return &categoryService{store: store, validator: validator}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, errors.ErrCategoryNotFound, "find category")
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        name,
		Description: trimOptional(input.Description),
	}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input CategoryUpdateInput) (*model.Category, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = trimOptional(input.Description)
	}

	if err := s.store.Categories().Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrCategoryExists
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// Delete removes an unused category.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	inUse, err := s.store.Bookings().CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count category bookings: %w", err)
	}
	if inUse > 0 {
		return errors.ErrCategoryInUse
	}

	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *categoryService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.store.Categories().FindByName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("find category: %w", err)
	}
	if existing.ID != self {
		return errors.ErrCategoryExists
	}
	return nil
}
