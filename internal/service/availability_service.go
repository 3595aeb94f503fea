package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/repository"
	"skillbridge/internal/validation"
)

// MinSlotMinutes is the shortest availability window a tutor may declare.
const MinSlotMinutes = 30

// AddSlotInput is a weekly availability window.
type AddSlotInput struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
}

// AvailabilityService manages a tutor's recurring weekly slots.
type AvailabilityService interface {
	AddSlot(ctx context.Context, tutorUserID uuid.UUID, input AddSlotInput) (*model.Availability, error)
	DeleteSlot(ctx context.Context, tutorUserID, slotID uuid.UUID) error
	ListOwn(ctx context.Context, tutorUserID uuid.UUID) ([]model.Availability, error)
}

type availabilityService struct {
	store     repository.Store
	validator *validation.Validator
}

// NewAvailabilityService creates a new availability service.
func NewAvailabilityService(store repository.Store, validator *validation.Validator) AvailabilityService {
	return &availabilityService{store: store, validator: validator}
}

// AddSlot stores a slot for the caller's profile. Overlapping slots are allowed.
func (s *availabilityService) AddSlot(ctx context.Context, tutorUserID uuid.UUID, input AddSlotInput) (*model.Availability, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	start, end := minutesOfDay(input.StartTime), minutesOfDay(input.EndTime)
	if start >= end {
		return nil, errors.Validation("endTime must be after startTime")
	}
	if end-start < MinSlotMinutes {
		return nil, errors.Validation(fmt.Sprintf("slot must be at least %d minutes long", MinSlotMinutes))
	}

	profile, err := s.store.Tutors().FindByUserID(ctx, tutorUserID)
	if err != nil {
		return nil, lookupErr(err, errors.ErrTutorProfileNotFound, "find tutor profile")
	}

	slot := &model.Availability{
		TutorID:   profile.ID,
		DayOfWeek: input.DayOfWeek,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	if err := s.store.Availability().Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

func (s *availabilityService) DeleteSlot(ctx context.Context, tutorUserID, slotID uuid.UUID) error {
	slot, err := s.store.Availability().FindByID(ctx, slotID)
	if err != nil {
		return lookupErr(err, errors.ErrSlotNotFound, "find slot")
	}

	profile, err := s.store.Tutors().FindByUserID(ctx, tutorUserID)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("find tutor profile: %w", err)
	}
	if profile == nil || profile.ID != slot.TutorID {
		return errors.ErrForbidden.WithMessage("you can only delete your own availability")
	}

	if err := s.store.Availability().Delete(ctx, slot.ID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (s *availabilityService) ListOwn(ctx context.Context, tutorUserID uuid.UUID) ([]model.Availability, error) {
	profile, err := s.store.Tutors().FindByUserID(ctx, tutorUserID)
	if err != nil {
		return nil, lookupErr(err, errors.ErrTutorProfileNotFound, "find tutor profile")
	}
	slots, err := s.store.Availability().ListByTutor(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// minutesOfDay converts a validated HH:MM value to minutes after midnight.
func minutesOfDay(hhmm string) int {
	h, _ := strconv.Atoi(hhmm[:2])
	m, _ := strconv.Atoi(hhmm[3:])
	return h*60 + m
}
