package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillbridge/internal/service"
)

// AvailabilityHandler handles a tutor's weekly slots.
type AvailabilityHandler struct {
	availabilityService service.AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler.
func NewAvailabilityHandler(availabilityService service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// ListSlots godoc
// @Summary List own availability
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Availability
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /availability [get]
func (h *AvailabilityHandler) ListSlots(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	slots, err := h.availabilityService.ListOwn(c.Request().Context(), a.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, slots)
}

// AddSlot godoc
// @Summary Add availability slot
// @Description dayOfWeek 0 is Sunday. Slots last at least 30 minutes.
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AddSlotInput true "Slot"
// @Success 201 {object} model.Availability
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /availability [post]
func (h *AvailabilityHandler) AddSlot(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.AddSlotInput
	if err := bind(c, &req); err != nil {
		return err
	}

	slot, err := h.availabilityService.AddSlot(c.Request().Context(), a.UserID, req)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, slot)
}

// DeleteSlot godoc
// @Summary Delete availability slot
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /availability/{id} [delete]
func (h *AvailabilityHandler) DeleteSlot(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.availabilityService.DeleteSlot(c.Request().Context(), a.UserID, id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "availability slot deleted"})
}
