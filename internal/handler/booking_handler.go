package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
	"skillbridge/internal/service"
)

// BookingHandler handles booking endpoints.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// StatusRequest changes a booking's status.
type StatusRequest struct {
	Status model.BookingStatus `json:"status" validate:"required,oneof=CONFIRMED COMPLETED CANCELLED"`
}

// CreateBooking godoc
// @Summary Book a session
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateBookingInput true "Booking"
// @Success 201 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateBookingInput
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.bookingService.Create(c.Request().Context(), a.UserID, req)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// ListBookings godoc
// @Summary List own bookings
// @Description Students see their bookings, tutors their profile's bookings, admins all.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Booking status" Enums(CONFIRMED, COMPLETED, CANCELLED)
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} pagination.Response[model.Booking]
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	status, err := statusQuery(c)
	if err != nil {
		return err
	}

	page := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	bookings, total, err := h.bookingService.List(c.Request().Context(), a, status, page)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(bookings, page, total))
}

// GetBooking godoc
// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Get(c.Request().Context(), a, id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// UpdateStatus godoc
// @Summary Change booking status
// @Description Students may cancel, tutors may complete or cancel, admins may set any status.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body StatusRequest true "Target status"
// @Success 200 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /bookings/{id} [patch]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.bookingService.Transition(c.Request().Context(), a, id, req.Status)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// CancelBooking godoc
// @Summary Cancel booking
// @Description Soft delete: the booking is kept with status CANCELLED.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Cancel(c.Request().Context(), a, id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, booking)
}
