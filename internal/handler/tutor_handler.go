package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"skillbridge/internal/errors"
	"skillbridge/internal/pagination"
	"skillbridge/internal/repository"
	"skillbridge/internal/service"
)

// TutorHandler handles tutor profile endpoints.
type TutorHandler struct {
	tutorService   service.TutorService
	bookingService service.BookingService
}

// NewTutorHandler creates a new tutor handler.
func NewTutorHandler(tutorService service.TutorService, bookingService service.BookingService) *TutorHandler {
	return &TutorHandler{tutorService: tutorService, bookingService: bookingService}
}

// ListTutors godoc
// @Summary List tutors
// @Description Ordered by rating. subject matches case-insensitively.
// @Tags tutors
// @Produce json
// @Param subject query string false "Subject"
// @Param minRating query number false "Minimum rating"
// @Param maxPrice query number false "Maximum hourly rate"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} pagination.Response[model.TutorProfile]
// @Failure 400 {object} errors.ErrorResponse
// @Router /tutors [get]
func (h *TutorHandler) ListTutors(c echo.Context) error {
	filter := repository.TutorFilter{Subject: c.QueryParam("subject")}
	var err error
	if filter.MinRating, err = decimalQuery(c, "minRating"); err != nil {
		return err
	}
	if filter.MaxPrice, err = decimalQuery(c, "maxPrice"); err != nil {
		return err
	}

	page := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	tutors, total, err := h.tutorService.List(c.Request().Context(), filter, page)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(tutors, page, total))
}

// GetTutor godoc
// @Summary Get tutor profile
// @Description Profile with user, availability and the latest reviews.
// @Tags tutors
// @Produce json
// @Param id path string true "Tutor profile ID"
// @Success 200 {object} model.TutorProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tutors/{id} [get]
func (h *TutorHandler) GetTutor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.tutorService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update own tutor profile
// @Tags tutors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "Profile fields"
// @Success 200 {object} model.TutorProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tutors/profile [put]
func (h *TutorHandler) UpdateProfile(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.UpdateProfileInput
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.tutorService.UpdateProfile(c.Request().Context(), a.UserID, req)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// MyBookings godoc
// @Summary List bookings of own tutor profile
// @Tags tutors
// @Produce json
// @Security BearerAuth
// @Param status query string false "Booking status" Enums(CONFIRMED, COMPLETED, CANCELLED)
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} pagination.Response[model.Booking]
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tutors/me/bookings [get]
func (h *TutorHandler) MyBookings(c echo.Context) error {
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

func decimalQuery(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, respondError(errors.Validation(name + " must be a number"))
	}
	return &v, nil
}
