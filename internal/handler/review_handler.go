package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillbridge/internal/pagination"
	"skillbridge/internal/service"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReview godoc
// @Summary Review a completed booking
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateReviewInput true "Review"
// @Success 201 {object} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateReviewInput
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Create(c.Request().Context(), a.UserID, req)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, review)
}

// UpdateReview godoc
// @Summary Update own review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body service.UpdateReviewInput true "Fields to change"
// @Success 200 {object} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateReviewInput
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Update(c.Request().Context(), a.UserID, id, req)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, review)
}

// DeleteReview godoc
// @Summary Delete own review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.reviewService.Delete(c.Request().Context(), a.UserID, id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "review deleted"})
}

// GetReview godoc
// @Summary Get review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetReview(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	review, err := h.reviewService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, review)
}

// ListTutorReviews godoc
// @Summary List a tutor's reviews
// @Tags reviews
// @Produce json
// @Param tutorId path string true "Tutor profile ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} pagination.Response[model.Review]
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/tutor/{tutorId} [get]
func (h *ReviewHandler) ListTutorReviews(c echo.Context) error {
	tutorID, err := pathID(c, "tutorId")
	if err != nil {
		return err
	}

	page := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	reviews, total, err := h.reviewService.ListByTutor(c.Request().Context(), tutorID, page)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reviews, page, total))
}
