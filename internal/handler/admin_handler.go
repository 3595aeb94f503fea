package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"skillbridge/internal/errors"
	"skillbridge/internal/model"
	"skillbridge/internal/pagination"
	"skillbridge/internal/repository"
	"skillbridge/internal/service"
)

// AdminHandler handles administration endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ActiveRequest enables or disables a user.
type ActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// Dashboard godoc
// @Summary Marketplace statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.adminService.Dashboard(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role" Enums(STUDENT, TUTOR, ADMIN)
// @Param isActive query bool false "Active flag"
// @Param search query string false "Name or email substring"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} pagination.Response[model.User]
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	filter := repository.UserFilter{Search: c.QueryParam("search")}
	if raw := c.QueryParam("role"); raw != "" {
		role := model.Role(raw)
		filter.Role = &role
	}
	if raw := c.QueryParam("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return respondError(errors.Validation("isActive must be true or false"))
		}
		filter.IsActive = &active
	}

	page := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	users, total, err := h.adminService.ListUsers(c.Request().Context(), filter, page)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, page, total))
}

// GetUser godoc
// @Summary Get user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.adminService.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// SetUserActive godoc
// @Summary Enable or disable a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body ActiveRequest true "Active flag"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [patch]
func (h *AdminHandler) SetUserActive(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req ActiveRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.adminService.SetUserActive(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete user
// @Description Cascades to profile, bookings and reviews. Affected tutor ratings are recomputed.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}

// ListBookings godoc
// @Summary List all bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Booking status" Enums(CONFIRMED, COMPLETED, CANCELLED)
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} pagination.Response[model.Booking]
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c echo.Context) error {
	status, err := statusQuery(c)
	if err != nil {
		return err
	}

	page := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	bookings, total, err := h.adminService.ListBookings(c.Request().Context(), status, page)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(bookings, page, total))
}
