package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamehub/internal/middleware"
	"gamehub/internal/service"
)

// DashboardHandler serves the moderator and admin overviews.
type DashboardHandler struct {
	dashboard service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Moderator godoc
// @Summary Moderator dashboard
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ModeratorDashboard
// @Failure 403 {object} errors.ErrorResponse
// @Router /moderator/dashboard [get]
func (h *DashboardHandler) Moderator(c echo.Context) error {
	d, err := h.dashboard.Moderator(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, d)
}

// Admin godoc
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AdminDashboard
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	d, err := h.dashboard.Admin(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, d)
}
