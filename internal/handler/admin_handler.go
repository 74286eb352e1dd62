package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gamehub/internal/middleware"
	"gamehub/internal/service"
)

// AdminHandler serves account moderation: bans, roles and the user list.
type AdminHandler struct {
	bans  service.BanService
	users service.UserService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(bans service.BanService, users service.UserService) *AdminHandler {
	return &AdminHandler{bans: bans, users: users}
}

// BanRequest is a ban order. Moderator bans always last 24 hours;
// duration_days and permanent are honored for admins only.
type BanRequest struct {
	Reason       string `json:"reason" validate:"max=255"`
	DurationDays int    `json:"duration_days"`
	Permanent    bool   `json:"permanent"`
}

// UnbanRequest lifts a ban.
type UnbanRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

// RoleRequest assigns a role.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

// Ban godoc
// @Summary Ban a user
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body BanRequest true "Ban terms"
// @Success 201 {object} model.UserBan
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /moderator/users/{id}/ban [post]
func (h *AdminHandler) Ban(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req BanRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	record, err := h.bans.Ban(c.Request().Context(), middleware.CurrentUser(c), id, service.BanRequest{
		Reason:       req.Reason,
		DurationDays: req.DurationDays,
		Permanent:    req.Permanent,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, record)
}

// BanHistory godoc
// @Summary A user's ban and unban records, newest first
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {array} model.UserBan
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /moderator/users/{id}/bans [get]
func (h *AdminHandler) BanHistory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	history, err := h.bans.History(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, history)
}

// Unban godoc
// @Summary Lift a user's ban
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UnbanRequest false "Reason"
// @Success 201 {object} model.UserBan
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/unban [post]
func (h *AdminHandler) Unban(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UnbanRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	record, err := h.bans.Unban(c.Request().Context(), middleware.CurrentUser(c), id, req.Reason)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, record)
}

// ListUsers godoc
// @Summary List users
// @Description Newest first, 20 per page.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, from 1"
// @Success 200 {object} model.Page[model.User]
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest("invalid page")
		}
		page = n
	}
	users, err := h.users.List(c.Request().Context(), middleware.CurrentUser(c), page)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// AssignRole godoc
// @Summary Assign a role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body RoleRequest true "Role"
// @Success 200 {object} service.RoleChange
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) AssignRole(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req RoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	change, err := h.users.AssignRole(c.Request().Context(), middleware.CurrentUser(c), id, req.Role)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, change)
}
