package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gamehub/internal/middleware"
	"gamehub/internal/service"
)

// maxImageSize caps profile image uploads.
const maxImageSize = 5 << 20

// UserHandler serves profiles and account settings.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ProfileRequest updates username and email. Empty fields are unchanged.
type ProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PasswordRequest changes the password.
type PasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	NewPassword2    string `json:"new_password2" validate:"required"`
}

// ProfileImageRequest sets the profile image reference.
type ProfileImageRequest struct {
	ProfileImage string `json:"profile_image" validate:"required"`
}

// GetProfile godoc
// @Summary Get a user's profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.Profile(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Change username or email
// @Description The username can change once every 30 days.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /me/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.UpdateProfile(c.Request().Context(), middleware.CurrentUser(c), service.ProfileInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PasswordRequest true "Passwords"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /me/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req PasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.ChangePassword(c.Request().Context(), middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword, req.NewPassword2); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// SetProfileImage godoc
// @Summary Set the profile image reference
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileImageRequest true "Image reference"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /me/profile-image [put]
func (h *UserHandler) SetProfileImage(c echo.Context) error {
	var req ProfileImageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.SetProfileImage(c.Request().Context(), middleware.CurrentUser(c), req.ProfileImage)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UploadProfileImage godoc
// @Summary Upload a profile image
// @Description jpg, jpeg, png or gif, up to 5 MiB.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /me/profile-image [post]
func (h *UserHandler) UploadProfileImage(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest("file is required")
	}
	if fh.Size > maxImageSize {
		return badRequest("image must be at most " + strconv.Itoa(maxImageSize>>20) + " MiB")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest("unreadable file")
	}
	defer f.Close()

	user, err := h.svc.UploadProfileImage(c.Request().Context(), middleware.CurrentUser(c), fh.Filename, f, fh.Size)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}
