package router

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"gamehub/internal/auth"
	apperrors "gamehub/internal/errors"
	"gamehub/internal/handler"
	appmw "gamehub/internal/middleware"
	"gamehub/internal/policy"
	"gamehub/internal/service"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth      *handler.AuthHandler
	Games     *handler.GameHandler
	Community *handler.CommunityHandler
	Users     *handler.UserHandler
	Admin     *handler.AdminHandler
	Dashboard *handler.DashboardHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	logger *zap.Logger,
	tokens *auth.SessionTokens,
	authService service.AuthService,
	banService service.BanService,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler(e, logger)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api",
		appmw.SessionToken(tokens),
		appmw.Identity(authService, logger),
		appmw.RequestLogger(logger),
	)

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/games", h.Games.Search)
	api.GET("/games/genres", h.Games.Genres)
	api.GET("/games/:id", h.Games.Get)
	api.GET("/users/:id", h.Users.GetProfile)

	api.GET("/auth/me", h.Auth.Me, appmw.RequireCapability(policy.CapAuthenticated))

	// Signed-in, not banned. Applied per route: an empty-prefix group would
	// claim every unknown /api path.
	member := []echo.MiddlewareFunc{
		appmw.RequireCapability(policy.CapAuthenticated),
		appmw.RequireNotBanned(banService),
	}
	api.POST("/games/:id/comments", h.Community.AddComment, member...)
	api.POST("/games/:id/reactions", h.Community.React, member...)
	api.PUT("/me/profile", h.Users.UpdateProfile, member...)
	api.PUT("/me/password", h.Users.ChangePassword, member...)
	api.PUT("/me/profile-image", h.Users.SetProfileImage, member...)
	api.POST("/me/profile-image", h.Users.UploadProfileImage, member...)

	// Moderator and above
	mod := api.Group("/moderator",
		appmw.RequireCapability(policy.CapModerator),
		appmw.RequireNotBanned(banService),
	)
	mod.GET("/dashboard", h.Dashboard.Moderator)
	mod.POST("/games", h.Games.Create)
	mod.PUT("/games/:id", h.Games.Update)
	mod.DELETE("/games/:id", h.Games.Delete)
	mod.DELETE("/comments/:id", h.Community.DeleteComment)
	mod.POST("/users/:id/ban", h.Admin.Ban)
	mod.GET("/users/:id/bans", h.Admin.BanHistory)

	// Admin only
	admin := api.Group("/admin",
		appmw.RequireCapability(policy.CapAdmin),
		appmw.RequireNotBanned(banService),
	)
	admin.GET("/dashboard", h.Dashboard.Admin)
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id/role", h.Admin.AssignRole)
	admin.POST("/users/:id/unban", h.Admin.Unban)
}

// errorHandler logs server-side failures with their cause before the
// default handler writes the response.
func errorHandler(e *echo.Echo, logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code >= http.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("path", c.Path()),
					zap.Int("status", he.Code),
					zap.NamedError("cause", he.Internal),
				)
			}
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			httpErr := apperrors.MapErrorToHTTP(err)
			err = echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds a validator that reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface. Field failures come back as
// an errors.ValidationError.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &apperrors.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
