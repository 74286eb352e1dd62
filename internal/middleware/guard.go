package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamehub/internal/errors"
	"gamehub/internal/policy"
	"gamehub/internal/service"
)

func unauthenticated() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "authentication required",
		Code:  "UNAUTHENTICATED",
	})
}

func mapError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// RequireCapability rejects requesters whose role is below c.
func RequireCapability(c policy.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			user := CurrentUser(ctx)
			if user == nil {
				return unauthenticated()
			}
			if err := policy.Require(user, c); err != nil {
				return mapError(err)
			}
			return next(ctx)
		}
	}
}

// RequireNotBanned evaluates the requester's ban state, clearing an
// expired ban, and rejects banned accounts. The refreshed user replaces the
// identity on the context.
func RequireNotBanned(bans service.BanService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return unauthenticated()
			}
			fresh, err := bans.RequireActive(c.Request().Context(), user)
			if err != nil {
				return mapError(err)
			}
			c.Set(identityKey, fresh)
			return next(c)
		}
	}
}
