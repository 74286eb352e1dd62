// Package middleware resolves the requester's identity and guards route
// groups by role and ban state.
package middleware

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gamehub/internal/auth"
	"gamehub/internal/errors"
	"gamehub/internal/model"
	"gamehub/internal/service"
)

const (
	tokenKey    = "session_token"
	identityKey = "identity"
	sessionKey  = "session_id"
)

// SessionToken verifies a session token from the Authorization header or
// the session cookie. A missing or invalid token leaves the request
// anonymous rather than rejecting it.
func SessionToken(tokens *auth.SessionTokens) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  tokenKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + auth.SessionCookie,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := tokens.Parse(token)
			if err != nil {
				return nil, err
			}
			return claims, nil
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
	})
}

// Identity maps verified claims to the current user and stores it on the
// context. Revoked sessions and deleted users stay anonymous.
func Identity(authSvc service.AuthService, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(tokenKey).(*auth.SessionClaims)
			if !ok {
				return next(c)
			}

			user, err := authSvc.Resolve(c.Request().Context(), claims)
			if err != nil {
				logger.Error("resolve session", zap.Error(err))
				return echo.NewHTTPError(http.StatusServiceUnavailable, errors.ErrorResponse{
					Error: "session store unavailable",
					Code:  "SESSION_UNAVAILABLE",
				}).SetInternal(err)
			}
			if user != nil {
				c.Set(identityKey, user)
				c.Set(sessionKey, claims.ID)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the resolved identity, or nil for anonymous requests.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(identityKey).(*model.User)
	return user
}

// SessionID returns the server-side session ID of the request, if any.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sessionKey).(string)
	return sid
}
