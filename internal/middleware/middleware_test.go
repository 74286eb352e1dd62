package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gamehub/internal/auth"
	apperrors "gamehub/internal/errors"
	"gamehub/internal/model"
	"gamehub/internal/policy"
	"gamehub/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockAuthService) Resolve(ctx context.Context, claims *auth.SessionClaims) (*model.User, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockBanService struct {
	mock.Mock
}

func (m *MockBanService) Evaluate(ctx context.Context, userID uint) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockBanService) Normalize(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockBanService) RequireActive(ctx context.Context, actor *model.User) (*model.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockBanService) Ban(ctx context.Context, actor *model.User, targetID uint, req service.BanRequest) (*model.UserBan, error) {
	args := m.Called(ctx, actor, targetID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserBan), args.Error(1)
}

func (m *MockBanService) Unban(ctx context.Context, actor *model.User, targetID uint, reason string) (*model.UserBan, error) {
	args := m.Called(ctx, actor, targetID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserBan), args.Error(1)
}

func (m *MockBanService) History(ctx context.Context, actor *model.User, targetID uint) ([]model.UserBan, error) {
	args := m.Called(ctx, actor, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserBan), args.Error(1)
}

// run sends one request through mw and reports the status and the
// identity seen by the final handler.
func run(t *testing.T, mw []echo.MiddlewareFunc, setup func(*http.Request)) (int, *model.User) {
	t.Helper()
	e := echo.New()
	var seen *model.User
	e.GET("/", func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	}, mw...)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, seen
}

func withUser(user *model.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user != nil {
				c.Set(identityKey, user)
			}
			return next(c)
		}
	}
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name   string
		user   *model.User
		cap    policy.Capability
		status int
	}{
		{"anonymous", nil, policy.CapAuthenticated, http.StatusUnauthorized},
		{"user signed in", &model.User{ID: 1, Role: model.RoleUser}, policy.CapAuthenticated, http.StatusOK},
		{"user below moderator", &model.User{ID: 1, Role: model.RoleUser}, policy.CapModerator, http.StatusForbidden},
		{"moderator", &model.User{ID: 2, Role: model.RoleModerator}, policy.CapModerator, http.StatusOK},
		{"moderator below admin", &model.User{ID: 2, Role: model.RoleModerator}, policy.CapAdmin, http.StatusForbidden},
		{"admin", &model.User{ID: 3, Role: model.RoleAdmin}, policy.CapAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := run(t, []echo.MiddlewareFunc{withUser(tt.user), RequireCapability(tt.cap)}, nil)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestRequireNotBanned(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		bans := new(MockBanService)
		status, _ := run(t, []echo.MiddlewareFunc{RequireNotBanned(bans)}, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		bans.AssertNotCalled(t, "RequireActive", mock.Anything, mock.Anything)
	})

	t.Run("banned", func(t *testing.T) {
		user := &model.User{ID: 7, Role: model.RoleModerator}
		bans := new(MockBanService)
		bans.On("RequireActive", mock.Anything, user).Return(nil, apperrors.Forbidden("account is banned"))

		status, _ := run(t, []echo.MiddlewareFunc{withUser(user), RequireNotBanned(bans)}, nil)
		assert.Equal(t, http.StatusForbidden, status)
		bans.AssertExpectations(t)
	})

	t.Run("fresh identity replaces the stale one", func(t *testing.T) {
		stale := &model.User{ID: 7, Role: model.RoleUser, IsBanned: true}
		fresh := &model.User{ID: 7, Role: model.RoleUser}
		bans := new(MockBanService)
		bans.On("RequireActive", mock.Anything, stale).Return(fresh, nil)

		status, seen := run(t, []echo.MiddlewareFunc{withUser(stale), RequireNotBanned(bans)}, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Same(t, fresh, seen)
	})
}

func TestIdentity(t *testing.T) {
	tokens := auth.NewSessionTokens("test-secret", time.Hour)
	token, _, err := tokens.Issue("sid-1", 5)
	require.NoError(t, err)
	user := &model.User{ID: 5, Username: "player", Role: model.RoleUser}

	matchClaims := mock.MatchedBy(func(c *auth.SessionClaims) bool {
		return c.ID == "sid-1" && c.UserID == 5
	})

	t.Run("bearer token", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Resolve", mock.Anything, matchClaims).Return(user, nil)

		status, seen := run(t, []echo.MiddlewareFunc{SessionToken(tokens), Identity(svc, zap.NewNop())}, func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, user, seen)
		svc.AssertExpectations(t)
	})

	t.Run("session cookie", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Resolve", mock.Anything, matchClaims).Return(user, nil)

		_, seen := run(t, []echo.MiddlewareFunc{SessionToken(tokens), Identity(svc, zap.NewNop())}, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
		})
		assert.Equal(t, user, seen)
	})

	t.Run("no token stays anonymous", func(t *testing.T) {
		svc := new(MockAuthService)
		status, seen := run(t, []echo.MiddlewareFunc{SessionToken(tokens), Identity(svc, zap.NewNop())}, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, seen)
		svc.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("forged token stays anonymous", func(t *testing.T) {
		forged, _, err := auth.NewSessionTokens("other-secret", time.Hour).Issue("sid-1", 5)
		require.NoError(t, err)
		svc := new(MockAuthService)

		status, seen := run(t, []echo.MiddlewareFunc{SessionToken(tokens), Identity(svc, zap.NewNop())}, func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+forged)
		})
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, seen)
		svc.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("revoked session stays anonymous", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Resolve", mock.Anything, matchClaims).Return(nil, nil)

		status, seen := run(t, []echo.MiddlewareFunc{SessionToken(tokens), Identity(svc, zap.NewNop())}, func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		})
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, seen)
	})

	t.Run("session store failure", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Resolve", mock.Anything, matchClaims).Return(nil, errors.New("redis down"))

		status, _ := run(t, []echo.MiddlewareFunc{SessionToken(tokens), Identity(svc, zap.NewNop())}, func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		})
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})
}
