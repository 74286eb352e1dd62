package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamehub/internal/auth"
	apperrors "gamehub/internal/errors"
	"gamehub/internal/model"
	"gamehub/internal/repository"
)

// RegisterInput is a sign-up form.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
}

// Session is an issued login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
	// Resolve maps verified token claims to the current user. A revoked
	// session or a deleted user resolves to (nil, nil).
	Resolve(ctx context.Context, claims *auth.SessionClaims) (*model.User, error)
}

type authService struct {
	store    repository.Store
	bans     BanService
	tokens   *auth.SessionTokens
	sessions auth.SessionStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(store repository.Store, bans BanService, tokens *auth.SessionTokens, sessions auth.SessionStore, logger *zap.Logger) AuthService {
	return &authService{
		store:    store,
		bans:     bans,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
		now:      utcNow,
	}
}

// Register creates a new account with hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := normalizeUsername(in.Username)
	email := normalizeEmail(in.Email)

	verr := &apperrors.ValidationError{}
	validUsername(username, verr)
	validEmail(email, verr)
	validNewPassword("password", in.Password, in.Password2, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.checkTaken(ctx, username, email, verr); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		ProfileImage: model.DefaultProfileImage,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent sign-up; find out which field.
			if err := s.checkTaken(ctx, username, email, verr); err != nil {
				return nil, err
			}
			if verr.OrNil() == nil {
				verr.Add("username", "username already exists")
			}
			return nil, verr
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// checkTaken records a field error for each of username and email that is
// already in use.
func (s *authService) checkTaken(ctx context.Context, username, email string, verr *apperrors.ValidationError) error {
	if _, err := s.store.Users().FindByUsername(ctx, username); err == nil {
		verr.Add("username", "username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		verr.Add("email", "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// Login authenticates a user and opens a session.
func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.store.Users().FindByUsername(ctx, normalizeUsername(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err = s.bans.Evaluate(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if user.BanState(s.now()) != model.BanStateActive {
		s.logger.Info("banned user login rejected", zap.Uint("user_id", user.ID))
		return nil, apperrors.ErrAccountBanned
	}

	sid, err := s.sessions.Create(ctx, user.ID, s.tokens.TTL())
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.Issue(sid, user.ID)
	if err != nil {
		_ = s.sessions.Delete(ctx, sid)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout deletes the server-side session record.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *authService) Resolve(ctx context.Context, claims *auth.SessionClaims) (*model.User, error) {
	if claims == nil || claims.ID == "" {
		return nil, nil
	}
	userID, ok, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok || userID != claims.UserID {
		return nil, nil
	}

	user, err := s.bans.Evaluate(ctx, userID)
	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}
