package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamehub/internal/auth"
	"gamehub/internal/cache"
	apperrors "gamehub/internal/errors"
	"gamehub/internal/model"
	"gamehub/internal/policy"
	"gamehub/internal/repository"
	"gamehub/internal/storage"
)

// UsersPerPage is the admin user list page size.
const UsersPerPage = 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ProfileInput is the account settings form.
type ProfileInput struct {
	Username string
	Email    string
}

// RoleChange reports a role assignment.
type RoleChange struct {
	UserID   uint       `json:"user_id"`
	Username string     `json:"username"`
	From     model.Role `json:"from"`
	To       model.Role `json:"to"`
}

// UserService exposes account self-service and user administration.
type UserService interface {
	Profile(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, actor *model.User, in ProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, actor *model.User, current, next, confirm string) error
	SetProfileImage(ctx context.Context, actor *model.User, ref string) (*model.User, error)
	UploadProfileImage(ctx context.Context, actor *model.User, filename string, body io.Reader, size int64) (*model.User, error)
	List(ctx context.Context, actor *model.User, page int) (model.Page[model.User], error)
	AssignRole(ctx context.Context, actor *model.User, targetID uint, role string) (*RoleChange, error)
}

type userService struct {
	store   repository.Store
	bans    BanService
	cache   *cache.Client
	objects storage.ObjectStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewUserService builds a UserService. objects may be nil, which disables
// profile image uploads.
func NewUserService(store repository.Store, bans BanService, cache *cache.Client, objects storage.ObjectStore, logger *zap.Logger) UserService {
	return &userService{
		store:   store,
		bans:    bans,
		cache:   cache,
		objects: objects,
		logger:  logger,
		now:     utcNow,
	}
}

func (s *userService) Profile(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil && !cached.BanExpired(s.now()) {
			return &cached, nil
		}
	}

	user, err := s.bans.Evaluate(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *model.User, in ProfileInput) (*model.User, error) {
	user, err := s.bans.RequireActive(ctx, actor)
	if err != nil {
		return nil, err
	}

	username := normalizeUsername(in.Username)
	email := normalizeEmail(in.Email)
	now := s.now()
	fields := map[string]interface{}{}
	verr := &apperrors.ValidationError{}

	if username != "" && username != user.Username {
		if !user.CanChangeUsername(now) {
			verr.Add("username", "username can only be changed once every 30 days")
		} else {
			validUsername(username, verr)
		}
		if verr.OrNil() == nil {
			if _, err := s.store.Users().FindByUsername(ctx, username); err == nil {
				verr.Add("username", "username already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("check username: %w", err)
			}
		}
		fields["username"] = username
		fields["last_name_change"] = now
	}

	if email != "" && email != user.Email {
		validEmail(email, verr)
		if _, exists := verr.Fields["email"]; !exists {
			if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
				verr.Add("email", "email already registered")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
		}
		fields["email"] = email
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := s.store.Users().Update(ctx, user.ID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, ok := fields["username"]; ok {
				return nil, apperrors.NewValidationError("username", "username already exists")
			}
			return nil, apperrors.NewValidationError("email", "email already registered")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))

	if _, ok := fields["username"]; ok {
		s.logger.Info("username changed", zap.Uint("user_id", user.ID), zap.String("from", user.Username), zap.String("to", username))
		user.Username = username
		user.LastNameChange = &now
	}
	if _, ok := fields["email"]; ok {
		user.Email = email
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, actor *model.User, current, next, confirm string) error {
	user, err := s.bans.RequireActive(ctx, actor)
	if err != nil {
		return err
	}

	verr := &apperrors.ValidationError{}
	if !auth.CheckPassword(user.PasswordHash, current) {
		verr.Add("current_password", "current password is incorrect")
	}
	validNewPassword("new_password", next, confirm, verr)
	if err := verr.OrNil(); err != nil {
		return err
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.store.Users().Update(ctx, user.ID, map[string]interface{}{"password_hash": hash}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logger.Info("password changed", zap.Uint("user_id", user.ID))
	return nil
}

func (s *userService) SetProfileImage(ctx context.Context, actor *model.User, ref string) (*model.User, error) {
	user, err := s.bans.RequireActive(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.setProfileImage(ctx, user, ref)
}

func (s *userService) setProfileImage(ctx context.Context, user *model.User, ref string) (*model.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || runeLen(ref) > 120 {
		return nil, apperrors.NewValidationError("profile_image", "profile image reference must be between 1 and 120 characters")
	}
	if err := s.store.Users().Update(ctx, user.ID, map[string]interface{}{"profile_image": ref}); err != nil {
		return nil, fmt.Errorf("update profile image: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))
	user.ProfileImage = ref
	return user, nil
}

func (s *userService) UploadProfileImage(ctx context.Context, actor *model.User, filename string, body io.Reader, size int64) (*model.User, error) {
	if s.objects == nil {
		return nil, apperrors.ErrUploadsDisabled
	}
	user, err := s.bans.RequireActive(ctx, actor)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		return nil, apperrors.NewValidationError("profile_image", "only jpg, jpeg, png and gif images are allowed")
	}
	key, err := randomKey()
	if err != nil {
		return nil, err
	}
	key += ext

	if err := s.objects.Upload(ctx, key, body, size, mime.TypeByExtension(ext)); err != nil {
		return nil, err
	}

	previous := user.ProfileImage
	user, err = s.setProfileImage(ctx, user, key)
	if err != nil {
		return nil, err
	}
	if previous != "" && previous != model.DefaultProfileImage && previous != key {
		if err := s.objects.Remove(ctx, previous); err != nil {
			s.logger.Warn("remove old profile image", zap.String("key", previous), zap.Error(err))
		}
	}
	return user, nil
}

// randomKey returns 16 random hex characters.
func randomKey() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate image key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *userService) List(ctx context.Context, actor *model.User, page int) (model.Page[model.User], error) {
	if err := policy.RequirePermission(actor, policy.PermListUsers); err != nil {
		return model.Page[model.User]{}, err
	}
	page = normalizePage(page)
	users, total, err := s.store.Users().List(ctx, page, UsersPerPage)
	if err != nil {
		return model.Page[model.User]{}, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		fresh, err := s.bans.Normalize(ctx, &users[i])
		if err != nil {
			return model.Page[model.User]{}, err
		}
		users[i] = *fresh
	}
	return model.NewPage(users, page, UsersPerPage, total), nil
}

func (s *userService) AssignRole(ctx context.Context, actor *model.User, targetID uint, role string) (*RoleChange, error) {
	if err := policy.RequirePermission(actor, policy.PermAssignRoles); err != nil {
		return nil, err
	}
	next, err := model.ParseRole(strings.TrimSpace(role))
	if err != nil {
		return nil, apperrors.NewValidationError("role", "role must be user, moderator or admin")
	}

	var change *RoleChange
	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		target, err := tx.Users().FindByIDForUpdate(ctx, targetID)
		if err != nil {
			return notFound(err, "user", targetID)
		}
		if err := tx.Users().UpdateRole(ctx, target.ID, next); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		change = &RoleChange{UserID: target.ID, Username: target.Username, From: target.Role, To: next}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, userCacheKey(targetID))
	s.logger.Info("role assigned",
		zap.Uint("user_id", change.UserID),
		zap.Stringer("from", change.From),
		zap.Stringer("to", change.To),
		zap.Uint("assigned_by", actor.ID),
	)
	return change, nil
}
