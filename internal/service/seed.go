package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamehub/internal/auth"
	"gamehub/internal/model"
	"gamehub/internal/repository"
)

// DefaultAccount is a bootstrap account created when missing.
type DefaultAccount struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

// DefaultAccounts returns the admin and moderator bootstrap accounts.
func DefaultAccounts(adminPassword, moderatorPassword string) []DefaultAccount {
	return []DefaultAccount{
		{Username: "admin", Email: "admin@gamehub.local", Password: adminPassword, Role: model.RoleAdmin},
		{Username: "moder", Email: "moder@gamehub.local", Password: moderatorPassword, Role: model.RoleModerator},
	}
}

// EnsureDefaultAccounts creates each account whose username is not taken.
// Existing accounts are left untouched. It returns how many were created.
func EnsureDefaultAccounts(ctx context.Context, store repository.Store, accounts []DefaultAccount, logger *zap.Logger) (int, error) {
	created := 0
	for _, acc := range accounts {
		if acc.Password == "" {
			logger.Warn("no password configured, skipping default account", zap.String("username", acc.Username))
			continue
		}

		_, err := store.Users().FindByUsername(ctx, acc.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("check %s: %w", acc.Username, err)
		}

		hash, err := auth.HashPassword(acc.Password)
		if err != nil {
			return created, err
		}
		user := &model.User{
			Username:     acc.Username,
			Email:        acc.Email,
			PasswordHash: hash,
			Role:         acc.Role,
			ProfileImage: model.DefaultProfileImage,
		}
		if err := store.Users().Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return created, fmt.Errorf("create %s: %w", acc.Username, err)
		}
		created++
		logger.Info("default account created", zap.String("username", acc.Username), zap.Stringer("role", acc.Role))
	}
	return created, nil
}
