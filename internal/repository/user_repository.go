package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gamehub/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	SetBan(ctx context.Context, id uint, banned bool, expiresAt *time.Time) error
	ClearExpiredBan(ctx context.Context, id uint, now time.Time) (bool, error)
	UpdateRole(ctx context.Context, id uint, role model.Role) error
	List(ctx context.Context, page, perPage int) ([]model.User, int64, error)
	Recent(ctx context.Context, limit int) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	CountBanned(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update writes only the named columns so concurrent ban or role changes
// on the same row are never overwritten with stale values.
func (r *userRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate finds a user by ID with a row-level lock.
func (r *userRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := forUpdate(r.db.WithContext(ctx)).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetBan writes the enforcement columns. A nil expiry with banned set is permanent.
func (r *userRepository) SetBan(ctx context.Context, id uint, banned bool, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_banned":      banned,
			"ban_expires_at": expiresAt,
		}).Error
}

// ClearExpiredBan lifts a temporary ban whose expiry is before now. The
// condition lives in the WHERE clause, so among concurrent callers exactly
// one observes cleared == true.
func (r *userRepository) ClearExpiredBan(ctx context.Context, id uint, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND is_banned = ? AND ban_expires_at IS NOT NULL AND ban_expires_at < ?", id, true, now).
		Updates(map[string]interface{}{
			"is_banned":      false,
			"ban_expires_at": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role model.Role) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("role", role).Error
}

// List returns one page of users, newest first.
func (r *userRepository) List(ctx context.Context, page, perPage int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []model.User
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(page, perPage)).Limit(perPage).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Recent(ctx context.Context, limit int) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *userRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

// CountBanned counts users whose ban flag is currently set.
func (r *userRepository) CountBanned(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("is_banned = ?", true).Count(&n).Error
	return n, err
}
