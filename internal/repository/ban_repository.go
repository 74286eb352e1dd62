package repository

import (
	"context"

	"gorm.io/gorm"

	"gamehub/internal/model"
)

// BanRepository appends and reads UserBan audit records. There is no update
// or delete: the trail is insert-only.
type BanRepository interface {
	Create(ctx context.Context, ban *model.UserBan) error
	ListByUser(ctx context.Context, userID uint) ([]model.UserBan, error)
}

type banRepository struct {
	db *gorm.DB
}

// NewBanRepository creates a new ban repository.
func NewBanRepository(db *gorm.DB) BanRepository {
	return &banRepository{db: db}
}

func (r *banRepository) Create(ctx context.Context, ban *model.UserBan) error {
	return r.db.WithContext(ctx).Create(ban).Error
}

// ListByUser returns a user's records, newest first.
func (r *banRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserBan, error) {
	var bans []model.UserBan
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&bans).Error; err != nil {
		return nil, err
	}
	return bans, nil
}
