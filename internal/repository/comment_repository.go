package repository

import (
	"context"

	"gorm.io/gorm"

	"gamehub/internal/model"
)

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	Delete(ctx context.Context, id uint) error
	ListByGame(ctx context.Context, gameID uint) ([]model.Comment, error)
	Recent(ctx context.Context, limit int) ([]model.Comment, error)
	Count(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByGame returns a game's comments with their authors, newest first.
func (r *commentRepository) ListByGame(ctx context.Context, gameID uint) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.WithContext(ctx).Preload("User").
		Where("game_id = ?", gameID).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Recent(ctx context.Context, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.WithContext(ctx).Preload("User").Preload("Game").
		Order("created_at DESC").Order("id DESC").Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Count(&n).Error
	return n, err
}
