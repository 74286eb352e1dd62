package repository

import (
	"context"

	"gorm.io/gorm"

	"gamehub/internal/model"
)

// ReactionCounts holds the like/dislike tally for a game.
type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// ReactionRepository defines reaction persistence operations.
type ReactionRepository interface {
	FindForUpdate(ctx context.Context, userID, gameID uint) (*model.GameReaction, error)
	Find(ctx context.Context, userID, gameID uint) (*model.GameReaction, error)
	Create(ctx context.Context, reaction *model.GameReaction) error
	UpdateType(ctx context.Context, id uint, t model.ReactionType) error
	Delete(ctx context.Context, id uint) error
	CountByGame(ctx context.Context, gameID uint) (ReactionCounts, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// FindForUpdate returns the user's reaction on a game with a row-level lock.
func (r *reactionRepository) FindForUpdate(ctx context.Context, userID, gameID uint) (*model.GameReaction, error) {
	var reaction model.GameReaction
	if err := forUpdate(r.db.WithContext(ctx)).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) Find(ctx context.Context, userID, gameID uint) (*model.GameReaction, error) {
	var reaction model.GameReaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Create inserts a reaction. A concurrent insert for the same (user, game)
// fails with gorm.ErrDuplicatedKey.
func (r *reactionRepository) Create(ctx context.Context, reaction *model.GameReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *reactionRepository) UpdateType(ctx context.Context, id uint, t model.ReactionType) error {
	return r.db.WithContext(ctx).Model(&model.GameReaction{}).
		Where("id = ?", id).
		Update("reaction_type", t).Error
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.GameReaction{}, id).Error
}

func (r *reactionRepository) CountByGame(ctx context.Context, gameID uint) (ReactionCounts, error) {
	var rows []struct {
		Type  model.ReactionType `gorm:"column:reaction_type"`
		Total int64
	}
	if err := r.db.WithContext(ctx).Model(&model.GameReaction{}).
		Select("reaction_type, COUNT(*) AS total").
		Where("game_id = ?", gameID).
		Group("reaction_type").
		Scan(&rows).Error; err != nil {
		return ReactionCounts{}, err
	}

	var counts ReactionCounts
	for _, row := range rows {
		switch row.Type {
		case model.ReactionLike:
			counts.Likes = row.Total
		case model.ReactionDislike:
			counts.Dislikes = row.Total
		}
	}
	return counts, nil
}
