package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"gamehub/internal/model"
)

// GameFilter narrows a catalog search. Empty fields match everything.
type GameFilter struct {
	Genre  model.Genre
	Search string
}

// GameRepository defines game persistence operations.
type GameRepository interface {
	Create(ctx context.Context, game *model.Game) error
	Update(ctx context.Context, game *model.Game) error
	FindByID(ctx context.Context, id uint) (*model.Game, error)
	DeleteCascade(ctx context.Context, id uint) error
	Search(ctx context.Context, filter GameFilter, page, perPage int) ([]model.Game, int64, error)
	Genres(ctx context.Context) ([]model.Genre, error)
	Recent(ctx context.Context, limit int) ([]model.Game, error)
	Count(ctx context.Context) (int64, error)
}

type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a new game repository.
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

// Create creates a new game.
func (r *gameRepository) Create(ctx context.Context, game *model.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

// Update saves every editable column of an existing game.
func (r *gameRepository) Update(ctx context.Context, game *model.Game) error {
	return r.db.WithContext(ctx).Model(game).
		Select("title", "description", "genre", "download_link", "image_url").
		Updates(game).Error
}

// FindByID finds a game by ID along with the user who added it.
func (r *gameRepository) FindByID(ctx context.Context, id uint) (*model.Game, error) {
	var game model.Game
	if err := r.db.WithContext(ctx).Preload("AddedBy").First(&game, id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// DeleteCascade removes a game together with its reactions and comments.
// It returns gorm.ErrRecordNotFound when the game does not exist.
func (r *gameRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&model.GameReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Game{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Search returns one page of games matching filter, newest first.
func (r *gameRepository) Search(ctx context.Context, filter GameFilter, page, perPage int) ([]model.Game, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Game{}).Scopes(filter.apply).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var games []model.Game
	if err := r.db.WithContext(ctx).Scopes(filter.apply).
		Order("created_at DESC").Order("id DESC").
		Offset(offset(page, perPage)).Limit(perPage).
		Find(&games).Error; err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

func (f GameFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Genre != "" {
		db = db.Where("genre = ?", f.Genre)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		db = db.Where("(title LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!')", pattern, pattern)
	}
	return db
}

// Genres returns the distinct genres present in the catalog.
func (r *gameRepository) Genres(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Model(&model.Game{}).
		Distinct("genre").Order("genre").
		Pluck("genre", &genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *gameRepository) Recent(ctx context.Context, limit int) ([]model.Game, error) {
	var games []model.Game
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (r *gameRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Game{}).Count(&n).Error
	return n, err
}

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
