package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "gamehub/internal/errors"
	"gamehub/internal/model"
	"gamehub/internal/repository"
)

// ReactionOutcome says what a toggle did.
type ReactionOutcome string

const (
	ReactionAdded   ReactionOutcome = "added"
	ReactionRemoved ReactionOutcome = "removed"
	ReactionChanged ReactionOutcome = "changed"
)

// ReactionResult is the state after a toggle.
type ReactionResult struct {
	Outcome ReactionOutcome           `json:"outcome"`
	Current *model.ReactionType       `json:"current,omitempty"`
	Counts  repository.ReactionCounts `json:"counts"`
}

// ReactionService records likes and dislikes.
type ReactionService interface {
	// Toggle applies a like/dislike: no reaction adds one, the same type
	// removes it, the other type switches it.
	Toggle(ctx context.Context, actor *model.User, gameID uint, reactionType string) (*ReactionResult, error)
}

type reactionService struct {
	store  repository.Store
	bans   BanService
	logger *zap.Logger
}

// NewReactionService creates a new reaction service.
func NewReactionService(store repository.Store, bans BanService, logger *zap.Logger) ReactionService {
	return &reactionService{store: store, bans: bans, logger: logger}
}

func (s *reactionService) Toggle(ctx context.Context, actor *model.User, gameID uint, reactionType string) (*ReactionResult, error) {
	user, err := s.bans.RequireActive(ctx, actor)
	if err != nil {
		return nil, err
	}
	rt := model.ReactionType(strings.ToLower(strings.TrimSpace(reactionType)))
	if !rt.Valid() {
		return nil, apperrors.NewValidationError("reaction_type", "reaction must be like or dislike")
	}
	if _, err := s.store.Games().FindByID(ctx, gameID); err != nil {
		return nil, notFound(err, "game", gameID)
	}

	outcome, err := s.toggle(ctx, user.ID, gameID, rt)
	if raced(err) {
		// A concurrent request inserted first, or the database aborted us
		// to let it. Its row already reflects a reaction, so coalesce
		// rather than flip it back.
		s.logger.Debug("reaction insert raced, coalescing", zap.Uint("user_id", user.ID), zap.Uint("game_id", gameID), zap.Error(err))
		outcome, err = s.coalesce(ctx, user.ID, gameID, rt)
		if raced(err) {
			return nil, &apperrors.ConflictError{Message: "reaction was changed concurrently, try again"}
		}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return nil, apperrors.NotFound("game", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle reaction: %w", err)
	}

	counts, err := s.store.Reactions().CountByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	result := &ReactionResult{Outcome: outcome, Counts: counts}
	if outcome != ReactionRemoved {
		result.Current = &rt
	}
	return result, nil
}

// raced reports whether a toggle lost to a concurrent one. InnoDB gap locks
// turn two first reactions into a deadlock rather than a duplicate key.
func raced(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || repository.IsLockConflict(err)
}

func (s *reactionService) toggle(ctx context.Context, userID, gameID uint, rt model.ReactionType) (ReactionOutcome, error) {
	var outcome ReactionOutcome
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		existing, err := tx.Reactions().FindForUpdate(ctx, userID, gameID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome = ReactionAdded
			return tx.Reactions().Create(ctx, &model.GameReaction{Type: rt, UserID: userID, GameID: gameID})
		}
		if err != nil {
			return err
		}
		if existing.Type == rt {
			outcome = ReactionRemoved
			return tx.Reactions().Delete(ctx, existing.ID)
		}
		outcome = ReactionChanged
		return tx.Reactions().UpdateType(ctx, existing.ID, rt)
	})
	return outcome, err
}

// coalesce makes the stored reaction equal rt without removing it.
func (s *reactionService) coalesce(ctx context.Context, userID, gameID uint, rt model.ReactionType) (ReactionOutcome, error) {
	var outcome ReactionOutcome
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		existing, err := tx.Reactions().FindForUpdate(ctx, userID, gameID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome = ReactionAdded
			return tx.Reactions().Create(ctx, &model.GameReaction{Type: rt, UserID: userID, GameID: gameID})
		}
		if err != nil {
			return err
		}
		if existing.Type == rt {
			outcome = ReactionAdded
			return nil
		}
		outcome = ReactionChanged
		return tx.Reactions().UpdateType(ctx, existing.ID, rt)
	})
	return outcome, err
}
