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
	"gamehub/internal/policy"
	"gamehub/internal/repository"
)

const (
	MinCommentLength = 3
	MaxCommentLength = 500
)

// CommentService manages comments on games.
type CommentService interface {
	Create(ctx context.Context, actor *model.User, gameID uint, content string) (*model.Comment, error)
	// Delete removes a comment and returns the game it belonged to.
	Delete(ctx context.Context, actor *model.User, commentID uint) (uint, error)
}

type commentService struct {
	store  repository.Store
	bans   BanService
	logger *zap.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(store repository.Store, bans BanService, logger *zap.Logger) CommentService {
	return &commentService{store: store, bans: bans, logger: logger}
}

func (s *commentService) Create(ctx context.Context, actor *model.User, gameID uint, content string) (*model.Comment, error) {
	user, err := s.bans.RequireActive(ctx, actor)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if n := runeLen(content); n < MinCommentLength || n > MaxCommentLength {
		return nil, apperrors.NewValidationError("content",
			fmt.Sprintf("comment must be between %d and %d characters", MinCommentLength, MaxCommentLength))
	}

	if _, err := s.store.Games().FindByID(ctx, gameID); err != nil {
		return nil, notFound(err, "game", gameID)
	}

	comment := &model.Comment{
		Content: content,
		UserID:  user.ID,
		GameID:  gameID,
	}
	if err := s.store.Comments().Create(ctx, comment); err != nil {
		// The game was deleted between the lookup and the insert.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperrors.NotFound("game", gameID)
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.User = user

	s.logger.Debug("comment added", zap.Uint("comment_id", comment.ID), zap.Uint("game_id", gameID), zap.Uint("user_id", user.ID))
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, actor *model.User, commentID uint) (uint, error) {
	if err := policy.RequirePermission(actor, policy.PermDeleteComments); err != nil {
		return 0, err
	}
	if _, err := s.bans.RequireActive(ctx, actor); err != nil {
		return 0, err
	}

	comment, err := s.store.Comments().FindByID(ctx, commentID)
	if err != nil {
		return 0, notFound(err, "comment", commentID)
	}
	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		return 0, notFound(err, "comment", commentID)
	}

	s.logger.Info("comment deleted",
		zap.Uint("comment_id", commentID),
		zap.Uint("game_id", comment.GameID),
		zap.Uint("deleted_by", actor.ID),
	)
	return comment.GameID, nil
}
