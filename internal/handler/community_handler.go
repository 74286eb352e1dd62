package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamehub/internal/middleware"
	"gamehub/internal/service"
)

// CommunityHandler serves comments and reactions.
type CommunityHandler struct {
	comments  service.CommentService
	reactions service.ReactionService
}

// NewCommunityHandler creates a new community handler.
func NewCommunityHandler(comments service.CommentService, reactions service.ReactionService) *CommunityHandler {
	return &CommunityHandler{comments: comments, reactions: reactions}
}

// CommentRequest is a new comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// ReactionRequest is a like or dislike.
type ReactionRequest struct {
	ReactionType string `json:"reaction_type" validate:"required"`
}

// DeletedCommentResponse reports where a deleted comment lived.
type DeletedCommentResponse struct {
	Message string `json:"message"`
	GameID  uint   `json:"game_id"`
}

// AddComment godoc
// @Summary Comment on a game
// @Tags community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Game ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /games/{id}/comments [post]
func (h *CommunityHandler) AddComment(c echo.Context) error {
	gameID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Create(c.Request().Context(), middleware.CurrentUser(c), gameID, req.Content)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} DeletedCommentResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /moderator/comments/{id} [delete]
func (h *CommunityHandler) DeleteComment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	gameID, err := h.comments.Delete(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, DeletedCommentResponse{Message: "comment deleted", GameID: gameID})
}

// React godoc
// @Summary Like or dislike a game
// @Description Same reaction again removes it; the other reaction switches it.
// @Tags community
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Game ID"
// @Param request body ReactionRequest true "Reaction"
// @Success 200 {object} service.ReactionResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /games/{id}/reactions [post]
func (h *CommunityHandler) React(c echo.Context) error {
	gameID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req ReactionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.reactions.Toggle(c.Request().Context(), middleware.CurrentUser(c), gameID, req.ReactionType)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, result)
}
