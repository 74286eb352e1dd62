package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamehub/internal/middleware"
	"gamehub/internal/service"
)

// GameHandler serves the catalog.
type GameHandler struct {
	games service.GameService
}

// NewGameHandler creates a new game handler.
func NewGameHandler(games service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

// GameRequest is the create/update payload.
type GameRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Genre        string `json:"genre" validate:"required"`
	DownloadLink string `json:"download_link" validate:"required"`
	ImageURL     string `json:"image_url"`
}

func (r GameRequest) input() service.GameInput {
	return service.GameInput{
		Title:        r.Title,
		Description:  r.Description,
		Genre:        r.Genre,
		DownloadLink: r.DownloadLink,
		ImageURL:     r.ImageURL,
	}
}

// SearchQuery holds the catalog filters.
type SearchQuery struct {
	Genre  string `query:"genre"`
	Search string `query:"search"`
	Page   int    `query:"page"`
}

// Search godoc
// @Summary Browse and search games
// @Description Newest first, 12 per page. search matches title or description.
// @Tags games
// @Produce json
// @Param genre query string false "Genre filter"
// @Param search query string false "Substring of title or description"
// @Param page query int false "Page number, from 1"
// @Success 200 {object} model.Page[model.Game]
// @Failure 400 {object} errors.ErrorResponse
// @Router /games [get]
func (h *GameHandler) Search(c echo.Context) error {
	var q SearchQuery
	if err := c.Bind(&q); err != nil {
		return badRequest("invalid query")
	}
	page, err := h.games.Search(c.Request().Context(), service.GameQuery{
		Genre:  q.Genre,
		Search: q.Search,
		Page:   q.Page,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// Genres godoc
// @Summary Genres present in the catalog
// @Tags games
// @Produce json
// @Success 200 {array} service.GenreFacet
// @Router /games/genres [get]
func (h *GameHandler) Genres(c echo.Context) error {
	facets, err := h.games.Genres(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, facets)
}

// Get godoc
// @Summary Game detail with reactions and comments
// @Tags games
// @Produce json
// @Param id path int true "Game ID"
// @Success 200 {object} service.GameDetail
// @Failure 404 {object} errors.ErrorResponse
// @Router /games/{id} [get]
func (h *GameHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.games.Get(c.Request().Context(), id, middleware.CurrentUser(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Create godoc
// @Summary Add a game
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GameRequest true "Game"
// @Success 201 {object} model.Game
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /moderator/games [post]
func (h *GameHandler) Create(c echo.Context) error {
	var req GameRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	game, err := h.games.Create(c.Request().Context(), middleware.CurrentUser(c), req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, game)
}

// Update godoc
// @Summary Edit a game
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Game ID"
// @Param request body GameRequest true "Game"
// @Success 200 {object} model.Game
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /moderator/games/{id} [put]
func (h *GameHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req GameRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	game, err := h.games.Update(c.Request().Context(), middleware.CurrentUser(c), id, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, game)
}

// Delete godoc
// @Summary Delete a game with its comments and reactions
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Game ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /moderator/games/{id} [delete]
func (h *GameHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.games.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "game deleted"})
}
