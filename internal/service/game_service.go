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

// GamesPerPage is the catalog page size.
const GamesPerPage = 12

// GameInput is the editable part of a game.
type GameInput struct {
	Title        string
	Description  string
	Genre        string
	DownloadLink string
	ImageURL     string
}

// GameQuery filters a catalog search. Zero values match everything.
type GameQuery struct {
	Genre  string
	Search string
	Page   int
}

// GameDetail is everything shown on a game page.
type GameDetail struct {
	Game           *model.Game               `json:"game"`
	Counts         repository.ReactionCounts `json:"counts"`
	Comments       []model.Comment           `json:"comments"`
	ViewerReaction *model.ReactionType       `json:"viewer_reaction,omitempty"`
}

// GenreFacet is a genre present in the catalog.
type GenreFacet struct {
	Genre model.Genre `json:"genre"`
	Name  string      `json:"name"`
}

// GameService manages the catalog.
type GameService interface {
	Create(ctx context.Context, actor *model.User, in GameInput) (*model.Game, error)
	Update(ctx context.Context, actor *model.User, id uint, in GameInput) (*model.Game, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
	Get(ctx context.Context, id uint, viewer *model.User) (*GameDetail, error)
	Search(ctx context.Context, q GameQuery) (model.Page[model.Game], error)
	Genres(ctx context.Context) ([]GenreFacet, error)
}

type gameService struct {
	store  repository.Store
	bans   BanService
	logger *zap.Logger
}

// NewGameService creates a new game service.
func NewGameService(store repository.Store, bans BanService, logger *zap.Logger) GameService {
	return &gameService{store: store, bans: bans, logger: logger}
}

// validateGame trims the input and checks every field.
func validateGame(in GameInput) (GameInput, error) {
	in = GameInput{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Genre:        strings.TrimSpace(in.Genre),
		DownloadLink: strings.TrimSpace(in.DownloadLink),
		ImageURL:     strings.TrimSpace(in.ImageURL),
	}

	verr := &apperrors.ValidationError{}
	if n := runeLen(in.Title); n < 2 || n > 120 {
		verr.Add("title", "title must be between 2 and 120 characters")
	}
	if runeLen(in.Description) < 10 {
		verr.Add("description", "description must be at least 10 characters")
	}
	if !model.Genre(in.Genre).Valid() {
		verr.Add("genre", "unknown genre")
	}
	if in.DownloadLink == "" || len(in.DownloadLink) > 255 || validate.Var(in.DownloadLink, "url") != nil {
		verr.Add("download_link", "download link must be a valid URL")
	}
	if in.ImageURL != "" && (len(in.ImageURL) > 255 || validate.Var(in.ImageURL, "url") != nil) {
		verr.Add("image_url", "image URL must be a valid URL")
	}
	return in, verr.OrNil()
}

func (s *gameService) Create(ctx context.Context, actor *model.User, in GameInput) (*model.Game, error) {
	if err := policy.RequirePermission(actor, policy.PermManageGames); err != nil {
		return nil, err
	}
	if _, err := s.bans.RequireActive(ctx, actor); err != nil {
		return nil, err
	}
	in, err := validateGame(in)
	if err != nil {
		return nil, err
	}

	game := &model.Game{
		Title:        in.Title,
		Description:  in.Description,
		Genre:        model.Genre(in.Genre),
		DownloadLink: in.DownloadLink,
		ImageURL:     in.ImageURL,
		AddedByID:    actor.ID,
	}
	if err := s.store.Games().Create(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	s.logger.Info("game added", zap.Uint("game_id", game.ID), zap.String("title", game.Title), zap.Uint("added_by", actor.ID))
	return game, nil
}

func (s *gameService) Update(ctx context.Context, actor *model.User, id uint, in GameInput) (*model.Game, error) {
	if err := policy.RequirePermission(actor, policy.PermManageGames); err != nil {
		return nil, err
	}
	if _, err := s.bans.RequireActive(ctx, actor); err != nil {
		return nil, err
	}
	in, err := validateGame(in)
	if err != nil {
		return nil, err
	}

	game, err := s.store.Games().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "game", id)
	}
	game.Title = in.Title
	game.Description = in.Description
	game.Genre = model.Genre(in.Genre)
	game.DownloadLink = in.DownloadLink
	game.ImageURL = in.ImageURL
	if err := s.store.Games().Update(ctx, game); err != nil {
		return nil, fmt.Errorf("update game: %w", err)
	}

	s.logger.Info("game updated", zap.Uint("game_id", game.ID), zap.Uint("updated_by", actor.ID))
	return game, nil
}

// Delete removes a game with its reactions and comments.
func (s *gameService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := policy.RequirePermission(actor, policy.PermManageGames); err != nil {
		return err
	}
	if _, err := s.bans.RequireActive(ctx, actor); err != nil {
		return err
	}
	if err := s.store.Games().DeleteCascade(ctx, id); err != nil {
		return notFound(err, "game", id)
	}
	s.logger.Info("game deleted", zap.Uint("game_id", id), zap.Uint("deleted_by", actor.ID))
	return nil
}

func (s *gameService) Get(ctx context.Context, id uint, viewer *model.User) (*GameDetail, error) {
	game, err := s.store.Games().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "game", id)
	}

	counts, err := s.store.Reactions().CountByGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	comments, err := s.store.Comments().ListByGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []model.Comment{}
	}

	detail := &GameDetail{Game: game, Counts: counts, Comments: comments}
	if viewer != nil {
		reaction, err := s.store.Reactions().Find(ctx, viewer.ID, id)
		switch {
		case err == nil:
			t := reaction.Type
			detail.ViewerReaction = &t
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("find reaction: %w", err)
		}
	}
	return detail, nil
}

func (s *gameService) Search(ctx context.Context, q GameQuery) (model.Page[model.Game], error) {
	page := normalizePage(q.Page)
	filter := repository.GameFilter{
		Genre:  model.Genre(strings.TrimSpace(q.Genre)),
		Search: strings.TrimSpace(q.Search),
	}
	games, total, err := s.store.Games().Search(ctx, filter, page, GamesPerPage)
	if err != nil {
		return model.Page[model.Game]{}, fmt.Errorf("search games: %w", err)
	}
	return model.NewPage(games, page, GamesPerPage, total), nil
}

// Genres lists the genres present in the catalog, in declaration order.
func (s *gameService) Genres(ctx context.Context) ([]GenreFacet, error) {
	present, err := s.store.Games().Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	seen := make(map[model.Genre]bool, len(present))
	for _, g := range present {
		seen[g] = true
	}

	facets := []GenreFacet{}
	for _, g := range model.Genres() {
		if seen[g] {
			facets = append(facets, GenreFacet{Genre: g, Name: g.DisplayName()})
		}
	}
	return facets, nil
}
