package service

import (
	"context"
	"fmt"

	"gamehub/internal/model"
	"gamehub/internal/policy"
	"gamehub/internal/repository"
)

// DashboardRecentLimit is how many recent items each dashboard lists.
const DashboardRecentLimit = 10

// ModeratorDashboard is the content overview for moderators.
type ModeratorDashboard struct {
	RecentGames    []model.Game    `json:"recent_games"`
	RecentComments []model.Comment `json:"recent_comments"`
	TotalGames     int64           `json:"total_games"`
	TotalUsers     int64           `json:"total_users"`
	TotalComments  int64           `json:"total_comments"`
}

// AdminDashboard adds account statistics to the moderator view.
type AdminDashboard struct {
	ModeratorDashboard
	RecentUsers     []model.User `json:"recent_users"`
	TotalAdmins     int64        `json:"total_admins"`
	TotalModerators int64        `json:"total_moderators"`
	BannedUsers     int64        `json:"banned_users"`
}

// DashboardService aggregates site statistics.
type DashboardService interface {
	Moderator(ctx context.Context, actor *model.User) (*ModeratorDashboard, error)
	Admin(ctx context.Context, actor *model.User) (*AdminDashboard, error)
}

type dashboardService struct {
	store repository.Store
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(store repository.Store) DashboardService {
	return &dashboardService{store: store}
}

func (s *dashboardService) Moderator(ctx context.Context, actor *model.User) (*ModeratorDashboard, error) {
	if err := policy.RequirePermission(actor, policy.PermViewModeratorDashboard); err != nil {
		return nil, err
	}
	return s.moderator(ctx)
}

func (s *dashboardService) moderator(ctx context.Context) (*ModeratorDashboard, error) {
	var (
		d   ModeratorDashboard
		err error
	)
	if d.RecentGames, err = s.store.Games().Recent(ctx, DashboardRecentLimit); err != nil {
		return nil, fmt.Errorf("recent games: %w", err)
	}
	if d.RecentComments, err = s.store.Comments().Recent(ctx, DashboardRecentLimit); err != nil {
		return nil, fmt.Errorf("recent comments: %w", err)
	}
	if d.TotalGames, err = s.store.Games().Count(ctx); err != nil {
		return nil, fmt.Errorf("count games: %w", err)
	}
	if d.TotalUsers, err = s.store.Users().Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if d.TotalComments, err = s.store.Comments().Count(ctx); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	return &d, nil
}

func (s *dashboardService) Admin(ctx context.Context, actor *model.User) (*AdminDashboard, error) {
	if err := policy.RequirePermission(actor, policy.PermViewAdminDashboard); err != nil {
		return nil, err
	}
	base, err := s.moderator(ctx)
	if err != nil {
		return nil, err
	}

	d := AdminDashboard{ModeratorDashboard: *base}
	if d.RecentUsers, err = s.store.Users().Recent(ctx, DashboardRecentLimit); err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	if d.TotalAdmins, err = s.store.Users().CountByRole(ctx, model.RoleAdmin); err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	if d.TotalModerators, err = s.store.Users().CountByRole(ctx, model.RoleModerator); err != nil {
		return nil, fmt.Errorf("count moderators: %w", err)
	}
	if d.BannedUsers, err = s.store.Users().CountBanned(ctx); err != nil {
		return nil, fmt.Errorf("count banned users: %w", err)
	}
	return &d, nil
}
