package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gamehub/internal/cache"
	apperrors "gamehub/internal/errors"
	"gamehub/internal/model"
	"gamehub/internal/policy"
	"gamehub/internal/repository"
)

const (
	// ModeratorBanDuration is the only ban length a moderator can issue.
	ModeratorBanDuration = 24 * time.Hour
	MinBanDays           = 1
	MaxBanDays           = 365
	MaxBanReasonLength   = 255

	defaultModeratorBanReason = "Banned by moderator"
	defaultUnbanReason        = "Unbanned by admin"
)

// BanRequest carries the ban terms chosen by the actor. Moderators only
// control Reason; DurationDays and Permanent are admin choices.
type BanRequest struct {
	Reason       string
	DurationDays int
	Permanent    bool
}

// BanService issues and lifts bans and evaluates a user's current state.
type BanService interface {
	// Evaluate loads a user and clears an expired temporary ban.
	Evaluate(ctx context.Context, userID uint) (*model.User, error)
	// Normalize clears an expired temporary ban on an already loaded user.
	// Users whose ban has not lapsed come back untouched.
	Normalize(ctx context.Context, user *model.User) (*model.User, error)
	// RequireActive evaluates actor and denies banned or anonymous actors.
	// It returns the fresh user row.
	RequireActive(ctx context.Context, actor *model.User) (*model.User, error)
	Ban(ctx context.Context, actor *model.User, targetID uint, req BanRequest) (*model.UserBan, error)
	Unban(ctx context.Context, actor *model.User, targetID uint, reason string) (*model.UserBan, error)
	History(ctx context.Context, actor *model.User, targetID uint) ([]model.UserBan, error)
}

type banService struct {
	store  repository.Store
	cache  *cache.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewBanService creates a new ban service.
func NewBanService(store repository.Store, cache *cache.Client, logger *zap.Logger) BanService {
	return &banService{
		store:  store,
		cache:  cache,
		logger: logger,
		now:    utcNow,
	}
}

func (s *banService) Evaluate(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	return s.Normalize(ctx, user)
}

func (s *banService) Normalize(ctx context.Context, user *model.User) (*model.User, error) {
	now := s.now()
	if !user.BanExpired(now) {
		return user, nil
	}

	cleared, err := s.store.Users().ClearExpiredBan(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("clear expired ban: %w", err)
	}
	if !cleared {
		// Someone else cleared it first or the row changed underneath us;
		// report what is stored now.
		fresh, err := s.store.Users().FindByID(ctx, user.ID)
		if err != nil {
			return nil, notFound(err, "user", user.ID)
		}
		return fresh, nil
	}

	s.logger.Info("ban expired", zap.Uint("user_id", user.ID))
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))
	user.IsBanned = false
	user.BanExpiresAt = nil
	return user, nil
}

func (s *banService) RequireActive(ctx context.Context, actor *model.User) (*model.User, error) {
	if actor == nil {
		return nil, apperrors.Forbidden("authentication required")
	}
	user, err := s.Evaluate(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user.BanState(s.now()) != model.BanStateActive {
		return nil, apperrors.Forbidden("account is banned")
	}
	return user, nil
}

func (s *banService) Ban(ctx context.Context, actor *model.User, targetID uint, req BanRequest) (*model.UserBan, error) {
	if err := policy.RequirePermission(actor, policy.PermBanUsers); err != nil {
		return nil, err
	}
	if actor.ID == targetID {
		return nil, apperrors.Forbidden("you cannot ban yourself")
	}
	if _, err := s.RequireActive(ctx, actor); err != nil {
		return nil, err
	}

	var record *model.UserBan
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		target, err := tx.Users().FindByIDForUpdate(ctx, targetID)
		if err != nil {
			return notFound(err, "user", targetID)
		}
		if target.Role == model.RoleAdmin {
			return apperrors.Forbidden("administrators cannot be banned")
		}

		now := s.now()
		reason, expiresAt, err := s.banTerms(actor, req, now)
		if err != nil {
			return err
		}

		if err := tx.Users().SetBan(ctx, target.ID, true, expiresAt); err != nil {
			return fmt.Errorf("set ban: %w", err)
		}
		record = &model.UserBan{
			UserID:     target.ID,
			BannedByID: actor.ID,
			Action:     model.BanActionBan,
			Reason:     reason,
			CreatedAt:  now,
			ExpiresAt:  expiresAt,
			IsActive:   true,
		}
		if err := tx.Bans().Create(ctx, record); err != nil {
			return fmt.Errorf("record ban: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, userCacheKey(targetID))
	fields := []zap.Field{
		zap.Uint("user_id", targetID),
		zap.Uint("banned_by", actor.ID),
		zap.String("actor_role", actor.Role.String()),
	}
	if record.ExpiresAt != nil {
		fields = append(fields, zap.Time("expires_at", *record.ExpiresAt))
	} else {
		fields = append(fields, zap.Bool("permanent", true))
	}
	s.logger.Info("user banned", fields...)
	return record, nil
}

// banTerms resolves the reason and expiry for the actor's role. Moderators
// get a fixed 24 hour ban; admins choose a duration or a permanent ban and
// must give a reason.
func (s *banService) banTerms(actor *model.User, req BanRequest, now time.Time) (string, *time.Time, error) {
	reason := strings.TrimSpace(req.Reason)
	verr := &apperrors.ValidationError{}
	if runeLen(reason) > MaxBanReasonLength {
		verr.Add("reason", fmt.Sprintf("reason must be at most %d characters", MaxBanReasonLength))
	}

	if !policy.HasPermission(actor.Role, policy.PermChooseBanDuration) {
		if err := verr.OrNil(); err != nil {
			return "", nil, err
		}
		if reason == "" {
			reason = defaultModeratorBanReason
		}
		expiresAt := now.Add(ModeratorBanDuration)
		return reason, &expiresAt, nil
	}

	if reason == "" {
		verr.Add("reason", "reason is required")
	}
	var expiresAt *time.Time
	if !req.Permanent {
		if req.DurationDays < MinBanDays || req.DurationDays > MaxBanDays {
			verr.Add("duration_days", fmt.Sprintf("duration must be between %d and %d days", MinBanDays, MaxBanDays))
		} else {
			t := now.Add(time.Duration(req.DurationDays) * 24 * time.Hour)
			expiresAt = &t
		}
	}
	if err := verr.OrNil(); err != nil {
		return "", nil, err
	}
	return reason, expiresAt, nil
}

func (s *banService) Unban(ctx context.Context, actor *model.User, targetID uint, reason string) (*model.UserBan, error) {
	if err := policy.RequirePermission(actor, policy.PermUnbanUsers); err != nil {
		return nil, err
	}
	if _, err := s.RequireActive(ctx, actor); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if runeLen(reason) > MaxBanReasonLength {
		return nil, apperrors.NewValidationError("reason", fmt.Sprintf("reason must be at most %d characters", MaxBanReasonLength))
	}
	if reason == "" {
		reason = defaultUnbanReason
	}

	var record *model.UserBan
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		target, err := tx.Users().FindByIDForUpdate(ctx, targetID)
		if err != nil {
			return notFound(err, "user", targetID)
		}
		if err := tx.Users().SetBan(ctx, target.ID, false, nil); err != nil {
			return fmt.Errorf("clear ban: %w", err)
		}
		record = &model.UserBan{
			UserID:     target.ID,
			BannedByID: actor.ID,
			Action:     model.BanActionUnban,
			Reason:     reason,
			CreatedAt:  s.now(),
			IsActive:   false,
		}
		if err := tx.Bans().Create(ctx, record); err != nil {
			return fmt.Errorf("record unban: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, userCacheKey(targetID))
	s.logger.Info("user unbanned", zap.Uint("user_id", targetID), zap.Uint("unbanned_by", actor.ID))
	return record, nil
}

func (s *banService) History(ctx context.Context, actor *model.User, targetID uint) ([]model.UserBan, error) {
	if err := policy.RequirePermission(actor, policy.PermViewBanHistory); err != nil {
		return nil, err
	}
	if _, err := s.store.Users().FindByID(ctx, targetID); err != nil {
		return nil, notFound(err, "user", targetID)
	}
	bans, err := s.store.Bans().ListByUser(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	return bans, nil
}
