package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gamehub/internal/model"
	"gamehub/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SetBan(ctx context.Context, id uint, banned bool, expiresAt *time.Time) error {
	args := m.Called(ctx, id, banned, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ClearExpiredBan(ctx context.Context, id uint, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uint, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, page, perPage int) ([]model.User, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Recent(ctx context.Context, limit int) ([]model.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountBanned(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockBanRepository is a mock implementation of BanRepository.
type MockBanRepository struct {
	mock.Mock
}

func (m *MockBanRepository) Create(ctx context.Context, ban *model.UserBan) error {
	args := m.Called(ctx, ban)
	return args.Error(0)
}

func (m *MockBanRepository) ListByUser(ctx context.Context, userID uint) ([]model.UserBan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserBan), args.Error(1)
}

// MockStore hands out the mock repositories. WithTransaction runs fn
// against the same mocks and returns its error.
type MockStore struct {
	users *MockUserRepository
	bans  *MockBanRepository
}

func newMockStore() *MockStore {
	return &MockStore{
		users: new(MockUserRepository),
		bans:  new(MockBanRepository),
	}
}

func (m *MockStore) Users() repository.UserRepository         { return m.users }
func (m *MockStore) Games() repository.GameRepository         { panic("games not mocked") }
func (m *MockStore) Comments() repository.CommentRepository   { panic("comments not mocked") }
func (m *MockStore) Reactions() repository.ReactionRepository { panic("reactions not mocked") }
func (m *MockStore) Bans() repository.BanRepository           { return m.bans }

func (m *MockStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, m)
}

// MockSessionStore is a mock implementation of auth.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	args := m.Called(ctx, userID, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Lookup(ctx context.Context, sessionID string) (uint, bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
