package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gamehub/internal/auth"
	"gamehub/internal/cache"
	dbpkg "gamehub/internal/db"
	"gamehub/internal/model"
	"gamehub/internal/repository"
)

// fixture wires every service against an in-memory SQLite store.
type fixture struct {
	db        *gorm.DB
	store     repository.Store
	bans      *banService
	games     GameService
	comments  CommentService
	reactions ReactionService
	users     *userService
	dashboard DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, dbpkg.Migrate(db))

	store := repository.NewStore(db)
	log := zap.NewNop()
	bans := &banService{store: store, cache: cache.New(nil), logger: log, now: utcNow}
	return &fixture{
		db:        db,
		store:     store,
		bans:      bans,
		games:     NewGameService(store, bans, log),
		comments:  NewCommentService(store, bans, log),
		reactions: NewReactionService(store, bans, log),
		users:     &userService{store: store, bans: bans, cache: cache.New(nil), logger: log, now: utcNow},
		dashboard: NewDashboardService(store),
	}
}

func (f *fixture) user(t *testing.T, name string, role model.Role) *model.User {
	t.Helper()
	hash, err := hashForTest("password123")
	require.NoError(t, err)
	u := &model.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: hash,
		Role:         role,
		ProfileImage: model.DefaultProfileImage,
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) game(t *testing.T, owner *model.User, title string, genre model.Genre, createdAt time.Time) *model.Game {
	t.Helper()
	g := &model.Game{
		Title:        title,
		Description:  "All about " + title + " and more",
		Genre:        genre,
		DownloadLink: "https://example.com/dl",
		AddedByID:    owner.ID,
		CreatedAt:    createdAt,
	}
	require.NoError(t, f.store.Games().Create(context.Background(), g))
	return g
}

var testHashes = map[string]string{}

// hashForTest caches bcrypt hashes so fixtures stay fast.
func hashForTest(password string) (string, error) {
	if h, ok := testHashes[password]; ok {
		return h, nil
	}
	h, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	testHashes[password] = h
	return h, nil
}
