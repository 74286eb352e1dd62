package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store groups the repositories that share one database handle. Inside
// WithTransaction every repository is bound to the same transaction.
type Store interface {
	Users() UserRepository
	Games() GameRepository
	Comments() CommentRepository
	Reactions() ReactionRepository
	Bans() BanRepository
	// WithTransaction runs fn in a transaction that commits when fn returns
	// nil and rolls back on any error or panic.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore creates a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository         { return NewUserRepository(s.db) }
func (s *store) Games() GameRepository         { return NewGameRepository(s.db) }
func (s *store) Comments() CommentRepository   { return NewCommentRepository(s.db) }
func (s *store) Reactions() ReactionRepository { return NewReactionRepository(s.db) }
func (s *store) Bans() BanRepository           { return NewBanRepository(s.db) }

// WithTransaction executes a function within a database transaction.
func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &store{db: tx})
	})
}

// forUpdate adds a row-level write lock. Drivers without row locking (SQLite) omit it.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}
