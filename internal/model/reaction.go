package model

import "time"

// ReactionType is the kind of vote a user casts on a game.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Valid returns true for like and dislike.
func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// GameReaction is a like or dislike. At most one row exists per (user, game).
type GameReaction struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Type      ReactionType `json:"reaction_type" gorm:"column:reaction_type;size:20;not null"`
	CreatedAt time.Time    `json:"created_at"`
	UserID    uint         `json:"user_id" gorm:"not null;uniqueIndex:idx_reaction_user_game,priority:1"`
	GameID    uint         `json:"game_id" gorm:"not null;uniqueIndex:idx_reaction_user_game,priority:2;index"`
}
