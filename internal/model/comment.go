package model

import "time"

// Comment is a user's message on a game page.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	GameID    uint      `json:"game_id" gorm:"not null;index"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Game *Game `json:"game,omitempty" gorm:"foreignKey:GameID"`
}
