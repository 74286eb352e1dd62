package model

import "time"

// Game is a catalog entry added by a moderator or admin.
type Game struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:120;not null"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	Genre        Genre     `json:"genre" gorm:"size:50;not null;index"`
	DownloadLink string    `json:"download_link" gorm:"size:255;not null"`
	ImageURL     string    `json:"image_url,omitempty" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	AddedByID    uint      `json:"added_by_id" gorm:"not null;index"`

	// Relations
	AddedBy   *User          `json:"added_by,omitempty" gorm:"foreignKey:AddedByID"`
	Comments  []Comment      `json:"-" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
	Reactions []GameReaction `json:"-" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}
