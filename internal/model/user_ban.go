package model

import "time"

// BanAction distinguishes ban and unban entries in the audit trail.
type BanAction string

const (
	BanActionBan   BanAction = "ban"
	BanActionUnban BanAction = "unban"
)

// UserBan is an immutable audit record appended on every ban or unban.
// Enforcement reads User.IsBanned / User.BanExpiresAt, never these rows.
type UserBan struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     uint       `json:"user_id" gorm:"not null;index"`
	BannedByID uint       `json:"banned_by_id" gorm:"not null;index"`
	Action     BanAction  `json:"action" gorm:"size:10;not null;default:'ban'"`
	Reason     string     `json:"reason" gorm:"size:255"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	IsActive   bool       `json:"is_active" gorm:"not null"`
}
