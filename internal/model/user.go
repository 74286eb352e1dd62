package model

import "time"

const (
	// DefaultProfileImage is assigned to every new account.
	DefaultProfileImage = "default.jpg"
	// UsernameChangeCooldown is the minimum gap between username changes.
	UsernameChangeCooldown = 30 * 24 * time.Hour
)

// BanState is the enforcement state derived from a user's ban columns.
type BanState int

const (
	BanStateActive BanState = iota
	BanStateTemporary
	BanStatePermanent
)

func (s BanState) String() string {
	switch s {
	case BanStateTemporary:
		return "banned_temporary"
	case BanStatePermanent:
		return "banned_permanent"
	default:
		return "active"
	}
}

// User represents a registered account.
type User struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Username       string     `json:"username" gorm:"size:80;not null;uniqueIndex"`
	Email          string     `json:"email" gorm:"size:120;not null;uniqueIndex"`
	PasswordHash   string     `json:"-" gorm:"size:256;not null"` // Never expose in JSON
	Role           Role       `json:"role" gorm:"type:varchar(20);not null;index"`
	ProfileImage   string     `json:"profile_image" gorm:"size:120;not null;default:'default.jpg'"`
	CreatedAt      time.Time  `json:"created_at" gorm:"index"`
	LastNameChange *time.Time `json:"last_name_change,omitempty"`
	IsBanned       bool       `json:"is_banned" gorm:"not null;default:false;index"`
	BanExpiresAt   *time.Time `json:"ban_expires_at,omitempty"`

	// Relations
	Comments  []Comment      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Reactions []GameReaction `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// CanChangeUsername reports whether the 30-day cooldown has elapsed.
func (u *User) CanChangeUsername(now time.Time) bool {
	if u.LastNameChange == nil {
		return true
	}
	return now.After(u.LastNameChange.Add(UsernameChangeCooldown))
}

// BanExpired reports whether the user carries a temporary ban whose expiry has passed.
func (u *User) BanExpired(now time.Time) bool {
	return u.IsBanned && u.BanExpiresAt != nil && now.After(*u.BanExpiresAt)
}

// BanState reports the enforcement state at now. It never mutates u;
// an expired temporary ban reads as active.
func (u *User) BanState(now time.Time) BanState {
	switch {
	case !u.IsBanned, u.BanExpired(now):
		return BanStateActive
	case u.BanExpiresAt == nil:
		return BanStatePermanent
	default:
		return BanStateTemporary
	}
}
