package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role represents a user's permission level. Roles are totally ordered:
// RoleUser < RoleModerator < RoleAdmin.
type Role int

const (
	RoleUser      Role = iota // Default role, can comment and react
	RoleModerator             // Curates games and comments, issues 1-day bans
	RoleAdmin                 // Full control: custom bans, unbans, role assignment
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseRole converts a role name to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "user":
		return RoleUser, nil
	case "moderator":
		return RoleModerator, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleUser, fmt.Errorf("unknown role %q", s)
	}
}

// Valid returns true if the role is a recognised value.
func (r Role) Valid() bool {
	return r >= RoleUser && r <= RoleAdmin
}

// AtLeast reports whether r ranks at or above min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r >= min
}

// Value stores the role by name so the column stays readable.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return r.String(), nil
}

// Scan reads a role name written by Value.
func (r *Role) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*r = RoleUser
		return nil
	default:
		return fmt.Errorf("scan role: unsupported type %T", src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
