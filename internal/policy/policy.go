// Package policy decides what a requester may do based on role.
//
// Roles are totally ordered (user < moderator < admin). Route guards check
// a Capability, the minimum role a route group needs. Services check a
// Permission, a named action from the matrix below.
package policy

import (
	"gamehub/internal/errors"
	"gamehub/internal/model"
)

// Capability is a required minimum access level.
type Capability int

const (
	CapAuthenticated Capability = iota // any signed-in user
	CapModerator                       // moderator or admin
	CapAdmin                           // admin only
)

func (c Capability) String() string {
	switch c {
	case CapAuthenticated:
		return "authenticated"
	case CapModerator:
		return "moderator"
	case CapAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

var minRole = map[Capability]model.Role{
	CapAuthenticated: model.RoleUser,
	CapModerator:     model.RoleModerator,
	CapAdmin:         model.RoleAdmin,
}

// Allows reports whether role satisfies the capability.
func Allows(role model.Role, c Capability) bool {
	min, ok := minRole[c]
	if !ok {
		return false
	}
	return role.AtLeast(min)
}

// Require returns an AuthorizationError unless identity satisfies c.
// A nil identity is an anonymous requester.
func Require(identity *model.User, c Capability) error {
	if identity == nil {
		return errors.Forbidden("authentication required")
	}
	if !Allows(identity.Role, c) {
		return errors.Forbidden("%s access required", c)
	}
	return nil
}

// Permission is a named action guarded by role.
type Permission int

const (
	PermManageGames Permission = iota
	PermDeleteComments
	PermBanUsers
	PermChooseBanDuration
	PermUnbanUsers
	PermViewBanHistory
	PermAssignRoles
	PermListUsers
	PermViewModeratorDashboard
	PermViewAdminDashboard
)

// permissionMatrix maps roles to their allowed permissions.
var permissionMatrix = map[model.Role]map[Permission]bool{
	model.RoleAdmin: {
		PermManageGames:            true,
		PermDeleteComments:         true,
		PermBanUsers:               true,
		PermChooseBanDuration:      true,
		PermUnbanUsers:             true,
		PermViewBanHistory:         true,
		PermAssignRoles:            true,
		PermListUsers:              true,
		PermViewModeratorDashboard: true,
		PermViewAdminDashboard:     true,
	},
	model.RoleModerator: {
		PermManageGames:            true,
		PermDeleteComments:         true,
		PermBanUsers:               true,
		PermViewBanHistory:         true,
		PermViewModeratorDashboard: true,
	},
	model.RoleUser: {
		// No moderation permissions: comment, react, edit own profile
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role model.Role, perm Permission) bool {
	perms, ok := permissionMatrix[role]
	if !ok {
		return false
	}
	return perms[perm]
}

// RequirePermission returns an AuthorizationError unless identity holds perm.
func RequirePermission(identity *model.User, perm Permission) error {
	if identity == nil {
		return errors.Forbidden("authentication required")
	}
	if !HasPermission(identity.Role, perm) {
		return errors.Forbidden("%s requires a higher role", perm)
	}
	return nil
}

func (p Permission) String() string {
	switch p {
	case PermManageGames:
		return "manage_games"
	case PermDeleteComments:
		return "delete_comments"
	case PermBanUsers:
		return "ban_users"
	case PermChooseBanDuration:
		return "choose_ban_duration"
	case PermUnbanUsers:
		return "unban_users"
	case PermViewBanHistory:
		return "view_ban_history"
	case PermAssignRoles:
		return "assign_roles"
	case PermListUsers:
		return "list_users"
	case PermViewModeratorDashboard:
		return "view_moderator_dashboard"
	case PermViewAdminDashboard:
		return "view_admin_dashboard"
	default:
		return "unknown"
	}
}
