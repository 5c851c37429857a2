package domain

import (
	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
)

// Access is the level an operation requires.
type Access int

// Access levels, from least to most restrictive.
const (
	AccessPublic Access = iota
	AccessAuthenticated
	// AccessOwner allows the resource owner and any super admin.
	AccessOwner
	AccessSuperAdmin
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	case AccessOwner:
		return "owner"
	case AccessSuperAdmin:
		return "super_admin"
	default:
		return "unknown"
	}
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role Role
}

// IsSuperAdmin reports whether the actor has the super admin role.
func (a *Actor) IsSuperAdmin() bool {
	return a != nil && a.Role == RoleSuperAdmin
}

// Authorize is the single authorization decision point. ownerID is only
// consulted for AccessOwner. A nil actor is anonymous.
func Authorize(actor *Actor, ownerID string, level Access) error {
	if level == AccessPublic {
		return nil
	}
	if actor == nil || actor.ID == "" {
		return domainerrors.Unauthorized("authentication required")
	}

	switch level {
	case AccessAuthenticated:
		return nil
	case AccessOwner:
		if actor.IsSuperAdmin() || actor.ID == ownerID {
			return nil
		}
		return domainerrors.PermissionDenied("you do not have permission to modify this resource")
	case AccessSuperAdmin:
		if actor.IsSuperAdmin() {
			return nil
		}
		return domainerrors.PermissionDenied("super admin access required")
	default:
		return domainerrors.PermissionDenied("unknown access level")
	}
}
