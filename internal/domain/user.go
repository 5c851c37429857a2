// Package domain holds the QuillPress entities and the rules that belong to them.
package domain

import "time"

// Role is the account role of a user.
type Role string

// Roles.
const (
	RoleSuperAdmin Role = "super_admin"
	RoleAuthor     Role = "author"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAuthor
}

// User is an account that can sign in and own posts.
type User struct {
	ID           string    `json:"id" doc:"User ID"`
	Email        string    `json:"email" doc:"Unique email address"`
	Username     string    `json:"username" doc:"Unique username"`
	PasswordHash string    `json:"-"`
	FirstName    *string   `json:"first_name" doc:"First name"`
	LastName     *string   `json:"last_name" doc:"Last name"`
	Avatar       *string   `json:"avatar" doc:"Avatar URL"`
	Bio          *string   `json:"bio" doc:"Short biography"`
	Role         Role      `json:"role" enum:"super_admin,author" doc:"Account role"`
	IsActive     bool      `json:"is_active" doc:"Whether the account may sign in"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update time"`
}

// IsSuperAdmin reports whether the user has the super admin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// Actor returns the identity used for authorization decisions.
func (u *User) Actor() *Actor {
	return &Actor{ID: u.ID, Role: u.Role}
}

// Sanitized returns a copy of the user without the password hash.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	return &c
}
