package auth

import "time"

// Role classifies what a user account may do.
type Role string

const (
	// RoleAdmin may manage other user accounts.
	RoleAdmin Role = "admin"
	// RoleMember is the default role for registered users.
	RoleMember Role = "member"
)

// Meta is free-form user metadata, parsed and serialized only at the
// storage boundary.
type Meta map[string]any

// User represents a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Meta         Meta
	IsActive     bool
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// PublicUser is the JSON shape of a user exposed to clients.
// The password hash never leaves the storage boundary.
type PublicUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Meta      Meta       `json:"meta"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
	IsActive  bool       `json:"is_active"`
	Role      Role       `json:"role"`
}

// Public strips the password hash for client responses.
func (u *User) Public() PublicUser {
	meta := u.Meta
	if meta == nil {
		meta = Meta{}
	}
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Meta:      meta,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
		IsActive:  u.IsActive,
		Role:      u.Role,
	}
}

// Session is a bearer credential bound to one user for a bounded window.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
