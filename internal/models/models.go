package models

import (
	"strings"
	"time"

	"github.com/desertthunder/tunebase/internal/shared"
)

// RoleName is the closed set of privilege levels the authorizer understands.
type RoleName string

const (
	RoleUser  RoleName = "USER"
	RoleAdmin RoleName = "ADMIN"
)

// ParseRoleName maps a stored role name onto a [RoleName].
//
// Any name other than ADMIN (case-insensitive) carries USER privileges.
func ParseRoleName(name string) RoleName {
	if strings.EqualFold(strings.TrimSpace(name), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// User is an account. Users are deactivated, never removed.
type User struct {
	ID           string
	Sequence     int
	Username     string
	Email        string
	PasswordHash string
	RoleID       string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates an active [User] with creation timestamps set.
func NewUser(username, email, passwordHash, roleID string) *User {
	now := time.Now()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		RoleID:       roleID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *User) Validate() error {
	switch {
	case strings.TrimSpace(u.Username) == "":
		return shared.Validation("username is required")
	case !strings.Contains(u.Email, "@"):
		return shared.Validation("email is invalid")
	case u.PasswordHash == "":
		return shared.Validation("password is required")
	case u.RoleID == "":
		return shared.Validation("role is required")
	}
	return nil
}

// Role is a named role. Its name decides the [RoleName] of every user referencing it.
type Role struct {
	ID          string
	Sequence    int
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewRole(name, description string) *Role {
	now := time.Now()
	return &Role{Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
}

// Privilege returns the authorization level granted by this role.
func (r *Role) Privilege() RoleName {
	return ParseRoleName(r.Name)
}

func (r *Role) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return shared.Validation("role name is required")
	}
	return nil
}
