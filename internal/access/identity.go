package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Identity is the resolved caller of an operation.
type Identity struct {
	UserID   string
	Username string
	Role     models.RoleName
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Anonymous reports whether the identity is the zero value.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// TokenVerifier maps a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Subject(token string) (string, error)
}

// Resolver resolves callers from tokens.
type Resolver struct {
	tokens TokenVerifier
	users  models.UserRepository
	roles  models.RoleRepository
}

func NewResolver(tokens TokenVerifier, users models.UserRepository, roles models.RoleRepository) *Resolver {
	return &Resolver{tokens: tokens, users: users, roles: roles}
}

// Resolve maps token to the [Identity] of an active user.
//
// Every failure, including an unknown or deactivated user, is an identity error.
func (r *Resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	userID, err := r.tokens.Subject(token)
	if err != nil {
		return Identity{}, err
	}
	return r.ForUser(ctx, userID)
}

// ForUser resolves the identity of userID without a token.
func (r *Resolver) ForUser(ctx context.Context, userID string) (Identity, error) {
	user, err := r.users.Get(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return Identity{}, shared.Identity("unknown user")
	}
	if err != nil {
		return Identity{}, fmt.Errorf("failed to load caller: %w", err)
	}

	if !user.Active {
		return Identity{}, shared.Identity("user is deactivated")
	}

	role, err := r.roles.Get(ctx, user.RoleID)
	if errors.Is(err, shared.ErrNotFound) {
		return Identity{}, shared.Identity("user has no role")
	}
	if err != nil {
		return Identity{}, fmt.Errorf("failed to load caller role: %w", err)
	}

	return Identity{UserID: user.ID, Username: user.Username, Role: role.Privilege()}, nil
}
