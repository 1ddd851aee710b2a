package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

var builtinRoles = map[models.RoleName]string{
	models.RoleUser:  "Default role for listeners and artists",
	models.RoleAdmin: "Full administrative access",
}

// ensureRoles creates any missing built-in role and returns both of them.
func ensureRoles(ctx context.Context, roles models.RoleRepository) (map[models.RoleName]*models.Role, error) {
	out := make(map[models.RoleName]*models.Role, len(builtinRoles))
	for name, description := range builtinRoles {
		role, err := roles.GetByName(ctx, string(name))
		if errors.Is(err, shared.ErrNotFound) {
			role = models.NewRole(string(name), description)
			err = roles.Create(ctx, role)
			if errors.Is(err, shared.ErrAlreadyExists) {
				role, err = roles.GetByName(ctx, string(name))
			}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to ensure role %s: %w", name, err)
		}
		out[name] = role
	}
	return out, nil
}

// Bootstrap seeds the built-in roles and, when configured, the administrator account.
//
// It is idempotent: an existing administrator is returned unchanged.
func (s *Services) Bootstrap(ctx context.Context, admin shared.AdminConfig) (*models.User, error) {
	roles, err := ensureRoles(ctx, s.core.store.Roles)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(admin.Username)
	if username == "" {
		return nil, nil
	}

	existing, err := s.core.store.Users.GetByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := hashPassword(admin.Password, s.Auth.cost)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(username, strings.TrimSpace(admin.Email), hash, roles[models.RoleAdmin].ID)
	if err := s.core.store.Users.Create(ctx, user); err != nil {
		return nil, s.core.guard.Settle(ctx, err, userKeys(user.Username, user.Email, "")...)
	}
	if err := s.core.store.Shortcuts.Create(ctx, models.NewShortcuts(user.ID)); err != nil {
		return nil, fmt.Errorf("failed to create shortcuts: %w", err)
	}

	s.core.log("bootstrap").Info("administrator created", "id", user.ID, "username", user.Username)
	return user, nil
}
