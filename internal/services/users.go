package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// UserUpdate is a partial profile update. Nil fields are left unchanged.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// UserService manages accounts.
type UserService struct {
	*core
	cost int
}

// Get returns any user to an identified caller.
func (s *UserService) Get(ctx context.Context, caller access.Identity, id string) (*models.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.store.Users.Get(ctx, id)
}

// Me returns the caller's own account.
func (s *UserService) Me(ctx context.Context, caller access.Identity) (*models.User, error) {
	return s.Get(ctx, caller, caller.UserID)
}

// List returns every account. Administrators only.
func (s *UserService) List(ctx context.Context, caller access.Identity) ([]*models.User, error) {
	if err := s.authz.Administer(caller, "user"); err != nil {
		return nil, err
	}
	return s.store.Users.List(ctx)
}

// RoleOf returns the role referenced by user.
func (s *UserService) RoleOf(ctx context.Context, user *models.User) (*models.Role, error) {
	return s.store.Roles.Get(ctx, user.RoleID)
}

// Update changes a profile. Only the user or an administrator may update it, and
// only an administrator may change any role, their own included. The role check
// runs before the role is looked up.
func (s *UserService) Update(ctx context.Context, caller access.Identity, id string, in UserUpdate) (*models.User, error) {
	user, err := s.store.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authz.CanWrite(caller, "user", user.ID, user.ID); err != nil {
		return nil, err
	}

	if in.Role != nil {
		if err := s.authz.Authorize(caller, access.ActionChangeRole, access.Subject{Kind: "user", ID: user.ID, OwnerID: user.ID}); err != nil {
			return nil, err
		}
		role, err := s.store.Roles.GetByName(ctx, strings.TrimSpace(*in.Role))
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
	}

	set(&user.Username, in.Username)
	set(&user.Email, in.Email)

	keys := userKeys(user.Username, user.Email, user.ID)
	if err := s.guard.CheckAll(ctx, keys...); err != nil {
		return nil, err
	}

	if in.Password != nil {
		hash, err := hashPassword(*in.Password, s.cost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now()
	if err := s.store.Users.Update(ctx, user); err != nil {
		return nil, s.guard.Settle(ctx, err, keys...)
	}

	s.log("users").Info("user updated", "id", user.ID, "by", caller.UserID)
	return user, nil
}

// ToggleActive flips a user's active flag and returns the new state.
func (s *UserService) ToggleActive(ctx context.Context, caller access.Identity, id string) (bool, error) {
	active, err := s.toggler.Toggle(ctx, caller, access.AggregateUser, id)
	if err != nil {
		return false, err
	}
	s.log("users").Info("user toggled", "id", id, "active", active, "by", caller.UserID)
	return active, nil
}

// RoleInput creates or renames a role.
type RoleInput struct {
	Name        string
	Description string
}

// RoleService manages roles. Mutations are restricted to administrators.
type RoleService struct {
	*core
}

func (s *RoleService) Get(ctx context.Context, caller access.Identity, id string) (*models.Role, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.store.Roles.Get(ctx, id)
}

func (s *RoleService) List(ctx context.Context, caller access.Identity) ([]*models.Role, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.store.Roles.List(ctx)
}

func (s *RoleService) Create(ctx context.Context, caller access.Identity, in RoleInput) (*models.Role, error) {
	if err := s.authz.Administer(caller, "role"); err != nil {
		return nil, err
	}

	role := models.NewRole(strings.TrimSpace(in.Name), strings.TrimSpace(in.Description))
	key := models.UniqueKey{Kind: models.KeyRoleName, Value: role.Name}
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}
	if err := s.store.Roles.Create(ctx, role); err != nil {
		return nil, s.guard.Translate(key, err)
	}

	s.log("roles").Info("role created", "id", role.ID, "name", role.Name)
	return role, nil
}

// Update renames or redescribes a role. Built-in roles keep their names.
func (s *RoleService) Update(ctx context.Context, caller access.Identity, id string, in RoleInput) (*models.Role, error) {
	if err := s.authz.Administer(caller, "role"); err != nil {
		return nil, err
	}

	role, err := s.store.Roles.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = role.Name
	}
	if isBuiltin(role) && !strings.EqualFold(name, role.Name) {
		return nil, shared.Validation(fmt.Sprintf("built-in role %s cannot be renamed", role.Name))
	}

	key := models.UniqueKey{Kind: models.KeyRoleName, Value: name, ExcludeID: role.ID}
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}

	role.Name = name
	role.Description = strings.TrimSpace(in.Description)
	if err := s.store.Roles.Update(ctx, role); err != nil {
		return nil, s.guard.Translate(key, err)
	}
	return role, nil
}

// Delete removes a role no user references. Built-in roles cannot be deleted.
func (s *RoleService) Delete(ctx context.Context, caller access.Identity, id string) error {
	if err := s.authz.Administer(caller, "role"); err != nil {
		return err
	}

	role, err := s.store.Roles.Get(ctx, id)
	if err != nil {
		return err
	}
	if isBuiltin(role) {
		return shared.Validation(fmt.Sprintf("built-in role %s cannot be deleted", role.Name))
	}

	n, err := s.store.Users.CountByRole(ctx, role.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.InUse("role", fmt.Sprintf("role %s is assigned to %d user(s)", role.Name, n))
	}

	if err := s.store.Roles.Delete(ctx, role.ID); err != nil {
		return err
	}
	s.log("roles").Info("role deleted", "id", role.ID, "name", role.Name)
	return nil
}

func isBuiltin(role *models.Role) bool {
	_, ok := builtinRoles[models.RoleName(strings.ToUpper(role.Name))]
	return ok
}
