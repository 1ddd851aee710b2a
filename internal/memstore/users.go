package memstore

import (
	"context"
	"sort"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

type userRepo struct{ s *Store }

func userKeys(u *models.User) []models.UniqueKey {
	return []models.UniqueKey{
		{Kind: models.KeyUsername, Value: u.Username, ExcludeID: u.ID},
		{Kind: models.KeyEmail, Value: u.Email, ExcludeID: u.ID},
	}
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = shared.GenerateID()
	if err := r.s.violates(userKeys(user)...); err != nil {
		return err
	}
	user.Sequence = r.s.nextSequence()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Get(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, shared.NotFound("user", id)
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, shared.NotFound("user", username)
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if sameKey(models.KeyEmail, u.Email, email) {
			return &u, nil
		}
	}
	return nil, shared.NotFound("user", email)
}

func (r *userRepo) Update(_ context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return shared.NotFound("user", user.ID)
	}
	if err := r.s.violates(userKeys(user)...); err != nil {
		return err
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) List(_ context.Context) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Sequence < users[j].Sequence })
	return users, nil
}

func (r *userRepo) CountByRole(_ context.Context, roleID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, u := range r.s.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

type roleRepo struct{ s *Store }

func (r *roleRepo) Create(_ context.Context, role *models.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	role.ID = shared.GenerateID()
	if err := r.s.violates(models.UniqueKey{Kind: models.KeyRoleName, Value: role.Name, ExcludeID: role.ID}); err != nil {
		return err
	}
	role.Sequence = r.s.nextSequence()
	r.s.roles[role.ID] = *role
	return nil
}

func (r *roleRepo) Get(_ context.Context, id string) (*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	role, ok := r.s.roles[id]
	if !ok {
		return nil, shared.NotFound("role", id)
	}
	return &role, nil
}

func (r *roleRepo) GetByName(_ context.Context, name string) (*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, role := range r.s.roles {
		if sameKey(models.KeyRoleName, role.Name, name) {
			return &role, nil
		}
	}
	return nil, shared.NotFound("role", name)
}

func (r *roleRepo) Update(_ context.Context, role *models.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[role.ID]; !ok {
		return shared.NotFound("role", role.ID)
	}
	if err := r.s.violates(models.UniqueKey{Kind: models.KeyRoleName, Value: role.Name, ExcludeID: role.ID}); err != nil {
		return err
	}
	r.s.roles[role.ID] = *role
	return nil
}

func (r *roleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.roles[id]; !ok {
		return shared.NotFound("role", id)
	}
	delete(r.s.roles, id)
	return nil
}

func (r *roleRepo) List(_ context.Context) ([]*models.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	roles := make([]*models.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		role := role
		roles = append(roles, &role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Sequence < roles[j].Sequence })
	return roles, nil
}
