package main

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/services"
	"github.com/desertthunder/tunebase/internal/ui"
)

type userRow struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// findUser looks a user up by username through the administrator listing.
func findUser(ctx context.Context, svc *services.Services, caller access.Identity, username string) (*models.User, error) {
	users, err := svc.Users.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	user, ok := lo.Find(users, func(u *models.User) bool { return u.Username == username })
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUserNotFound, username)
	}
	return user, nil
}

// UsersList prints every account with its role and state.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	svc, caller, err := r.operator(ctx)
	if err != nil {
		return err
	}

	users, err := svc.Users.List(ctx, caller)
	if err != nil {
		return err
	}

	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		role, err := svc.Users.RoleOf(ctx, u)
		if err != nil {
			return err
		}
		rows = append(rows, userRow{ID: u.ID, Username: u.Username, Email: u.Email, Role: role.Name, Active: u.Active})
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	table := lo.Map(rows, func(u userRow, _ int) []string {
		return []string{u.Username, u.Email, u.Role, ui.Active(u.Active), u.ID}
	})
	r.writePlain("%s\n", ui.Title(fmt.Sprintf("Users (%d)", len(rows))))
	return r.writePlain("%s\n", ui.Table([]string{"Username", "Email", "Role", "State", "ID"}, table))
}

// UsersPromote assigns --role to the named user.
func (r *Runner) UsersPromote(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if err := requireArg("username", username); err != nil {
		return err
	}

	svc, caller, err := r.operator(ctx)
	if err != nil {
		return err
	}

	user, err := findUser(ctx, svc, caller, username)
	if err != nil {
		return err
	}

	role := cmd.String("role")
	if _, err := svc.Users.Update(ctx, caller, user.ID, services.UserUpdate{Role: &role}); err != nil {
		return err
	}

	r.logger.Info("role assigned", "username", username, "role", role)
	return r.writePlain("%s\n", ui.Success(fmt.Sprintf("✓ %s is now %s", username, role)))
}

// UsersToggle flips the active flag of the named user.
func (r *Runner) UsersToggle(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if err := requireArg("username", username); err != nil {
		return err
	}

	svc, caller, err := r.operator(ctx)
	if err != nil {
		return err
	}

	user, err := findUser(ctx, svc, caller, username)
	if err != nil {
		return err
	}

	active, err := svc.Users.ToggleActive(ctx, caller, user.ID)
	if err != nil {
		return err
	}

	return r.writePlain("%s is now %s\n", username, ui.Active(active))
}
