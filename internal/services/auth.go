package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// SignupInput is a new account request.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthService creates accounts and exchanges credentials for bearer tokens.
type AuthService struct {
	*core
	tokens *access.Tokens
	cost   int
}

func hashPassword(password string, cost int) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", shared.Validation("password is required")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func userKeys(username, email, excludeID string) []models.UniqueKey {
	return []models.UniqueKey{
		{Kind: models.KeyUsername, Value: username, ExcludeID: excludeID},
		{Kind: models.KeyEmail, Value: email, ExcludeID: excludeID},
	}
}

// Signup registers a USER account together with its empty shortcuts.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	keys := userKeys(username, email, "")
	if err := s.guard.CheckAll(ctx, keys...); err != nil {
		return nil, err
	}

	roles, err := ensureRoles(ctx, s.store.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(username, email, hash, roles[models.RoleUser].ID)
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, s.guard.Settle(ctx, err, keys...)
	}

	if err := s.store.Shortcuts.Create(ctx, models.NewShortcuts(user.ID)); err != nil {
		s.log("auth").Warn("shortcuts deferred to first use", "id", user.ID, "err", err)
	}

	s.log("auth").Info("user signed up", "id", user.ID, "username", user.Username)
	return user, nil
}

// Login exchanges a username (or email) and password for a token.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *models.User, error) {
	login = strings.TrimSpace(login)

	user, err := s.store.Users.GetByUsername(ctx, login)
	if errors.Is(err, shared.ErrNotFound) && strings.Contains(login, "@") {
		user, err = s.store.Users.GetByEmail(ctx, login)
	}
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil, shared.Identity("invalid credentials")
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log("auth").Warn("failed login", "username", user.Username)
		return "", nil, shared.Identity("invalid credentials")
	}

	if !user.Active {
		return "", nil, shared.Identity("user is deactivated")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
