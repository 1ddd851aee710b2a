package access

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Aggregate names the kinds of aggregates with an active flag.
type Aggregate string

const (
	AggregateUser   Aggregate = "user"
	AggregateArtist Aggregate = "artist"
)

// Toggler flips active flags. Deactivation never cascades: a deactivated
// artist's songs and albums stay readable.
type Toggler struct {
	users   models.UserRepository
	artists models.ArtistRepository
	authz   *Authorizer
}

func NewToggler(users models.UserRepository, artists models.ArtistRepository, authz *Authorizer) *Toggler {
	return &Toggler{users: users, artists: artists, authz: authz}
}

// Toggle dispatches on kind and returns the new active state.
func (t *Toggler) Toggle(ctx context.Context, caller Identity, kind Aggregate, id string) (bool, error) {
	switch kind {
	case AggregateUser:
		return t.ToggleUser(ctx, caller, id)
	case AggregateArtist:
		return t.ToggleArtist(ctx, caller, id)
	}
	return false, shared.Validation(fmt.Sprintf("%q has no active flag", kind))
}

// ToggleUser flips a user's active flag. Administrators only, and never their own account.
func (t *Toggler) ToggleUser(ctx context.Context, caller Identity, userID string) (bool, error) {
	user, err := t.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	if err := t.authz.Authorize(caller, ActionToggleUser, Subject{Kind: "user", ID: user.ID, OwnerID: user.ID}); err != nil {
		return false, err
	}
	if caller.UserID == user.ID {
		return false, shared.Validation("administrators cannot deactivate their own account")
	}

	user.Active = !user.Active
	user.UpdatedAt = time.Now()
	if err := t.users.Update(ctx, user); err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}
	return user.Active, nil
}

// ToggleArtist flips an artist profile's active flag. Owner or administrator.
func (t *Toggler) ToggleArtist(ctx context.Context, caller Identity, artistID string) (bool, error) {
	artist, err := t.artists.Get(ctx, artistID)
	if err != nil {
		return false, err
	}

	if err := t.authz.Authorize(caller, ActionToggleArtist, Subject{Kind: "artist", ID: artist.ID, OwnerID: artist.UserID}); err != nil {
		return false, err
	}

	artist.Active = !artist.Active
	artist.UpdatedAt = time.Now()
	if err := t.artists.Update(ctx, artist); err != nil {
		return false, fmt.Errorf("failed to update artist: %w", err)
	}
	return artist.Active, nil
}
