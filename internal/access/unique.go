package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Guard enforces scoped-uniqueness rules.
//
// A check followed by a write is not atomic; the storage unique indexes are the
// backstop and [Guard.Translate] folds their rejection into the check's error.
type Guard struct {
	keys models.KeyIndex
}

func NewGuard(keys models.KeyIndex) *Guard {
	return &Guard{keys: keys}
}

// Check returns an already-exists error when key collides with a record other than key.ExcludeID.
func (g *Guard) Check(ctx context.Context, key models.UniqueKey) error {
	exists, err := g.keys.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check %s uniqueness: %w", key.Kind, err)
	}
	if exists {
		return Conflict(key)
	}
	return nil
}

// CheckAll runs [Guard.Check] for each key and stops at the first failure.
func (g *Guard) CheckAll(ctx context.Context, keys ...models.UniqueKey) error {
	for _, key := range keys {
		if err := g.Check(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Translate maps a storage-layer duplicate rejection for key onto [Conflict].
// Any other error passes through unchanged.
func (g *Guard) Translate(key models.UniqueKey, err error) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return Conflict(key)
	}
	return err
}

// Settle translates a storage rejection for a write guarded by several keys.
//
// The keys are checked again so the error names the key that actually collided;
// when the check no longer sees the collision the first key is reported.
func (g *Guard) Settle(ctx context.Context, err error, keys ...models.UniqueKey) error {
	if !errors.Is(err, shared.ErrAlreadyExists) || len(keys) == 0 {
		return err
	}
	if cerr := g.CheckAll(ctx, keys...); cerr != nil && shared.KindOf(cerr) == shared.KindAlreadyExists {
		return cerr
	}
	return Conflict(keys[0])
}

// Conflict builds the kind-specific already-exists error for key.
func Conflict(key models.UniqueKey) *shared.Error {
	switch key.Kind {
	case models.KeyAlbumTitle:
		return shared.AlreadyExists("album", fmt.Sprintf("album %q already exists for this artist", key.Value))
	case models.KeySongTitle:
		return shared.AlreadyExists("song", fmt.Sprintf("song %q already exists for this artist", key.Value))
	case models.KeyPlaylistName:
		return shared.AlreadyExists("playlist", fmt.Sprintf("playlist %q already exists", key.Value))
	case models.KeyGenreName:
		return shared.AlreadyExists("genre", fmt.Sprintf("genre %q already exists", key.Value))
	case models.KeyRoleName:
		return shared.AlreadyExists("role", fmt.Sprintf("role %q already exists", key.Value))
	case models.KeyUsername:
		return shared.AlreadyExists("user", fmt.Sprintf("username %q is taken", key.Value))
	case models.KeyEmail:
		return shared.AlreadyExists("user", fmt.Sprintf("email %q is already registered", key.Value))
	}
	return shared.AlreadyExists(string(key.Kind), fmt.Sprintf("%s %q already exists", key.Kind, key.Value))
}
