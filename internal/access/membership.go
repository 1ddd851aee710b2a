package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Lookup confirms that an aggregate exists (and, where relevant, is visible to
// the caller), returning the lookup's error unchanged otherwise.
type Lookup func(ctx context.Context, id string) error

// Binding is one relation instance together with how to resolve both ends.
type Binding struct {
	Relation       models.Relation
	OwnerResource  string
	MemberResource string
	Owner          Lookup
	Member         Lookup
}

// Manager mutates membership relations. Authorization happens before any call.
type Manager struct {
	members models.MembershipRepository
}

func NewManager(members models.MembershipRepository) *Manager {
	return &Manager{members: members}
}

// Add inserts memberID into ownerID's relation. A present member is an already-member error.
func (m *Manager) Add(ctx context.Context, b Binding, ownerID, memberID string) error {
	present, err := m.resolve(ctx, b, ownerID, memberID)
	if err != nil {
		return err
	}
	if present {
		return shared.AlreadyMember(b.OwnerResource, b.MemberResource)
	}

	if err := m.members.Add(ctx, b.Relation, ownerID, memberID); err != nil {
		if errors.Is(err, shared.ErrAlreadyMember) {
			return shared.AlreadyMember(b.OwnerResource, b.MemberResource)
		}
		return fmt.Errorf("failed to add %s to %s: %w", b.MemberResource, b.OwnerResource, err)
	}
	return nil
}

// Remove deletes memberID from ownerID's relation. An absent member is a not-member error.
func (m *Manager) Remove(ctx context.Context, b Binding, ownerID, memberID string) error {
	present, err := m.resolve(ctx, b, ownerID, memberID)
	if err != nil {
		return err
	}
	if !present {
		return shared.NotMember(b.OwnerResource, b.MemberResource)
	}

	if err := m.members.Remove(ctx, b.Relation, ownerID, memberID); err != nil {
		if errors.Is(err, shared.ErrNotMember) {
			return shared.NotMember(b.OwnerResource, b.MemberResource)
		}
		return fmt.Errorf("failed to remove %s from %s: %w", b.MemberResource, b.OwnerResource, err)
	}
	return nil
}

// List returns the member ids of ownerID.
func (m *Manager) List(ctx context.Context, b Binding, ownerID string) ([]string, error) {
	if b.Owner != nil {
		if err := b.Owner(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	ids, err := m.members.Members(ctx, b.Relation, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s members: %w", b.Relation, err)
	}
	return ids, nil
}

// resolve runs owner lookup, member lookup and the membership test, in that order.
func (m *Manager) resolve(ctx context.Context, b Binding, ownerID, memberID string) (bool, error) {
	if b.Owner != nil {
		if err := b.Owner(ctx, ownerID); err != nil {
			return false, err
		}
	}
	if b.Member != nil {
		if err := b.Member(ctx, memberID); err != nil {
			return false, err
		}
	}

	present, err := m.members.Has(ctx, b.Relation, ownerID, memberID)
	if err != nil {
		return false, fmt.Errorf("failed to check %s membership: %w", b.Relation, err)
	}
	return present, nil
}
