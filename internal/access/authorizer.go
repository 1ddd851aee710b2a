package access

import (
	"github.com/desertthunder/tunebase/internal/shared"
)

// Action is an operation class the authorizer decides on.
type Action int

const (
	// ActionRead reads a resource that may be hidden.
	ActionRead Action = iota
	// ActionWrite mutates or deletes a user-owned resource (playlist, shortcuts, profile).
	ActionWrite
	// ActionWriteArtistOwned mutates or deletes an artist-owned resource (album, song).
	ActionWriteArtistOwned
	// ActionChangeRole changes the role field of any user, the caller included.
	ActionChangeRole
	// ActionToggleUser activates or deactivates a user account.
	ActionToggleUser
	// ActionToggleArtist activates or deactivates an artist profile.
	ActionToggleArtist
	// ActionAdminister covers catalog administration (roles, genres, user listings).
	ActionAdminister
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionWrite:
		return "write"
	case ActionWriteArtistOwned:
		return "write artist-owned"
	case ActionChangeRole:
		return "change role"
	case ActionToggleUser:
		return "toggle user"
	case ActionToggleArtist:
		return "toggle artist"
	case ActionAdminister:
		return "administer"
	}
	return "unknown"
}

// Subject describes the resource an action targets.
//
// OwnerID is the owning user. For artist-owned resources ArtistID is the owning
// artist and CallerArtistID the caller's own artist profile ("" when none).
type Subject struct {
	Kind           string
	ID             string
	OwnerID        string
	Public         bool
	ArtistID       string
	CallerArtistID string
}

type rule func(id Identity, s Subject) bool

func isOwner(id Identity, s Subject) bool {
	return !id.Anonymous() && id.UserID == s.OwnerID
}

func isArtistOwner(_ Identity, s Subject) bool {
	return s.CallerArtistID != "" && s.CallerArtistID == s.ArtistID
}

var rules = map[Action]rule{
	ActionRead: func(id Identity, s Subject) bool {
		return s.Public || isOwner(id, s) || id.IsAdmin()
	},
	ActionWrite: func(id Identity, s Subject) bool {
		return isOwner(id, s) || id.IsAdmin()
	},
	ActionWriteArtistOwned: isArtistOwner,
	ActionChangeRole: func(id Identity, _ Subject) bool {
		return id.IsAdmin()
	},
	ActionToggleUser: func(id Identity, _ Subject) bool {
		return id.IsAdmin()
	},
	ActionToggleArtist: func(id Identity, s Subject) bool {
		return isOwner(id, s) || id.IsAdmin()
	},
	ActionAdminister: func(id Identity, _ Subject) bool {
		return id.IsAdmin()
	},
}

// Decide reports whether id may perform act on s. Unknown actions are denied.
func Decide(id Identity, act Action, s Subject) bool {
	r, ok := rules[act]
	return ok && r(id, s)
}

// Authorizer turns [Decide] into typed errors. It performs no I/O.
type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Authorize returns nil when allowed, a not-public error for denied reads,
// and an access-denied error for every other denial.
func (a *Authorizer) Authorize(id Identity, act Action, s Subject) error {
	if Decide(id, act, s) {
		return nil
	}
	if act == ActionRead {
		return shared.NotPublic(s.Kind, s.ID)
	}
	return shared.AccessDenied(denialMessage(act, s))
}

func denialMessage(act Action, s Subject) string {
	switch act {
	case ActionChangeRole:
		return "only administrators may change roles"
	case ActionToggleUser:
		return "only administrators may activate or deactivate users"
	case ActionAdminister:
		return "administrator role required"
	case ActionWriteArtistOwned:
		return "only the owning artist may modify this " + s.Kind
	}
	if s.Kind == "" {
		return "access denied"
	}
	return "not allowed to " + act.String() + " this " + s.Kind
}

// CanRead is shorthand for an [ActionRead] check.
func (a *Authorizer) CanRead(id Identity, kind, resourceID, ownerID string, public bool) error {
	return a.Authorize(id, ActionRead, Subject{Kind: kind, ID: resourceID, OwnerID: ownerID, Public: public})
}

// CanWrite is shorthand for an [ActionWrite] check.
func (a *Authorizer) CanWrite(id Identity, kind, resourceID, ownerID string) error {
	return a.Authorize(id, ActionWrite, Subject{Kind: kind, ID: resourceID, OwnerID: ownerID})
}

// CanWriteArtistOwned is shorthand for an [ActionWriteArtistOwned] check.
func (a *Authorizer) CanWriteArtistOwned(id Identity, kind, resourceID, artistID, callerArtistID string) error {
	return a.Authorize(id, ActionWriteArtistOwned, Subject{Kind: kind, ID: resourceID, ArtistID: artistID, CallerArtistID: callerArtistID})
}

// Administer is shorthand for an [ActionAdminister] check on kind.
func (a *Authorizer) Administer(id Identity, kind string) error {
	return a.Authorize(id, ActionAdminister, Subject{Kind: kind})
}
