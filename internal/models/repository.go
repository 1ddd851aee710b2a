package models

import "context"

// Lookups that miss return a [shared.KindNotFound] error; natural-key
// violations caught by storage return [shared.KindAlreadyExists].

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	List(ctx context.Context) ([]*User, error)
	CountByRole(ctx context.Context, roleID string) (int, error)
}

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	Get(ctx context.Context, id string) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Role, error)
}

type ArtistRepository interface {
	Create(ctx context.Context, artist *Artist) error
	Get(ctx context.Context, id string) (*Artist, error)
	GetByUser(ctx context.Context, userID string) (*Artist, error)
	Update(ctx context.Context, artist *Artist) error
	List(ctx context.Context) ([]*Artist, error)
}

type GenreRepository interface {
	Create(ctx context.Context, genre *Genre) error
	Get(ctx context.Context, id string) (*Genre, error)
	Update(ctx context.Context, genre *Genre) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Genre, error)
}

type SongRepository interface {
	Create(ctx context.Context, song *Song) error
	Get(ctx context.Context, id string) (*Song, error)
	Update(ctx context.Context, song *Song) error
	Delete(ctx context.Context, id string) error
	ListByArtist(ctx context.Context, artistID string) ([]*Song, error)
}

type AlbumRepository interface {
	Create(ctx context.Context, album *Album) error
	Get(ctx context.Context, id string) (*Album, error)
	Update(ctx context.Context, album *Album) error
	Delete(ctx context.Context, id string) error
	ListByArtist(ctx context.Context, artistID string) ([]*Album, error)
	CountByGenre(ctx context.Context, genreID string) (int, error)
	CountBySong(ctx context.Context, songID string) (int, error)
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *Playlist) error
	Get(ctx context.Context, id string) (*Playlist, error)
	Update(ctx context.Context, playlist *Playlist) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Playlist, error)
	ListPublic(ctx context.Context) ([]*Playlist, error)
}

type ShortcutsRepository interface {
	Create(ctx context.Context, shortcuts *Shortcuts) error
	Get(ctx context.Context, id string) (*Shortcuts, error)
	GetByUser(ctx context.Context, userID string) (*Shortcuts, error)
}

// MembershipRepository stores the edges of every [Relation].
//
// Add fails with [shared.KindAlreadyMember] when the edge exists and Remove
// with [shared.KindNotMember] when it does not, so that a lost check-then-write
// race surfaces the same error as the pre-check.
type MembershipRepository interface {
	Has(ctx context.Context, rel Relation, ownerID, memberID string) (bool, error)
	Add(ctx context.Context, rel Relation, ownerID, memberID string) error
	Remove(ctx context.Context, rel Relation, ownerID, memberID string) error
	Members(ctx context.Context, rel Relation, ownerID string) ([]string, error)
}

// KeyIndex answers scoped-uniqueness checks.
type KeyIndex interface {
	Exists(ctx context.Context, key UniqueKey) (bool, error)
}

// Store bundles every persistence collaborator.
type Store struct {
	Users     UserRepository
	Roles     RoleRepository
	Artists   ArtistRepository
	Genres    GenreRepository
	Songs     SongRepository
	Albums    AlbumRepository
	Playlists PlaylistRepository
	Shortcuts ShortcutsRepository
	Members   MembershipRepository
	Keys      KeyIndex
}
