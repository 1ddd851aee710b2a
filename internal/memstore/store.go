// Package memstore is an arena-style, in-memory implementation of every [models] repository.
//
// Aggregates live in id-keyed maps and relations in separate edge sets, so there are no
// back-references between aggregates. The store enforces the same unique and membership
// constraints as the SQLite schema; it backs tests and `serve --memory`.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Store holds every aggregate and relation edge behind one lock.
type Store struct {
	mu  sync.RWMutex
	seq int

	users     map[string]models.User
	roles     map[string]models.Role
	artists   map[string]models.Artist
	genres    map[string]models.Genre
	songs     map[string]models.Song
	albums    map[string]models.Album
	playlists map[string]models.Playlist
	shortcuts map[string]models.Shortcuts

	edges map[models.Relation]map[string]mapset.Set
}

func New() *Store {
	return &Store{
		users:     make(map[string]models.User),
		roles:     make(map[string]models.Role),
		artists:   make(map[string]models.Artist),
		genres:    make(map[string]models.Genre),
		songs:     make(map[string]models.Song),
		albums:    make(map[string]models.Album),
		playlists: make(map[string]models.Playlist),
		shortcuts: make(map[string]models.Shortcuts),
		edges: map[models.Relation]map[string]mapset.Set{
			models.PlaylistSongs:     {},
			models.ShortcutPlaylists: {},
			models.ShortcutAlbums:    {},
		},
	}
}

// Repositories returns the [models.Store] view of s.
func (s *Store) Repositories() *models.Store {
	return &models.Store{
		Users:     &userRepo{s},
		Roles:     &roleRepo{s},
		Artists:   &artistRepo{s},
		Genres:    &genreRepo{s},
		Songs:     &songRepo{s},
		Albums:    &albumRepo{s},
		Playlists: &playlistRepo{s},
		Shortcuts: &shortcutsRepo{s},
		Members:   &memberRepo{s},
		Keys:      &keyIndex{s},
	}
}

// nextSequence must be called with the write lock held.
func (s *Store) nextSequence() int {
	s.seq++
	return s.seq
}

func sameKey(kind models.KeyKind, a, b string) bool {
	if kind.CaseSensitive() {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// exists answers a uniqueness check; the caller holds at least the read lock.
func (s *Store) exists(key models.UniqueKey) bool {
	match := func(id, scope, value string) bool {
		if id == key.ExcludeID {
			return false
		}
		if key.Kind.Scoped() && scope != key.Scope {
			return false
		}
		return sameKey(key.Kind, value, key.Value)
	}

	switch key.Kind {
	case models.KeyAlbumTitle:
		for _, a := range s.albums {
			if match(a.ID, a.ArtistID, a.Title) {
				return true
			}
		}
	case models.KeySongTitle:
		for _, so := range s.songs {
			if match(so.ID, so.ArtistID, so.Title) {
				return true
			}
		}
	case models.KeyPlaylistName:
		for _, p := range s.playlists {
			if match(p.ID, p.OwnerID, p.Name) {
				return true
			}
		}
	case models.KeyGenreName:
		for _, g := range s.genres {
			if match(g.ID, "", g.Name) {
				return true
			}
		}
	case models.KeyRoleName:
		for _, r := range s.roles {
			if match(r.ID, "", r.Name) {
				return true
			}
		}
	case models.KeyUsername:
		for _, u := range s.users {
			if match(u.ID, "", u.Username) {
				return true
			}
		}
	case models.KeyEmail:
		for _, u := range s.users {
			if match(u.ID, "", u.Email) {
				return true
			}
		}
	}
	return false
}

// violates reports the first key already taken, mirroring a unique index.
func (s *Store) violates(keys ...models.UniqueKey) error {
	for _, key := range keys {
		if s.exists(key) {
			return shared.AlreadyExists(string(key.Kind), "unique constraint violated: "+string(key.Kind))
		}
	}
	return nil
}

// dropEdges removes id from every owner set of rel (as member) and its own set (as owner).
func (s *Store) dropEdges(rel models.Relation, id string) {
	delete(s.edges[rel], id)
	for _, set := range s.edges[rel] {
		set.Remove(id)
	}
}

type keyIndex struct{ s *Store }

func (k *keyIndex) Exists(_ context.Context, key models.UniqueKey) (bool, error) {
	k.s.mu.RLock()
	defer k.s.mu.RUnlock()
	return k.s.exists(key), nil
}

type memberRepo struct{ s *Store }

func (m *memberRepo) Has(_ context.Context, rel models.Relation, ownerID, memberID string) (bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	set, ok := m.s.edges[rel][ownerID]
	return ok && set.Contains(memberID), nil
}

func (m *memberRepo) Add(_ context.Context, rel models.Relation, ownerID, memberID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	owners, ok := m.s.edges[rel]
	if !ok {
		return shared.Validation("unknown relation " + string(rel))
	}
	set, ok := owners[ownerID]
	if !ok {
		set = mapset.NewSet()
		owners[ownerID] = set
	}
	if !set.Add(memberID) {
		return shared.AlreadyMember(string(rel), memberID)
	}
	return nil
}

func (m *memberRepo) Remove(_ context.Context, rel models.Relation, ownerID, memberID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	set, ok := m.s.edges[rel][ownerID]
	if !ok || !set.Contains(memberID) {
		return shared.NotMember(string(rel), memberID)
	}
	set.Remove(memberID)
	return nil
}

func (m *memberRepo) Members(_ context.Context, rel models.Relation, ownerID string) ([]string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	set, ok := m.s.edges[rel][ownerID]
	if !ok {
		return []string{}, nil
	}

	ids := make([]string, 0, set.Cardinality())
	for _, v := range set.ToSlice() {
		ids = append(ids, v.(string))
	}
	sort.Strings(ids)
	return ids, nil
}
