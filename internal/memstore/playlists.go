package memstore

import (
	"context"
	"sort"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

type playlistRepo struct{ s *Store }

func playlistKey(p *models.Playlist) models.UniqueKey {
	return models.UniqueKey{Kind: models.KeyPlaylistName, Scope: p.OwnerID, Value: p.Name, ExcludeID: p.ID}
}

func (r *playlistRepo) Create(_ context.Context, playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	playlist.ID = shared.GenerateID()
	if err := r.s.violates(playlistKey(playlist)); err != nil {
		return err
	}
	playlist.Sequence = r.s.nextSequence()
	r.s.playlists[playlist.ID] = *playlist
	return nil
}

func (r *playlistRepo) Get(_ context.Context, id string) (*models.Playlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.playlists[id]
	if !ok {
		return nil, shared.NotFound("playlist", id)
	}
	return &p, nil
}

func (r *playlistRepo) Update(_ context.Context, playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.playlists[playlist.ID]; !ok {
		return shared.NotFound("playlist", playlist.ID)
	}
	if err := r.s.violates(playlistKey(playlist)); err != nil {
		return err
	}
	r.s.playlists[playlist.ID] = *playlist
	return nil
}

func (r *playlistRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.playlists[id]; !ok {
		return shared.NotFound("playlist", id)
	}
	delete(r.s.playlists, id)
	r.s.dropEdges(models.PlaylistSongs, id)
	r.s.dropEdges(models.ShortcutPlaylists, id)
	return nil
}

func (r *playlistRepo) list(keep func(p models.Playlist) bool) []*models.Playlist {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	playlists := []*models.Playlist{}
	for _, p := range r.s.playlists {
		if keep(p) {
			p := p
			playlists = append(playlists, &p)
		}
	}
	sort.Slice(playlists, func(i, j int) bool { return playlists[i].Sequence < playlists[j].Sequence })
	return playlists
}

func (r *playlistRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Playlist, error) {
	return r.list(func(p models.Playlist) bool { return p.OwnerID == ownerID }), nil
}

func (r *playlistRepo) ListPublic(_ context.Context) ([]*models.Playlist, error) {
	return r.list(func(p models.Playlist) bool { return p.Public }), nil
}

type shortcutsRepo struct{ s *Store }

func (r *shortcutsRepo) Create(_ context.Context, sc *models.Shortcuts) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.shortcuts {
		if existing.UserID == sc.UserID {
			return shared.AlreadyExists("shortcuts", "user already has shortcuts")
		}
	}
	sc.ID = shared.GenerateID()
	r.s.shortcuts[sc.ID] = *sc
	return nil
}

func (r *shortcutsRepo) Get(_ context.Context, id string) (*models.Shortcuts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sc, ok := r.s.shortcuts[id]
	if !ok {
		return nil, shared.NotFound("shortcuts", id)
	}
	return &sc, nil
}

func (r *shortcutsRepo) GetByUser(_ context.Context, userID string) (*models.Shortcuts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sc := range r.s.shortcuts {
		if sc.UserID == userID {
			return &sc, nil
		}
	}
	return nil, shared.NotFound("shortcuts", "user "+userID)
}
