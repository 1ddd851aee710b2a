package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// PlaylistInput creates a playlist.
type PlaylistInput struct {
	Name        string
	Description string
	Public      bool
}

// PlaylistUpdate is a partial playlist update.
type PlaylistUpdate struct {
	Name        *string
	Description *string
	Public      *bool
}

// PlaylistService manages playlists and their songs.
type PlaylistService struct {
	*core
}

func playlistKey(ownerID, name, excludeID string) models.UniqueKey {
	return models.UniqueKey{Kind: models.KeyPlaylistName, Scope: ownerID, Value: name, ExcludeID: excludeID}
}

// songBinding resolves playlist songs. Only songs the caller may read can be
// added; removal just needs the song to exist, so songs made private later can still be dropped.
func (c *core) songBinding(caller access.Identity, adding bool) access.Binding {
	member := func(ctx context.Context, id string) error {
		_, err := c.store.Songs.Get(ctx, id)
		return err
	}
	if adding {
		member = func(ctx context.Context, id string) error {
			_, _, err := c.readSong(ctx, caller, id)
			return err
		}
	}
	return access.Binding{
		Relation:       models.PlaylistSongs,
		OwnerResource:  "playlist",
		MemberResource: "song",
		Member:         member,
	}
}

func (s *PlaylistService) Create(ctx context.Context, caller access.Identity, in PlaylistInput) (*models.Playlist, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	playlist := models.NewPlaylist(caller.UserID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Description), in.Public)
	key := playlistKey(caller.UserID, playlist.Name, "")
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}
	if err := s.store.Playlists.Create(ctx, playlist); err != nil {
		return nil, s.guard.Translate(key, err)
	}

	s.log("playlists").Info("playlist created", "id", playlist.ID, "owner", caller.UserID, "visibility", shared.VisibilityString(playlist.Public))
	return playlist, nil
}

// Get returns a playlist when it is public, owned by the caller, or the caller is an administrator.
func (s *PlaylistService) Get(ctx context.Context, caller access.Identity, id string) (*models.Playlist, error) {
	return s.readPlaylist(ctx, caller, id)
}

// ListMine lists the caller's playlists, private ones included.
func (s *PlaylistService) ListMine(ctx context.Context, caller access.Identity) ([]*models.Playlist, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.store.Playlists.ListByOwner(ctx, caller.UserID)
}

func (s *PlaylistService) ListPublic(ctx context.Context) ([]*models.Playlist, error) {
	return s.store.Playlists.ListPublic(ctx)
}

// ListByUser lists the playlists of userID that caller may read.
func (s *PlaylistService) ListByUser(ctx context.Context, caller access.Identity, userID string) ([]*models.Playlist, error) {
	if _, err := s.store.Users.Get(ctx, userID); err != nil {
		return nil, err
	}

	playlists, err := s.store.Playlists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return lo.Filter(playlists, func(p *models.Playlist, _ int) bool {
		return access.Decide(caller, access.ActionRead, access.Subject{OwnerID: p.OwnerID, Public: p.Public})
	}), nil
}

// writable loads a playlist and applies the write rule.
func (s *PlaylistService) writable(ctx context.Context, caller access.Identity, id string) (*models.Playlist, error) {
	playlist, err := s.store.Playlists.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanWrite(caller, "playlist", playlist.ID, playlist.OwnerID); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Update edits a playlist. Names stay unique within the owner's playlists.
func (s *PlaylistService) Update(ctx context.Context, caller access.Identity, id string, in PlaylistUpdate) (*models.Playlist, error) {
	playlist, err := s.writable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	set(&playlist.Name, in.Name)
	set(&playlist.Description, in.Description)
	if in.Public != nil {
		playlist.Public = *in.Public
	}
	playlist.UpdatedAt = time.Now()

	key := playlistKey(playlist.OwnerID, playlist.Name, playlist.ID)
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}
	if err := s.store.Playlists.Update(ctx, playlist); err != nil {
		return nil, s.guard.Translate(key, err)
	}
	return playlist, nil
}

// Delete removes a playlist with its song memberships and shortcut pins.
func (s *PlaylistService) Delete(ctx context.Context, caller access.Identity, id string) error {
	playlist, err := s.writable(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.store.Playlists.Delete(ctx, playlist.ID); err != nil {
		return err
	}
	s.log("playlists").Info("playlist deleted", "id", playlist.ID, "by", caller.UserID)
	return nil
}

// AddSong adds a song to a playlist the caller may write.
func (s *PlaylistService) AddSong(ctx context.Context, caller access.Identity, playlistID, songID string) error {
	playlist, err := s.writable(ctx, caller, playlistID)
	if err != nil {
		return err
	}
	return s.members.Add(ctx, s.songBinding(caller, true), playlist.ID, songID)
}

// RemoveSong removes a song from a playlist the caller may write.
func (s *PlaylistService) RemoveSong(ctx context.Context, caller access.Identity, playlistID, songID string) error {
	playlist, err := s.writable(ctx, caller, playlistID)
	if err != nil {
		return err
	}
	return s.members.Remove(ctx, s.songBinding(caller, false), playlist.ID, songID)
}

// Songs lists the songs of a readable playlist, leaving out songs the caller cannot see.
func (s *PlaylistService) Songs(ctx context.Context, caller access.Identity, playlistID string) ([]*models.Song, error) {
	entries, err := s.entries(ctx, caller, playlistID)
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(e models.PlaylistEntry, _ int) *models.Song { return e.Song }), nil
}

func (s *PlaylistService) entries(ctx context.Context, caller access.Identity, playlistID string) ([]models.PlaylistEntry, error) {
	playlist, err := s.readPlaylist(ctx, caller, playlistID)
	if err != nil {
		return nil, err
	}

	ids, err := s.members.List(ctx, s.songBinding(caller, false), playlist.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.PlaylistEntry, 0, len(ids))
	for _, id := range ids {
		song, artist, err := s.readSong(ctx, caller, id)
		if errors.Is(err, shared.ErrNotFound) || shared.KindOf(err) == shared.KindNotPublic {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.PlaylistEntry{Song: song, ArtistName: artist.Name})
	}
	return entries, nil
}

// Export builds the read model used by the playlist exporters.
func (s *PlaylistService) Export(ctx context.Context, caller access.Identity, playlistID string) (*models.PlaylistExport, error) {
	entries, err := s.entries(ctx, caller, playlistID)
	if err != nil {
		return nil, err
	}

	playlist, err := s.store.Playlists.Get(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	owner, err := s.store.Users.Get(ctx, playlist.OwnerID)
	if err != nil {
		return nil, err
	}

	return &models.PlaylistExport{Playlist: playlist, Owner: owner.Username, Entries: entries}, nil
}

// Pins is a user's shortcuts with the pinned aggregates resolved.
type Pins struct {
	Shortcuts *models.Shortcuts
	Playlists []*models.Playlist
	Albums    []*models.Album
}

// ShortcutsService manages the pinned playlists and albums of a user.
type ShortcutsService struct {
	*core
}

// playlistBinding resolves pinned playlists; only readable playlists can be pinned.
func (s *ShortcutsService) playlistBinding(caller access.Identity, adding bool) access.Binding {
	member := func(ctx context.Context, id string) error {
		_, err := s.store.Playlists.Get(ctx, id)
		return err
	}
	if adding {
		member = func(ctx context.Context, id string) error {
			_, err := s.readPlaylist(ctx, caller, id)
			return err
		}
	}
	return access.Binding{
		Relation:       models.ShortcutPlaylists,
		OwnerResource:  "shortcuts",
		MemberResource: "playlist",
		Member:         member,
	}
}

func (s *ShortcutsService) albumBinding() access.Binding {
	return access.Binding{
		Relation:       models.ShortcutAlbums,
		OwnerResource:  "shortcuts",
		MemberResource: "album",
		Member: func(ctx context.Context, id string) error {
			_, err := s.store.Albums.Get(ctx, id)
			return err
		},
	}
}

// own returns the caller's shortcuts, creating them for accounts that predate them.
func (s *ShortcutsService) own(ctx context.Context, caller access.Identity) (*models.Shortcuts, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	sc, err := s.store.Shortcuts.GetByUser(ctx, caller.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		sc = models.NewShortcuts(caller.UserID)
		if err = s.store.Shortcuts.Create(ctx, sc); errors.Is(err, shared.ErrAlreadyExists) {
			sc, err = s.store.Shortcuts.GetByUser(ctx, caller.UserID)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := s.authz.CanWrite(caller, "shortcuts", sc.ID, sc.UserID); err != nil {
		return nil, err
	}
	return sc, nil
}

// Get returns the caller's pins.
func (s *ShortcutsService) Get(ctx context.Context, caller access.Identity) (*Pins, error) {
	sc, err := s.own(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, caller, sc)
}

// GetForUser returns the pins of userID. Self or administrator.
func (s *ShortcutsService) GetForUser(ctx context.Context, caller access.Identity, userID string) (*Pins, error) {
	sc, err := s.store.Shortcuts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanWrite(caller, "shortcuts", sc.ID, sc.UserID); err != nil {
		return nil, err
	}
	return s.resolve(ctx, caller, sc)
}

func (s *ShortcutsService) resolve(ctx context.Context, caller access.Identity, sc *models.Shortcuts) (*Pins, error) {
	pins := &Pins{Shortcuts: sc, Playlists: []*models.Playlist{}, Albums: []*models.Album{}}

	playlistIDs, err := s.members.List(ctx, s.playlistBinding(caller, false), sc.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range playlistIDs {
		p, err := s.readPlaylist(ctx, caller, id)
		if errors.Is(err, shared.ErrNotFound) || shared.KindOf(err) == shared.KindNotPublic {
			continue
		}
		if err != nil {
			return nil, err
		}
		pins.Playlists = append(pins.Playlists, p)
	}

	albumIDs, err := s.members.List(ctx, s.albumBinding(), sc.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range albumIDs {
		a, err := s.store.Albums.Get(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		pins.Albums = append(pins.Albums, a)
	}

	return pins, nil
}

// AddPlaylist pins a playlist the caller may read.
func (s *ShortcutsService) AddPlaylist(ctx context.Context, caller access.Identity, playlistID string) error {
	sc, err := s.own(ctx, caller)
	if err != nil {
		return err
	}
	return s.members.Add(ctx, s.playlistBinding(caller, true), sc.ID, playlistID)
}

func (s *ShortcutsService) RemovePlaylist(ctx context.Context, caller access.Identity, playlistID string) error {
	sc, err := s.own(ctx, caller)
	if err != nil {
		return err
	}
	return s.members.Remove(ctx, s.playlistBinding(caller, false), sc.ID, playlistID)
}

func (s *ShortcutsService) AddAlbum(ctx context.Context, caller access.Identity, albumID string) error {
	sc, err := s.own(ctx, caller)
	if err != nil {
		return err
	}
	return s.members.Add(ctx, s.albumBinding(), sc.ID, albumID)
}

func (s *ShortcutsService) RemoveAlbum(ctx context.Context, caller access.Identity, albumID string) error {
	sc, err := s.own(ctx, caller)
	if err != nil {
		return err
	}
	return s.members.Remove(ctx, s.albumBinding(), sc.ID, albumID)
}
