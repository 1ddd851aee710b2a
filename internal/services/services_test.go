package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/memstore"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

type harness struct {
	t     *testing.T
	ctx   context.Context
	svc   *Services
	store *models.Store
	admin access.Identity
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, memstore.New().Repositories())
}

func newHarnessWith(t *testing.T, store *models.Store) *harness {
	t.Helper()
	ctx := context.Background()

	svc := New(store, Options{
		Tokens:     access.NewTokens("test-secret", time.Hour),
		Logger:     shared.NewLogger(io.Discard),
		BcryptCost: bcrypt.MinCost,
	})

	admin, err := svc.Bootstrap(ctx, shared.AdminConfig{Username: "root", Email: "root@example.com", Password: "rootpass"})
	require.NoError(t, err)

	h := &harness{t: t, ctx: ctx, svc: svc, store: store}
	h.admin = h.identity(admin.ID)
	return h
}

func (h *harness) identity(userID string) access.Identity {
	h.t.Helper()
	id, err := h.svc.Resolver.ForUser(h.ctx, userID)
	require.NoError(h.t, err)
	return id
}

func (h *harness) signup(username string) access.Identity {
	h.t.Helper()
	user, err := h.svc.Auth.Signup(h.ctx, SignupInput{Username: username, Email: username + "@example.com", Password: "password"})
	require.NoError(h.t, err)
	return h.identity(user.ID)
}

func (h *harness) artist(caller access.Identity, name string) *models.Artist {
	h.t.Helper()
	artist, err := h.svc.Artists.Create(h.ctx, caller, ArtistInput{Name: name})
	require.NoError(h.t, err)
	return artist
}

func (h *harness) song(caller access.Identity, title string, public bool) *models.Song {
	h.t.Helper()
	song, err := h.svc.Songs.Create(h.ctx, caller, SongInput{Title: title, Public: public})
	require.NoError(h.t, err)
	return song
}

func (h *harness) genre(name string) *models.Genre {
	h.t.Helper()
	genre, err := h.svc.Genres.Create(h.ctx, h.admin, GenreInput{Name: name})
	require.NoError(h.t, err)
	return genre
}

func TestFocusScenario(t *testing.T) {
	h := newHarness(t)
	u1, u2 := h.signup("u1"), h.signup("u2")

	musician := h.signup("musician")
	h.artist(musician, "Musician")
	s := h.song(musician, "Deep Work", true)

	focus, err := h.svc.Playlists.Create(h.ctx, u1, PlaylistInput{Name: "Focus"})
	require.NoError(t, err)

	_, err = h.svc.Playlists.Get(h.ctx, u2, focus.ID)
	assert.ErrorIs(t, err, shared.ErrPlaylistNotPublic)

	got, err := h.svc.Playlists.Get(h.ctx, h.admin, focus.ID)
	require.NoError(t, err)
	assert.Equal(t, focus.ID, got.ID)

	require.NoError(t, h.svc.Playlists.AddSong(h.ctx, u1, focus.ID, s.ID))
	assert.ErrorIs(t, h.svc.Playlists.AddSong(h.ctx, u1, focus.ID, s.ID), shared.ErrAlreadyMember)

	assert.ErrorIs(t, h.svc.Playlists.Delete(h.ctx, u2, focus.ID), shared.ErrAccessDenied)

	require.NoError(t, h.svc.Playlists.Delete(h.ctx, h.admin, focus.ID))
	_, err = h.svc.Playlists.Get(h.ctx, u1, focus.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestVisibility(t *testing.T) {
	h := newHarness(t)
	owner, other := h.signup("owner"), h.signup("other")

	private, err := h.svc.Playlists.Create(h.ctx, owner, PlaylistInput{Name: "Hidden"})
	require.NoError(t, err)
	public, err := h.svc.Playlists.Create(h.ctx, owner, PlaylistInput{Name: "Shared", Public: true})
	require.NoError(t, err)

	t.Run("Reads", func(t *testing.T) {
		_, err := h.svc.Playlists.Get(h.ctx, owner, private.ID)
		assert.NoError(t, err)
		_, err = h.svc.Playlists.Get(h.ctx, other, public.ID)
		assert.NoError(t, err)
		_, err = h.svc.Playlists.Get(h.ctx, access.Identity{}, private.ID)
		assert.Equal(t, shared.KindNotPublic, shared.KindOf(err))
	})

	t.Run("Listings", func(t *testing.T) {
		visible, err := h.svc.Playlists.ListByUser(h.ctx, other, owner.UserID)
		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, public.ID, visible[0].ID)

		all, err := h.svc.Playlists.ListByUser(h.ctx, h.admin, owner.UserID)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		mine, err := h.svc.Playlists.ListMine(h.ctx, owner)
		require.NoError(t, err)
		assert.Len(t, mine, 2)
	})

	t.Run("Private Songs", func(t *testing.T) {
		musician := h.signup("musician")
		artist := h.artist(musician, "Musician")
		demo := h.song(musician, "Demo", false)

		_, err := h.svc.Songs.Get(h.ctx, other, demo.ID)
		assert.Equal(t, shared.KindNotPublic, shared.KindOf(err))

		songs, err := h.svc.Songs.ListByArtist(h.ctx, other, artist.ID)
		require.NoError(t, err)
		assert.Empty(t, songs)

		songs, err = h.svc.Songs.ListByArtist(h.ctx, musician, artist.ID)
		require.NoError(t, err)
		assert.Len(t, songs, 1)

		err = h.svc.Playlists.AddSong(h.ctx, other, public.ID, demo.ID)
		assert.ErrorIs(t, err, shared.ErrAccessDenied, "not the playlist owner")
	})
}

func TestRoleEscalation(t *testing.T) {
	h := newHarness(t)
	user := h.signup("climber")

	for _, role := range []string{"ADMIN", "USER", "NO_SUCH_ROLE"} {
		t.Run(role, func(t *testing.T) {
			_, err := h.svc.Users.Update(h.ctx, user, user.UserID, UserUpdate{Role: &role})
			assert.ErrorIs(t, err, shared.ErrAccessDenied)
		})
	}

	t.Run("Other User", func(t *testing.T) {
		victim := h.signup("victim")
		admin := "ADMIN"
		_, err := h.svc.Users.Update(h.ctx, user, victim.UserID, UserUpdate{Role: &admin})
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})

	t.Run("Admin Promotes", func(t *testing.T) {
		admin := "admin"
		updated, err := h.svc.Users.Update(h.ctx, h.admin, user.UserID, UserUpdate{Role: &admin})
		require.NoError(t, err)

		promoted := h.identity(updated.ID)
		assert.True(t, promoted.IsAdmin())

		missing := "NO_SUCH_ROLE"
		_, err = h.svc.Users.Update(h.ctx, h.admin, user.UserID, UserUpdate{Role: &missing})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAlbumComposition(t *testing.T) {
	h := newHarness(t)
	musician := h.signup("musician")
	h.artist(musician, "Musician")
	genre := h.genre("Ambient")
	a, b := h.song(musician, "A", true), h.song(musician, "B", true)

	for name, ids := range map[string][]string{
		"Nil":       nil,
		"Empty":     {},
		"One":       {a.ID},
		"Duplicate": {a.ID, a.ID},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.svc.Albums.Create(h.ctx, musician, AlbumInput{Title: "Bad " + name, GenreID: genre.ID, SongIDs: ids})
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}

	t.Run("Two", func(t *testing.T) {
		album, err := h.svc.Albums.Create(h.ctx, musician, AlbumInput{Title: "Pair", GenreID: genre.ID, SongIDs: []string{a.ID, b.ID}})
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID, b.ID}, album.SongIDs)
	})

	t.Run("Foreign Song", func(t *testing.T) {
		rival := h.signup("rival")
		h.artist(rival, "Rival")
		theirs := h.song(rival, "Theirs", true)

		_, err := h.svc.Albums.Create(h.ctx, musician, AlbumInput{Title: "Mixed", GenreID: genre.ID, SongIDs: []string{a.ID, theirs.ID}})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("Missing Song", func(t *testing.T) {
		_, err := h.svc.Albums.Create(h.ctx, musician, AlbumInput{Title: "Ghost", GenreID: genre.ID, SongIDs: []string{a.ID, "missing"}})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("Update Keeps Minimum", func(t *testing.T) {
		album, err := h.svc.Albums.Create(h.ctx, musician, AlbumInput{Title: "Shrink", GenreID: genre.ID, SongIDs: []string{b.ID, a.ID}})
		require.NoError(t, err)

		_, err = h.svc.Albums.Update(h.ctx, musician, album.ID, AlbumUpdate{SongIDs: []string{a.ID}})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("Only Owner Artist Writes", func(t *testing.T) {
		album, err := h.svc.Albums.Create(h.ctx, musician, AlbumInput{Title: "Mine", GenreID: genre.ID, SongIDs: []string{a.ID, b.ID}})
		require.NoError(t, err)

		title := "Stolen"
		_, err = h.svc.Albums.Update(h.ctx, h.admin, album.ID, AlbumUpdate{Title: &title})
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})
}

func TestScopedUniqueness(t *testing.T) {
	h := newHarness(t)
	first, second := h.signup("first"), h.signup("second")
	h.artist(first, "First")
	h.artist(second, "Second")

	t.Run("Songs", func(t *testing.T) {
		h.song(first, "Intro", true)

		_, err := h.svc.Songs.Create(h.ctx, first, SongInput{Title: "INTRO"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		_, err = h.svc.Songs.Create(h.ctx, second, SongInput{Title: "Intro"})
		assert.NoError(t, err)
	})

	t.Run("Albums", func(t *testing.T) {
		genre := h.genre("Rock")
		x, y := h.song(first, "X", true), h.song(first, "Y", true)
		p, q := h.song(second, "P", true), h.song(second, "Q", true)

		_, err := h.svc.Albums.Create(h.ctx, first, AlbumInput{Title: "Debut", GenreID: genre.ID, SongIDs: []string{x.ID, y.ID}})
		require.NoError(t, err)
		_, err = h.svc.Albums.Create(h.ctx, first, AlbumInput{Title: "debut", GenreID: genre.ID, SongIDs: []string{y.ID, x.ID}})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		_, err = h.svc.Albums.Create(h.ctx, second, AlbumInput{Title: "Debut", GenreID: genre.ID, SongIDs: []string{p.ID, q.ID}})
		assert.NoError(t, err)
	})

	t.Run("Playlists", func(t *testing.T) {
		mix, err := h.svc.Playlists.Create(h.ctx, first, PlaylistInput{Name: "Mix"})
		require.NoError(t, err)

		_, err = h.svc.Playlists.Create(h.ctx, first, PlaylistInput{Name: "MIX"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		_, err = h.svc.Playlists.Create(h.ctx, second, PlaylistInput{Name: "Mix"})
		assert.NoError(t, err)

		same := "mix"
		_, err = h.svc.Playlists.Update(h.ctx, first, mix.ID, PlaylistUpdate{Name: &same})
		assert.NoError(t, err, "renaming onto itself is not a conflict")
	})

	t.Run("Accounts", func(t *testing.T) {
		_, err := h.svc.Auth.Signup(h.ctx, SignupInput{Username: "third", Email: "FIRST@example.com", Password: "password"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		_, err = h.svc.Auth.Signup(h.ctx, SignupInput{Username: "First", Email: "first2@example.com", Password: "password"})
		assert.NoError(t, err, "usernames are case-sensitive")

		_, err = h.svc.Genres.Create(h.ctx, h.admin, GenreInput{Name: "ROCK"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestMembership(t *testing.T) {
	h := newHarness(t)
	listener := h.signup("listener")
	musician := h.signup("musician")
	h.artist(musician, "Musician")
	s := h.song(musician, "Track", true)

	playlist, err := h.svc.Playlists.Create(h.ctx, listener, PlaylistInput{Name: "Daily"})
	require.NoError(t, err)

	t.Run("Round Trip", func(t *testing.T) {
		before, err := h.svc.Playlists.Songs(h.ctx, listener, playlist.ID)
		require.NoError(t, err)

		require.NoError(t, h.svc.Playlists.AddSong(h.ctx, listener, playlist.ID, s.ID))
		require.NoError(t, h.svc.Playlists.RemoveSong(h.ctx, listener, playlist.ID, s.ID))

		after, err := h.svc.Playlists.Songs(h.ctx, listener, playlist.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("Idempotence", func(t *testing.T) {
		require.NoError(t, h.svc.Playlists.AddSong(h.ctx, listener, playlist.ID, s.ID))
		assert.ErrorIs(t, h.svc.Playlists.AddSong(h.ctx, listener, playlist.ID, s.ID), shared.ErrAlreadyMember)

		require.NoError(t, h.svc.Playlists.RemoveSong(h.ctx, listener, playlist.ID, s.ID))
		assert.ErrorIs(t, h.svc.Playlists.RemoveSong(h.ctx, listener, playlist.ID, s.ID), shared.ErrNotMember)
	})

	t.Run("Missing Ends", func(t *testing.T) {
		assert.ErrorIs(t, h.svc.Playlists.AddSong(h.ctx, listener, playlist.ID, "missing"), shared.ErrNotFound)
		assert.ErrorIs(t, h.svc.Playlists.AddSong(h.ctx, listener, "missing", s.ID), shared.ErrNotFound)
	})

	t.Run("Shortcuts", func(t *testing.T) {
		genre := h.genre("Jazz")
		other := h.song(musician, "Other", true)
		album, err := h.svc.Albums.Create(h.ctx, musician, AlbumInput{Title: "Set", GenreID: genre.ID, SongIDs: []string{s.ID, other.ID}})
		require.NoError(t, err)

		require.NoError(t, h.svc.Shortcuts.AddPlaylist(h.ctx, listener, playlist.ID))
		assert.ErrorIs(t, h.svc.Shortcuts.AddPlaylist(h.ctx, listener, playlist.ID), shared.ErrAlreadyMember)
		require.NoError(t, h.svc.Shortcuts.AddAlbum(h.ctx, listener, album.ID))
		assert.ErrorIs(t, h.svc.Shortcuts.AddAlbum(h.ctx, listener, album.ID), shared.ErrAlreadyMember)

		pins, err := h.svc.Shortcuts.Get(h.ctx, listener)
		require.NoError(t, err)
		assert.Len(t, pins.Playlists, 1)
		assert.Len(t, pins.Albums, 1)

		_, err = h.svc.Shortcuts.GetForUser(h.ctx, musician, listener.UserID)
		assert.ErrorIs(t, err, shared.ErrAccessDenied)

		hidden, err := h.svc.Playlists.Create(h.ctx, musician, PlaylistInput{Name: "Secret"})
		require.NoError(t, err)
		assert.ErrorIs(t, h.svc.Shortcuts.AddPlaylist(h.ctx, listener, hidden.ID), shared.ErrPlaylistNotPublic)

		require.NoError(t, h.svc.Shortcuts.RemoveAlbum(h.ctx, listener, album.ID))
		assert.ErrorIs(t, h.svc.Shortcuts.RemoveAlbum(h.ctx, listener, album.ID), shared.ErrNotMember)
	})
}

func TestDeletes(t *testing.T) {
	h := newHarness(t)
	musician := h.signup("musician")
	h.artist(musician, "Musician")
	genre := h.genre("Folk")
	a, b := h.song(musician, "A", true), h.song(musician, "B", true)

	album, err := h.svc.Albums.Create(h.ctx, musician, AlbumInput{Title: "Roots", GenreID: genre.ID, SongIDs: []string{a.ID, b.ID}})
	require.NoError(t, err)

	err = h.svc.Genres.Delete(h.ctx, h.admin, genre.ID)
	assert.ErrorIs(t, err, shared.ErrGenreInUse)

	assert.ErrorIs(t, h.svc.Songs.Delete(h.ctx, musician, a.ID), shared.ErrInUse)

	require.NoError(t, h.svc.Albums.Delete(h.ctx, musician, album.ID))
	require.NoError(t, h.svc.Genres.Delete(h.ctx, h.admin, genre.ID))
	require.NoError(t, h.svc.Songs.Delete(h.ctx, musician, a.ID))

	t.Run("Roles", func(t *testing.T) {
		role, err := h.svc.Roles.Create(h.ctx, h.admin, RoleInput{Name: "CURATOR"})
		require.NoError(t, err)

		curator := role.Name
		_, err = h.svc.Users.Update(h.ctx, h.admin, musician.UserID, UserUpdate{Role: &curator})
		require.NoError(t, err)
		assert.ErrorIs(t, h.svc.Roles.Delete(h.ctx, h.admin, role.ID), shared.ErrInUse)

		roles, err := h.svc.Roles.List(h.ctx, h.admin)
		require.NoError(t, err)
		for _, r := range roles {
			if r.Name == string(models.RoleAdmin) {
				assert.ErrorIs(t, h.svc.Roles.Delete(h.ctx, h.admin, r.ID), shared.ErrValidation)
			}
		}

		_, err = h.svc.Roles.Create(h.ctx, musician, RoleInput{Name: "SNEAKY"})
		assert.ErrorIs(t, err, shared.ErrAccessDenied)
	})
}

func TestLifecycle(t *testing.T) {
	h := newHarness(t)
	user := h.signup("listener")

	t.Run("Users", func(t *testing.T) {
		_, err := h.svc.Users.ToggleActive(h.ctx, user, user.UserID)
		assert.ErrorIs(t, err, shared.ErrAccessDenied)

		_, err = h.svc.Users.ToggleActive(h.ctx, h.admin, h.admin.UserID)
		assert.ErrorIs(t, err, shared.ErrValidation)

		active, err := h.svc.Users.ToggleActive(h.ctx, h.admin, user.UserID)
		require.NoError(t, err)
		assert.False(t, active)

		_, err = h.svc.Resolver.ForUser(h.ctx, user.UserID)
		assert.ErrorIs(t, err, shared.ErrIdentity)

		_, _, err = h.svc.Auth.Login(h.ctx, "listener", "password")
		assert.ErrorIs(t, err, shared.ErrIdentity)

		active, err = h.svc.Users.ToggleActive(h.ctx, h.admin, user.UserID)
		require.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("Artists", func(t *testing.T) {
		musician := h.signup("musician")
		artist := h.artist(musician, "Musician")
		s := h.song(musician, "Still Here", true)

		_, err := h.svc.Artists.ToggleActive(h.ctx, user, artist.ID)
		assert.ErrorIs(t, err, shared.ErrAccessDenied)

		active, err := h.svc.Artists.ToggleActive(h.ctx, musician, artist.ID)
		require.NoError(t, err)
		assert.False(t, active)

		_, err = h.svc.Songs.Get(h.ctx, user, s.ID)
		assert.NoError(t, err, "deactivation does not cascade")

		_, err = h.svc.Songs.Create(h.ctx, musician, SongInput{Title: "New"})
		assert.ErrorIs(t, err, shared.ErrAccessDenied)

		active, err = h.svc.Artists.ToggleActive(h.ctx, h.admin, artist.ID)
		require.NoError(t, err)
		assert.True(t, active)
	})
}

func TestAuth(t *testing.T) {
	h := newHarness(t)
	h.signup("ana")

	token, user, err := h.svc.Auth.Login(h.ctx, "ana@EXAMPLE.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	id, err := h.svc.Resolver.Resolve(h.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.False(t, id.IsAdmin())

	_, _, err = h.svc.Auth.Login(h.ctx, "ana", "wrong")
	assert.ErrorIs(t, err, shared.ErrIdentity)

	_, err = h.svc.Artists.Create(h.ctx, id, ArtistInput{Name: "Ana"})
	require.NoError(t, err)
	_, err = h.svc.Artists.Create(h.ctx, id, ArtistInput{Name: "Ana Two"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	pins, err := h.svc.Shortcuts.Get(h.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, user.ID, pins.Shortcuts.UserID)

	again, err := h.svc.Bootstrap(h.ctx, shared.AdminConfig{Username: "root", Email: "root@example.com", Password: "rootpass"})
	require.NoError(t, err)
	assert.Equal(t, h.admin.UserID, again.ID)
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	listener := h.signup("listener")
	musician := h.signup("musician")
	h.artist(musician, "Musician")
	open, hidden := h.song(musician, "Open", true), h.song(musician, "Hidden", false)

	playlist, err := h.svc.Playlists.Create(h.ctx, listener, PlaylistInput{Name: "Evening", Public: true})
	require.NoError(t, err)
	require.NoError(t, h.svc.Playlists.AddSong(h.ctx, listener, playlist.ID, open.ID))
	assert.Equal(t, shared.KindNotPublic, shared.KindOf(h.svc.Playlists.AddSong(h.ctx, listener, playlist.ID, hidden.ID)))

	export, err := h.svc.Playlists.Export(h.ctx, access.Identity{}, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "listener", export.Owner)
	require.Len(t, export.Entries, 1)
	assert.Equal(t, "Musician", export.Entries[0].ArtistName)
}

func TestUpdateTimestamps(t *testing.T) {
	h := newHarness(t)
	musician := h.signup("musician")
	h.artist(musician, "Musician")
	stale := time.Now().Add(-time.Hour)

	t.Run("Song", func(t *testing.T) {
		song := h.song(musician, "Draft", false)
		song.UpdatedAt = stale
		require.NoError(t, h.store.Songs.Update(h.ctx, song))

		public := true
		_, err := h.svc.Songs.Update(h.ctx, musician, song.ID, SongUpdate{Public: &public})
		require.NoError(t, err)

		stored, err := h.store.Songs.Get(h.ctx, song.ID)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), stored.UpdatedAt, time.Minute)
	})

	t.Run("Playlist", func(t *testing.T) {
		playlist, err := h.svc.Playlists.Create(h.ctx, musician, PlaylistInput{Name: "Drafts"})
		require.NoError(t, err)
		playlist.UpdatedAt = stale
		require.NoError(t, h.store.Playlists.Update(h.ctx, playlist))

		name := "Finals"
		_, err = h.svc.Playlists.Update(h.ctx, musician, playlist.ID, PlaylistUpdate{Name: &name})
		require.NoError(t, err)

		stored, err := h.store.Playlists.Get(h.ctx, playlist.ID)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), stored.UpdatedAt, time.Minute)
	})
}

// flakyShortcuts fails the next failures creates.
type flakyShortcuts struct {
	models.ShortcutsRepository
	failures int
}

func (f *flakyShortcuts) Create(ctx context.Context, sc *models.Shortcuts) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("disk full")
	}
	return f.ShortcutsRepository.Create(ctx, sc)
}

func TestSignupShortcutsFallback(t *testing.T) {
	h := newHarness(t)
	h.store.Shortcuts = &flakyShortcuts{ShortcutsRepository: h.store.Shortcuts, failures: 1}

	user, err := h.svc.Auth.Signup(h.ctx, SignupInput{Username: "ana", Email: "ana@example.com", Password: "password"})
	require.NoError(t, err)

	_, err = h.svc.Auth.Signup(h.ctx, SignupInput{Username: "ana", Email: "ana@example.com", Password: "password"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	pins, err := h.svc.Shortcuts.Get(h.ctx, h.identity(user.ID))
	require.NoError(t, err)
	assert.Equal(t, user.ID, pins.Shortcuts.UserID)
}

// blindKeys never reports a collision, as if a concurrent writer won the race
// between the check and the write.
type blindKeys struct{}

func (blindKeys) Exists(context.Context, models.UniqueKey) (bool, error) { return false, nil }

type blindMembers struct {
	models.MembershipRepository
}

func (blindMembers) Has(context.Context, models.Relation, string, string) (bool, error) {
	return false, nil
}

func TestStorageRejections(t *testing.T) {
	guarded := newHarness(t)

	store := memstore.New().Repositories()
	store.Keys = blindKeys{}
	store.Members = blindMembers{store.Members}
	racing := newHarnessWith(t, store)

	duplicate := func(h *harness) error {
		owner := h.signup("owner")
		_, err := h.svc.Playlists.Create(h.ctx, owner, PlaylistInput{Name: "Gym"})
		require.NoError(t, err)
		_, err = h.svc.Playlists.Create(h.ctx, owner, PlaylistInput{Name: "gym"})
		return err
	}

	want, got := duplicate(guarded), duplicate(racing)
	assert.ErrorIs(t, got, shared.ErrAlreadyExists)
	assert.Equal(t, want.Error(), got.Error())

	t.Run("Accounts", func(t *testing.T) {
		_, err := racing.svc.Auth.Signup(racing.ctx, SignupInput{Username: "owner", Email: "other@example.com", Password: "password"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("Membership", func(t *testing.T) {
		listener := racing.signup("listener")
		musician := racing.signup("musician")
		racing.artist(musician, "Musician")
		s := racing.song(musician, "Loop", true)

		playlist, err := racing.svc.Playlists.Create(racing.ctx, listener, PlaylistInput{Name: "Loops"})
		require.NoError(t, err)

		require.NoError(t, racing.svc.Playlists.AddSong(racing.ctx, listener, playlist.ID, s.ID))
		assert.ErrorIs(t, racing.svc.Playlists.AddSong(racing.ctx, listener, playlist.ID, s.ID), shared.ErrAlreadyMember)
	})
}
