package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// fixture holds one user, their artist profile and a genre.
type fixture struct {
	store  *models.Store
	role   *models.Role
	user   *models.User
	artist *models.Artist
	genre  *models.Genre
}

func setupFixture(t *testing.T, db *sql.DB) *fixture {
	t.Helper()
	ctx := context.Background()
	store := New(db)

	role := models.NewRole("USER", "listener")
	if err := store.Roles.Create(ctx, role); err != nil {
		t.Fatalf("failed to create role: %v", err)
	}

	user := models.NewUser("ana", "ana@example.com", "hash", role.ID)
	if err := store.Users.Create(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	artist := models.NewArtist(user.ID, "Ana", "PT", "")
	if err := store.Artists.Create(ctx, artist); err != nil {
		t.Fatalf("failed to create artist: %v", err)
	}

	genre := models.NewGenre("Ambient", "")
	if err := store.Genres.Create(ctx, genre); err != nil {
		t.Fatalf("failed to create genre: %v", err)
	}

	return &fixture{store: store, role: role, user: user, artist: artist, genre: genre}
}

func (f *fixture) song(t *testing.T, title string) *models.Song {
	t.Helper()
	song := models.NewSong(f.artist.ID, title, "https://media.example.com/"+title, true, time.Time{})
	if err := f.store.Songs.Create(context.Background(), song); err != nil {
		t.Fatalf("failed to create song %q: %v", title, err)
	}
	return song
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)

		if f.user.ID == "" {
			t.Fatal("user ID should be set after creation")
		}
		if f.user.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", f.user.Sequence)
		}

		retrieved, err := f.store.Users.Get(ctx, f.user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if retrieved.Email != "ana@example.com" || !retrieved.Active {
			t.Errorf("unexpected user: %+v", retrieved)
		}
	})

	t.Run("Natural Keys", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)

		if _, err := f.store.Users.GetByEmail(ctx, "ANA@EXAMPLE.COM"); err != nil {
			t.Errorf("expected case-insensitive email lookup, got %v", err)
		}
		if _, err := f.store.Users.GetByUsername(ctx, "ANA"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected usernames to be case-sensitive, got %v", err)
		}
	})

	t.Run("Duplicates", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)

		for _, u := range []*models.User{
			models.NewUser("ana", "other@example.com", "hash", f.role.ID),
			models.NewUser("other", "Ana@Example.com", "hash", f.role.ID),
		} {
			if err := f.store.Users.Create(ctx, u); !errors.Is(err, shared.ErrAlreadyExists) {
				t.Errorf("expected already-exists for %s/%s, got %v", u.Username, u.Email, err)
			}
		}

		if err := f.store.Users.Create(ctx, models.NewUser("Ana", "ana2@example.com", "hash", f.role.ID)); err != nil {
			t.Errorf("expected a differently cased username to be accepted, got %v", err)
		}
	})

	t.Run("Update & List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)

		f.user.Active = false
		if err := f.store.Users.Update(ctx, f.user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		users, err := f.store.Users.List(ctx)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) != 1 || users[0].Active {
			t.Errorf("expected one inactive user, got %+v", users)
		}

		n, err := f.store.Users.CountByRole(ctx, f.role.ID)
		if err != nil || n != 1 {
			t.Errorf("expected 1 user for role, got %d (%v)", n, err)
		}

		ghost := models.NewUser("ghost", "ghost@example.com", "hash", f.role.ID)
		ghost.ID = "missing"
		if err := f.store.Users.Update(ctx, ghost); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestRoleRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()
	f := setupFixture(t, db)

	if _, err := f.store.Roles.GetByName(ctx, "user"); err != nil {
		t.Errorf("expected case-insensitive role lookup, got %v", err)
	}

	if err := f.store.Roles.Create(ctx, models.NewRole("User", "")); !errors.Is(err, shared.ErrAlreadyExists) {
		t.Errorf("expected already-exists, got %v", err)
	}

	if err := f.store.Roles.Delete(ctx, f.role.ID); !errors.Is(err, shared.ErrInUse) {
		t.Errorf("expected in-use for referenced role, got %v", err)
	}

	admin := models.NewRole("ADMIN", "")
	if err := f.store.Roles.Create(ctx, admin); err != nil {
		t.Fatalf("failed to create role: %v", err)
	}
	if err := f.store.Roles.Delete(ctx, admin.ID); err != nil {
		t.Errorf("failed to delete unreferenced role: %v", err)
	}
}

func TestCatalogRepositories(t *testing.T) {
	ctx := context.Background()

	t.Run("One Artist Per User", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)

		if err := f.store.Artists.Create(ctx, models.NewArtist(f.user.ID, "Again", "", "")); !errors.Is(err, shared.ErrAlreadyExists) {
			t.Errorf("expected already-exists, got %v", err)
		}

		got, err := f.store.Artists.GetByUser(ctx, f.user.ID)
		if err != nil || got.ID != f.artist.ID {
			t.Errorf("expected artist %s, got %+v (%v)", f.artist.ID, got, err)
		}
	})

	t.Run("Song Titles Are Scoped", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)
		f.song(t, "Intro")

		dup := models.NewSong(f.artist.ID, "INTRO", "", true, time.Time{})
		if err := f.store.Songs.Create(ctx, dup); !errors.Is(err, shared.ErrAlreadyExists) {
			t.Errorf("expected already-exists, got %v", err)
		}

		exists, err := f.store.Keys.Exists(ctx, models.UniqueKey{Kind: models.KeySongTitle, Scope: f.artist.ID, Value: "intro"})
		if err != nil || !exists {
			t.Errorf("expected key to exist, got %v (%v)", exists, err)
		}

		exists, err = f.store.Keys.Exists(ctx, models.UniqueKey{Kind: models.KeySongTitle, Scope: "other-artist", Value: "intro"})
		if err != nil || exists {
			t.Errorf("expected key to be free in another scope, got %v (%v)", exists, err)
		}
	})

	t.Run("Release Date Is Immutable", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)
		song := f.song(t, "Intro")
		original := song.ReleaseDate

		song.Title = "Intro (Live)"
		song.ReleaseDate = original.Add(48 * time.Hour)
		if err := f.store.Songs.Update(ctx, song); err != nil {
			t.Fatalf("failed to update song: %v", err)
		}

		got, err := f.store.Songs.Get(ctx, song.ID)
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.Title != "Intro (Live)" || !got.ReleaseDate.Equal(original) {
			t.Errorf("unexpected song after update: %+v", got)
		}
	})

	t.Run("Album Track Listing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)
		a, b, c := f.song(t, "A"), f.song(t, "B"), f.song(t, "C")

		album := models.NewAlbum(f.artist.ID, f.genre.ID, "Drift", "", 2024, []string{b.ID, a.ID})
		if err := f.store.Albums.Create(ctx, album); err != nil {
			t.Fatalf("failed to create album: %v", err)
		}

		got, err := f.store.Albums.Get(ctx, album.ID)
		if err != nil {
			t.Fatalf("failed to get album: %v", err)
		}
		if len(got.SongIDs) != 2 || got.SongIDs[0] != b.ID || got.SongIDs[1] != a.ID {
			t.Errorf("expected ordered track listing, got %v", got.SongIDs)
		}

		got.SongIDs = []string{a.ID, b.ID, c.ID}
		if err := f.store.Albums.Update(ctx, got); err != nil {
			t.Fatalf("failed to update album: %v", err)
		}

		albums, err := f.store.Albums.ListByArtist(ctx, f.artist.ID)
		if err != nil || len(albums) != 1 || len(albums[0].SongIDs) != 3 {
			t.Fatalf("unexpected albums %+v (%v)", albums, err)
		}

		if n, _ := f.store.Albums.CountBySong(ctx, c.ID); n != 1 {
			t.Errorf("expected song to be listed once, got %d", n)
		}
		if n, _ := f.store.Albums.CountByGenre(ctx, f.genre.ID); n != 1 {
			t.Errorf("expected genre to be used once, got %d", n)
		}

		if err := f.store.Genres.Delete(ctx, f.genre.ID); !errors.Is(err, shared.ErrInUse) {
			t.Errorf("expected in-use for referenced genre, got %v", err)
		}
		if err := f.store.Songs.Delete(ctx, a.ID); !errors.Is(err, shared.ErrInUse) {
			t.Errorf("expected in-use for listed song, got %v", err)
		}

		if err := f.store.Albums.Delete(ctx, album.ID); err != nil {
			t.Fatalf("failed to delete album: %v", err)
		}
		if n, _ := f.store.Albums.CountBySong(ctx, a.ID); n != 0 {
			t.Errorf("expected track listing to cascade, got %d", n)
		}
	})

	t.Run("Album Rejects Repeated Songs", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)
		a := f.song(t, "A")

		album := models.NewAlbum(f.artist.ID, f.genre.ID, "Loop", "", 2024, []string{a.ID, a.ID})
		if err := f.store.Albums.Create(ctx, album); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
		exists, err := f.store.Keys.Exists(ctx, models.UniqueKey{Kind: models.KeyAlbumTitle, Scope: f.artist.ID, Value: "Loop"})
		if err != nil || exists {
			t.Errorf("expected the album insert to roll back, got %v (%v)", exists, err)
		}
	})
}

func TestPlaylistRepositories(t *testing.T) {
	ctx := context.Background()

	t.Run("Visibility Listings", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)

		open := models.NewPlaylist(f.user.ID, "Open", "", true)
		closed := models.NewPlaylist(f.user.ID, "Closed", "", false)
		for _, p := range []*models.Playlist{open, closed} {
			if err := f.store.Playlists.Create(ctx, p); err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}
		}

		if err := f.store.Playlists.Create(ctx, models.NewPlaylist(f.user.ID, "OPEN", "", false)); !errors.Is(err, shared.ErrAlreadyExists) {
			t.Errorf("expected already-exists, got %v", err)
		}

		public, err := f.store.Playlists.ListPublic(ctx)
		if err != nil || len(public) != 1 || public[0].ID != open.ID {
			t.Errorf("expected only the public playlist, got %+v (%v)", public, err)
		}

		mine, err := f.store.Playlists.ListByOwner(ctx, f.user.ID)
		if err != nil || len(mine) != 2 {
			t.Errorf("expected 2 playlists, got %d (%v)", len(mine), err)
		}
	})

	t.Run("Membership", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)
		song := f.song(t, "Intro")

		playlist := models.NewPlaylist(f.user.ID, "Focus", "", false)
		if err := f.store.Playlists.Create(ctx, playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		if err := f.store.Members.Add(ctx, models.PlaylistSongs, playlist.ID, song.ID); err != nil {
			t.Fatalf("failed to add song: %v", err)
		}
		if err := f.store.Members.Add(ctx, models.PlaylistSongs, playlist.ID, song.ID); !errors.Is(err, shared.ErrAlreadyMember) {
			t.Errorf("expected already-member from the primary key, got %v", err)
		}

		has, err := f.store.Members.Has(ctx, models.PlaylistSongs, playlist.ID, song.ID)
		if err != nil || !has {
			t.Errorf("expected membership, got %v (%v)", has, err)
		}

		if err := f.store.Songs.Delete(ctx, song.ID); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}
		ids, err := f.store.Members.Members(ctx, models.PlaylistSongs, playlist.ID)
		if err != nil || len(ids) != 0 {
			t.Errorf("expected memberships to cascade, got %v (%v)", ids, err)
		}

		if err := f.store.Members.Remove(ctx, models.PlaylistSongs, playlist.ID, song.ID); !errors.Is(err, shared.ErrNotMember) {
			t.Errorf("expected not-member, got %v", err)
		}
	})

	t.Run("Shortcuts", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()
		f := setupFixture(t, db)

		sc := models.NewShortcuts(f.user.ID)
		if err := f.store.Shortcuts.Create(ctx, sc); err != nil {
			t.Fatalf("failed to create shortcuts: %v", err)
		}
		if err := f.store.Shortcuts.Create(ctx, models.NewShortcuts(f.user.ID)); !errors.Is(err, shared.ErrAlreadyExists) {
			t.Errorf("expected one shortcuts per user, got %v", err)
		}

		playlist := models.NewPlaylist(f.user.ID, "Pinned", "", true)
		if err := f.store.Playlists.Create(ctx, playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if err := f.store.Members.Add(ctx, models.ShortcutPlaylists, sc.ID, playlist.ID); err != nil {
			t.Fatalf("failed to pin playlist: %v", err)
		}
		if err := f.store.Playlists.Delete(ctx, playlist.ID); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}

		ids, err := f.store.Members.Members(ctx, models.ShortcutPlaylists, sc.ID)
		if err != nil || len(ids) != 0 {
			t.Errorf("expected pin to cascade, got %v (%v)", ids, err)
		}

		got, err := f.store.Shortcuts.GetByUser(ctx, f.user.ID)
		if err != nil || got.ID != sc.ID {
			t.Errorf("expected shortcuts %s, got %+v (%v)", sc.ID, got, err)
		}
	})
}
