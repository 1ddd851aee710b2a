package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// SongInput publishes a song. A zero ReleaseDate means now.
type SongInput struct {
	Title       string
	MediaURL    string
	Public      bool
	ReleaseDate time.Time
}

// SongUpdate is a partial song update. The release date may be echoed back but never changed.
type SongUpdate struct {
	Title       *string
	MediaURL    *string
	Public      *bool
	ReleaseDate *time.Time
}

// SongService manages songs. Only the owning artist may modify a song.
type SongService struct {
	*core
}

func songKey(artistID, title, excludeID string) models.UniqueKey {
	return models.UniqueKey{Kind: models.KeySongTitle, Scope: artistID, Value: title, ExcludeID: excludeID}
}

// Create publishes a song under the caller's artist profile.
func (s *SongService) Create(ctx context.Context, caller access.Identity, in SongInput) (*models.Song, error) {
	artist, err := s.callerArtist(ctx, caller)
	if err != nil {
		return nil, err
	}

	song := models.NewSong(artist.ID, strings.TrimSpace(in.Title), strings.TrimSpace(in.MediaURL), in.Public, in.ReleaseDate)
	key := songKey(artist.ID, song.Title, "")
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}
	if err := s.store.Songs.Create(ctx, song); err != nil {
		return nil, s.guard.Translate(key, err)
	}

	s.log("songs").Info("song created", "id", song.ID, "artist", artist.ID)
	return song, nil
}

// Get returns a song the caller may read.
func (s *SongService) Get(ctx context.Context, caller access.Identity, id string) (*models.Song, error) {
	song, _, err := s.readSong(ctx, caller, id)
	return song, err
}

// ListByArtist lists the songs of artistID visible to caller.
func (s *SongService) ListByArtist(ctx context.Context, caller access.Identity, artistID string) ([]*models.Song, error) {
	return (&ArtistService{core: s.core}).Songs(ctx, caller, artistID)
}

// writable loads a song and checks the caller is its artist.
func (s *SongService) writable(ctx context.Context, caller access.Identity, id string) (*models.Song, error) {
	song, err := s.store.Songs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	callerArtistID, err := s.callerArtistID(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanWriteArtistOwned(caller, "song", song.ID, song.ArtistID, callerArtistID); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *SongService) Update(ctx context.Context, caller access.Identity, id string, in SongUpdate) (*models.Song, error) {
	song, err := s.writable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.ReleaseDate != nil && !in.ReleaseDate.Equal(song.ReleaseDate) {
		return nil, shared.Validation("a song's release date cannot be changed")
	}

	set(&song.Title, in.Title)
	set(&song.MediaURL, in.MediaURL)
	if in.Public != nil {
		song.Public = *in.Public
	}
	song.UpdatedAt = time.Now()

	key := songKey(song.ArtistID, song.Title, song.ID)
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}
	if err := s.store.Songs.Update(ctx, song); err != nil {
		return nil, s.guard.Translate(key, err)
	}
	return song, nil
}

// Delete removes a song that no album lists. Its playlist memberships go with it.
func (s *SongService) Delete(ctx context.Context, caller access.Identity, id string) error {
	song, err := s.writable(ctx, caller, id)
	if err != nil {
		return err
	}

	n, err := s.store.Albums.CountBySong(ctx, song.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.InUse("song", fmt.Sprintf("song %q is listed on %d album(s)", song.Title, n))
	}

	if err := s.store.Songs.Delete(ctx, song.ID); err != nil {
		return err
	}
	s.log("songs").Info("song deleted", "id", song.ID)
	return nil
}

// AlbumInput creates an album.
type AlbumInput struct {
	Title       string
	GenreID     string
	ReleaseYear int
	CoverURL    string
	SongIDs     []string
}

// AlbumUpdate is a partial album update. A nil SongIDs keeps the track listing.
type AlbumUpdate struct {
	Title       *string
	GenreID     *string
	ReleaseYear *int
	CoverURL    *string
	SongIDs     []string
}

// AlbumService manages albums. Only the owning artist may modify an album.
type AlbumService struct {
	*core
}

func albumKey(artistID, title, excludeID string) models.UniqueKey {
	return models.UniqueKey{Kind: models.KeyAlbumTitle, Scope: artistID, Value: title, ExcludeID: excludeID}
}

// checkTracks enforces album composition: at least two distinct songs, all by artistID.
func (s *AlbumService) checkTracks(ctx context.Context, artistID string, songIDs []string) error {
	if len(songIDs) < models.MinAlbumSongs {
		return shared.Validation(fmt.Sprintf("an album must list at least %d songs", models.MinAlbumSongs))
	}
	if len(lo.Uniq(songIDs)) != len(songIDs) {
		return shared.Validation("an album cannot list the same song twice")
	}
	for _, id := range songIDs {
		song, err := s.store.Songs.Get(ctx, id)
		if err != nil {
			return err
		}
		if song.ArtistID != artistID {
			return shared.Validation(fmt.Sprintf("song %q belongs to another artist", song.Title))
		}
	}
	return nil
}

// Create releases an album under the caller's artist profile.
func (s *AlbumService) Create(ctx context.Context, caller access.Identity, in AlbumInput) (*models.Album, error) {
	artist, err := s.callerArtist(ctx, caller)
	if err != nil {
		return nil, err
	}

	if err := s.checkTracks(ctx, artist.ID, in.SongIDs); err != nil {
		return nil, err
	}
	if _, err := s.store.Genres.Get(ctx, in.GenreID); err != nil {
		return nil, err
	}

	album := models.NewAlbum(artist.ID, in.GenreID, strings.TrimSpace(in.Title), strings.TrimSpace(in.CoverURL), in.ReleaseYear, in.SongIDs)
	key := albumKey(artist.ID, album.Title, "")
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}
	if err := s.store.Albums.Create(ctx, album); err != nil {
		return nil, s.guard.Translate(key, err)
	}

	s.log("albums").Info("album created", "id", album.ID, "artist", artist.ID, "songs", len(album.SongIDs))
	return album, nil
}

func (s *AlbumService) Get(ctx context.Context, id string) (*models.Album, error) {
	return s.store.Albums.Get(ctx, id)
}

func (s *AlbumService) ListByArtist(ctx context.Context, artistID string) ([]*models.Album, error) {
	return (&ArtistService{core: s.core}).Albums(ctx, artistID)
}

func (s *AlbumService) writable(ctx context.Context, caller access.Identity, id string) (*models.Album, error) {
	album, err := s.store.Albums.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	callerArtistID, err := s.callerArtistID(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanWriteArtistOwned(caller, "album", album.ID, album.ArtistID, callerArtistID); err != nil {
		return nil, err
	}
	return album, nil
}

func (s *AlbumService) Update(ctx context.Context, caller access.Identity, id string, in AlbumUpdate) (*models.Album, error) {
	album, err := s.writable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.SongIDs != nil {
		if err := s.checkTracks(ctx, album.ArtistID, in.SongIDs); err != nil {
			return nil, err
		}
		album.SongIDs = in.SongIDs
	}
	if in.GenreID != nil {
		if _, err := s.store.Genres.Get(ctx, *in.GenreID); err != nil {
			return nil, err
		}
		album.GenreID = *in.GenreID
	}
	set(&album.Title, in.Title)
	set(&album.CoverURL, in.CoverURL)
	if in.ReleaseYear != nil {
		album.ReleaseYear = *in.ReleaseYear
	}

	key := albumKey(album.ArtistID, album.Title, album.ID)
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}
	album.UpdatedAt = time.Now()
	if err := s.store.Albums.Update(ctx, album); err != nil {
		return nil, s.guard.Translate(key, err)
	}
	return album, nil
}

// Delete removes an album. Shortcut pins of the album go with it; its songs stay.
func (s *AlbumService) Delete(ctx context.Context, caller access.Identity, id string) error {
	album, err := s.writable(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.store.Albums.Delete(ctx, album.ID); err != nil {
		return err
	}
	s.log("albums").Info("album deleted", "id", album.ID)
	return nil
}
