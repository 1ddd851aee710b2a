package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// GenreInput creates or updates a genre.
type GenreInput struct {
	Name        string
	Description string
}

// GenreService manages genres. Mutations are restricted to administrators.
type GenreService struct {
	*core
}

func (s *GenreService) Get(ctx context.Context, id string) (*models.Genre, error) {
	return s.store.Genres.Get(ctx, id)
}

func (s *GenreService) List(ctx context.Context) ([]*models.Genre, error) {
	return s.store.Genres.List(ctx)
}

func (s *GenreService) Create(ctx context.Context, caller access.Identity, in GenreInput) (*models.Genre, error) {
	if err := s.authz.Administer(caller, "genre"); err != nil {
		return nil, err
	}

	genre := models.NewGenre(strings.TrimSpace(in.Name), strings.TrimSpace(in.Description))
	key := models.UniqueKey{Kind: models.KeyGenreName, Value: genre.Name}
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}
	if err := s.store.Genres.Create(ctx, genre); err != nil {
		return nil, s.guard.Translate(key, err)
	}

	s.log("genres").Info("genre created", "id", genre.ID, "name", genre.Name)
	return genre, nil
}

func (s *GenreService) Update(ctx context.Context, caller access.Identity, id string, in GenreInput) (*models.Genre, error) {
	if err := s.authz.Administer(caller, "genre"); err != nil {
		return nil, err
	}

	genre, err := s.store.Genres.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		genre.Name = name
	}
	genre.Description = strings.TrimSpace(in.Description)

	key := models.UniqueKey{Kind: models.KeyGenreName, Value: genre.Name, ExcludeID: genre.ID}
	if err := s.guard.Check(ctx, key); err != nil {
		return nil, err
	}
	if err := s.store.Genres.Update(ctx, genre); err != nil {
		return nil, s.guard.Translate(key, err)
	}
	return genre, nil
}

// Delete removes a genre no album references.
func (s *GenreService) Delete(ctx context.Context, caller access.Identity, id string) error {
	if err := s.authz.Administer(caller, "genre"); err != nil {
		return err
	}

	genre, err := s.store.Genres.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.store.Albums.CountByGenre(ctx, genre.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.InUse("genre", fmt.Sprintf("genre %s is used by %d album(s)", genre.Name, n))
	}

	if err := s.store.Genres.Delete(ctx, genre.ID); err != nil {
		return err
	}
	s.log("genres").Info("genre deleted", "id", genre.ID)
	return nil
}

// ArtistInput creates or updates an artist profile. Blank fields leave updates unchanged.
type ArtistInput struct {
	Name      string
	Country   string
	Biography string
}

// ArtistService manages artist profiles.
type ArtistService struct {
	*core
}

// Create gives the caller an artist profile. A user owns at most one.
func (s *ArtistService) Create(ctx context.Context, caller access.Identity, in ArtistInput) (*models.Artist, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	_, err := s.store.Artists.GetByUser(ctx, caller.UserID)
	if err == nil {
		return nil, shared.AlreadyExists("artist", "user already has an artist profile")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	artist := models.NewArtist(caller.UserID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Country), strings.TrimSpace(in.Biography))
	if err := s.store.Artists.Create(ctx, artist); err != nil {
		return nil, err
	}

	s.log("artists").Info("artist created", "id", artist.ID, "user", caller.UserID)
	return artist, nil
}

// Get returns an artist profile. Deactivated profiles stay readable.
func (s *ArtistService) Get(ctx context.Context, id string) (*models.Artist, error) {
	return s.store.Artists.Get(ctx, id)
}

func (s *ArtistService) List(ctx context.Context) ([]*models.Artist, error) {
	return s.store.Artists.List(ctx)
}

// Update edits a profile. Owner or administrator.
func (s *ArtistService) Update(ctx context.Context, caller access.Identity, id string, in ArtistInput) (*models.Artist, error) {
	artist, err := s.store.Artists.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanWrite(caller, "artist", artist.ID, artist.UserID); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		artist.Name = v
	}
	if v := strings.TrimSpace(in.Country); v != "" {
		artist.Country = v
	}
	if v := strings.TrimSpace(in.Biography); v != "" {
		artist.Biography = v
	}
	artist.UpdatedAt = time.Now()

	if err := s.store.Artists.Update(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

// ToggleActive flips an artist profile's active flag and returns the new state.
func (s *ArtistService) ToggleActive(ctx context.Context, caller access.Identity, id string) (bool, error) {
	active, err := s.toggler.Toggle(ctx, caller, access.AggregateArtist, id)
	if err != nil {
		return false, err
	}
	s.log("artists").Info("artist toggled", "id", id, "active", active, "by", caller.UserID)
	return active, nil
}

// Songs lists an artist's songs. Private songs are only listed for the owner and administrators.
func (s *ArtistService) Songs(ctx context.Context, caller access.Identity, id string) ([]*models.Song, error) {
	artist, err := s.store.Artists.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	songs, err := s.store.Songs.ListByArtist(ctx, artist.ID)
	if err != nil {
		return nil, err
	}

	return lo.Filter(songs, func(song *models.Song, _ int) bool {
		return access.Decide(caller, access.ActionRead, access.Subject{OwnerID: artist.UserID, Public: song.Public})
	}), nil
}

// Albums lists an artist's albums.
func (s *ArtistService) Albums(ctx context.Context, id string) ([]*models.Album, error) {
	artist, err := s.store.Artists.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.store.Albums.ListByArtist(ctx, artist.ID)
}
