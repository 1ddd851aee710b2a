package models

import (
	"strings"
	"time"

	"github.com/desertthunder/tunebase/internal/shared"
)

// MinAlbumSongs is the smallest number of songs an album may list.
const MinAlbumSongs = 2

// Artist is an artist profile owned by exactly one [User].
type Artist struct {
	ID        string
	Sequence  int
	UserID    string
	Name      string
	Country   string
	Biography string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewArtist(userID, name, country, biography string) *Artist {
	now := time.Now()
	return &Artist{
		UserID:    userID,
		Name:      name,
		Country:   country,
		Biography: biography,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (a *Artist) Validate() error {
	switch {
	case a.UserID == "":
		return shared.Validation("artist owner is required")
	case strings.TrimSpace(a.Name) == "":
		return shared.Validation("artist name is required")
	}
	return nil
}

// Genre is referenced by albums. Names are unique, ignoring case.
type Genre struct {
	ID          string
	Sequence    int
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewGenre(name, description string) *Genre {
	now := time.Now()
	return &Genre{Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
}

func (g *Genre) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return shared.Validation("genre name is required")
	}
	return nil
}

// Song belongs to one [Artist]. ReleaseDate is set at creation and never changes.
type Song struct {
	ID          string
	Sequence    int
	ArtistID    string
	Title       string
	Public      bool
	ReleaseDate time.Time
	MediaURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewSong(artistID, title, mediaURL string, public bool, releaseDate time.Time) *Song {
	now := time.Now()
	if releaseDate.IsZero() {
		releaseDate = now
	}
	return &Song{
		ArtistID:    artistID,
		Title:       title,
		Public:      public,
		ReleaseDate: releaseDate.UTC(),
		MediaURL:    mediaURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Song) Validate() error {
	switch {
	case s.ArtistID == "":
		return shared.Validation("song artist is required")
	case strings.TrimSpace(s.Title) == "":
		return shared.Validation("song title is required")
	}
	return nil
}

// Album belongs to one [Artist] and lists an ordered set of songs it does not own.
type Album struct {
	ID          string
	Sequence    int
	ArtistID    string
	GenreID     string
	Title       string
	ReleaseYear int
	CoverURL    string
	SongIDs     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewAlbum(artistID, genreID, title, coverURL string, releaseYear int, songIDs []string) *Album {
	now := time.Now()
	return &Album{
		ArtistID:    artistID,
		GenreID:     genreID,
		Title:       title,
		ReleaseYear: releaseYear,
		CoverURL:    coverURL,
		SongIDs:     songIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (a *Album) Validate() error {
	switch {
	case a.ArtistID == "":
		return shared.Validation("album artist is required")
	case a.GenreID == "":
		return shared.Validation("album genre is required")
	case strings.TrimSpace(a.Title) == "":
		return shared.Validation("album title is required")
	case len(a.SongIDs) < MinAlbumSongs:
		return shared.Validation("an album must list at least 2 songs")
	}
	return nil
}

// HasSong reports whether songID is listed on the album.
func (a *Album) HasSong(songID string) bool {
	for _, id := range a.SongIDs {
		if id == songID {
			return true
		}
	}
	return false
}
