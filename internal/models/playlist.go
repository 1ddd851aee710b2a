package models

import (
	"strings"
	"time"

	"github.com/desertthunder/tunebase/internal/shared"
)

// Playlist is owned by the user who created it. Names are unique per owner, ignoring case.
type Playlist struct {
	ID          string
	Sequence    int
	OwnerID     string
	Name        string
	Description string
	Public      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewPlaylist(ownerID, name, description string, public bool) *Playlist {
	now := time.Now()
	return &Playlist{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Public:      public,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *Playlist) Validate() error {
	switch {
	case p.OwnerID == "":
		return shared.Validation("playlist owner is required")
	case strings.TrimSpace(p.Name) == "":
		return shared.Validation("playlist name is required")
	}
	return nil
}

// Shortcuts holds a user's pinned playlists and albums. Every user has exactly one.
//
// Pins live in the [ShortcutPlaylists] and [ShortcutAlbums] relations.
type Shortcuts struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

func NewShortcuts(userID string) *Shortcuts {
	return &Shortcuts{UserID: userID, CreatedAt: time.Now()}
}

func (s *Shortcuts) Validate() error {
	if s.UserID == "" {
		return shared.Validation("shortcuts owner is required")
	}
	return nil
}

// PlaylistEntry is a song row of a [PlaylistExport].
type PlaylistEntry struct {
	Song       *Song
	ArtistName string
}

// PlaylistExport is a playlist with its owner and resolved songs, used for exports.
type PlaylistExport struct {
	Playlist *Playlist
	Owner    string
	Entries  []PlaylistEntry
}
