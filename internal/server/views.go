package server

import (
	"time"

	"github.com/samber/lo"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/services"
)

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserView(u *models.User, role *models.Role) userView {
	v := userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if role != nil {
		v.Role = role.Name
	}
	return v
}

type roleView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func newRoleView(r *models.Role) roleView {
	return roleView{ID: r.ID, Name: r.Name, Description: r.Description}
}

type genreView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func newGenreView(g *models.Genre) genreView {
	return genreView{ID: g.ID, Name: g.Name, Description: g.Description}
}

type artistView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Country   string    `json:"country,omitempty"`
	Biography string    `json:"biography,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func newArtistView(a *models.Artist) artistView {
	return artistView{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Country:   a.Country,
		Biography: a.Biography,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

type songView struct {
	ID          string    `json:"id"`
	ArtistID    string    `json:"artist_id"`
	Title       string    `json:"title"`
	Public      bool      `json:"public"`
	ReleaseDate time.Time `json:"release_date"`
	MediaURL    string    `json:"media_url,omitempty"`
}

func newSongView(s *models.Song) songView {
	return songView{
		ID:          s.ID,
		ArtistID:    s.ArtistID,
		Title:       s.Title,
		Public:      s.Public,
		ReleaseDate: s.ReleaseDate,
		MediaURL:    s.MediaURL,
	}
}

type albumView struct {
	ID          string   `json:"id"`
	ArtistID    string   `json:"artist_id"`
	GenreID     string   `json:"genre_id"`
	Title       string   `json:"title"`
	ReleaseYear int      `json:"release_year,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	SongIDs     []string `json:"song_ids"`
}

func newAlbumView(a *models.Album) albumView {
	return albumView{
		ID:          a.ID,
		ArtistID:    a.ArtistID,
		GenreID:     a.GenreID,
		Title:       a.Title,
		ReleaseYear: a.ReleaseYear,
		CoverURL:    a.CoverURL,
		SongIDs:     a.SongIDs,
	}
}

type playlistView struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Public      bool      `json:"public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newPlaylistView(p *models.Playlist) playlistView {
	return playlistView{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Public:      p.Public,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type pinsView struct {
	UserID    string         `json:"user_id"`
	Playlists []playlistView `json:"playlists"`
	Albums    []albumView    `json:"albums"`
}

func newPinsView(p *services.Pins) pinsView {
	return pinsView{
		UserID:    p.Shortcuts.UserID,
		Playlists: views(p.Playlists, newPlaylistView),
		Albums:    views(p.Albums, newAlbumView),
	}
}

type tokenView struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type activeView struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

// views maps a model slice onto its JSON views; nil becomes an empty array.
func views[M any, V any](items []*M, view func(*M) V) []V {
	if len(items) == 0 {
		return []V{}
	}
	return lo.Map(items, func(item *M, _ int) V { return view(item) })
}
