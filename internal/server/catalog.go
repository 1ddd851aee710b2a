package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/tunebase/internal/services"
)

type genreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type artistRequest struct {
	Name      string `json:"name"`
	Country   string `json:"country"`
	Biography string `json:"biography"`
}

type songRequest struct {
	Title       string    `json:"title"`
	MediaURL    string    `json:"media_url"`
	Public      bool      `json:"public"`
	ReleaseDate time.Time `json:"release_date"`
}

type songUpdateRequest struct {
	Title       *string    `json:"title"`
	MediaURL    *string    `json:"media_url"`
	Public      *bool      `json:"public"`
	ReleaseDate *time.Time `json:"release_date"`
}

type albumRequest struct {
	Title       string   `json:"title"`
	GenreID     string   `json:"genre_id"`
	ReleaseYear int      `json:"release_year"`
	CoverURL    string   `json:"cover_url"`
	SongIDs     []string `json:"song_ids"`
}

type albumUpdateRequest struct {
	Title       *string  `json:"title"`
	GenreID     *string  `json:"genre_id"`
	ReleaseYear *int     `json:"release_year"`
	CoverURL    *string  `json:"cover_url"`
	SongIDs     []string `json:"song_ids"`
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.svc.Genres.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, views(genres, newGenreView))
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := s.svc.Genres.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newGenreView(genre))
}

func (s *Server) handleCreateGenre(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	genre, err := s.svc.Genres.Create(r.Context(), IdentityFrom(r.Context()), services.GenreInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, newGenreView(genre))
}

func (s *Server) handleUpdateGenre(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	genre, err := s.svc.Genres.Update(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), services.GenreInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newGenreView(genre))
}

func (s *Server) handleDeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Genres.Delete(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.svc.Artists.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, views(artists, newArtistView))
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.svc.Artists.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newArtistView(artist))
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var req artistRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	artist, err := s.svc.Artists.Create(r.Context(), IdentityFrom(r.Context()), services.ArtistInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, newArtistView(artist))
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	var req artistRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	artist, err := s.svc.Artists.Update(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), services.ArtistInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newArtistView(artist))
}

func (s *Server) handleToggleArtist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	active, err := s.svc.Artists.ToggleActive(r.Context(), IdentityFrom(r.Context()), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, activeView{ID: id, Active: active})
}

func (s *Server) handleArtistSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.svc.Artists.Songs(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, views(songs, newSongView))
}

func (s *Server) handleArtistAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.svc.Artists.Albums(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, views(albums, newAlbumView))
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.svc.Songs.Get(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newSongView(song))
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	song, err := s.svc.Songs.Create(r.Context(), IdentityFrom(r.Context()), services.SongInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, newSongView(song))
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	var req songUpdateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	song, err := s.svc.Songs.Update(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), services.SongUpdate(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newSongView(song))
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Songs.Delete(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.svc.Albums.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newAlbumView(album))
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	album, err := s.svc.Albums.Create(r.Context(), IdentityFrom(r.Context()), services.AlbumInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, newAlbumView(album))
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumUpdateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	album, err := s.svc.Albums.Update(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), services.AlbumUpdate(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newAlbumView(album))
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Albums.Delete(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
