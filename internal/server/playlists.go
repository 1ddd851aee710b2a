package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/tunebase/internal/formatter"
	"github.com/desertthunder/tunebase/internal/services"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type playlistUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Public      *bool   `json:"public"`
}

func (s *Server) handlePublicPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.svc.Playlists.ListPublic(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, views(playlists, newPlaylistView))
}

func (s *Server) handleMyPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.svc.Playlists.ListMine(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, views(playlists, newPlaylistView))
}

func (s *Server) handleUserPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.svc.Playlists.ListByUser(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, views(playlists, newPlaylistView))
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.svc.Playlists.Get(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newPlaylistView(playlist))
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	playlist, err := s.svc.Playlists.Create(r.Context(), IdentityFrom(r.Context()), services.PlaylistInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, newPlaylistView(playlist))
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistUpdateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	playlist, err := s.svc.Playlists.Update(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), services.PlaylistUpdate(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newPlaylistView(playlist))
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Playlists.Delete(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaylistSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.svc.Playlists.Songs(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, views(songs, newSongView))
}

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Playlists.AddSong(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "songID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveSong(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Playlists.RemoveSong(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "songID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := formatter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	export, err := s.svc.Playlists.Export(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := formatter.Export(export, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Playlist.ID+"."+format.Extension()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write export", "err", err)
	}
}

func (s *Server) handleMyShortcuts(w http.ResponseWriter, r *http.Request) {
	pins, err := s.svc.Shortcuts.Get(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newPinsView(pins))
}

func (s *Server) handleUserShortcuts(w http.ResponseWriter, r *http.Request) {
	pins, err := s.svc.Shortcuts.GetForUser(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, newPinsView(pins))
}

// pinHandler adapts a shortcuts mutation to a 204 handler.
func (s *Server) pinHandler(op func(svc *services.ShortcutsService, r *http.Request, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := op(s.svc.Shortcuts, r, chi.URLParam(r, "id")); err != nil {
			s.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handlePinPlaylist(w http.ResponseWriter, r *http.Request) {
	s.pinHandler(func(svc *services.ShortcutsService, r *http.Request, id string) error {
		return svc.AddPlaylist(r.Context(), IdentityFrom(r.Context()), id)
	})(w, r)
}

func (s *Server) handleUnpinPlaylist(w http.ResponseWriter, r *http.Request) {
	s.pinHandler(func(svc *services.ShortcutsService, r *http.Request, id string) error {
		return svc.RemovePlaylist(r.Context(), IdentityFrom(r.Context()), id)
	})(w, r)
}

func (s *Server) handlePinAlbum(w http.ResponseWriter, r *http.Request) {
	s.pinHandler(func(svc *services.ShortcutsService, r *http.Request, id string) error {
		return svc.AddAlbum(r.Context(), IdentityFrom(r.Context()), id)
	})(w, r)
}

func (s *Server) handleUnpinAlbum(w http.ResponseWriter, r *http.Request) {
	s.pinHandler(func(svc *services.ShortcutsService, r *http.Request, id string) error {
		return svc.RemoveAlbum(r.Context(), IdentityFrom(r.Context()), id)
	})(w, r)
}
