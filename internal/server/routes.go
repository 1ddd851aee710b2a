package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(RateLimit(s.config.RateLimit, s.config.RateBurst))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(s.svc.Resolver, s.logger))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", s.handleMe)
			r.Get("/playlists", s.handleMyPlaylists)
			r.Get("/shortcuts", s.handleMyShortcuts)
			r.Put("/shortcuts/playlists/{id}", s.handlePinPlaylist)
			r.Delete("/shortcuts/playlists/{id}", s.handleUnpinPlaylist)
			r.Put("/shortcuts/albums/{id}", s.handlePinAlbum)
			r.Delete("/shortcuts/albums/{id}", s.handleUnpinAlbum)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Get("/{id}", s.handleGetUser)
			r.Patch("/{id}", s.handleUpdateUser)
			r.Post("/{id}/toggle", s.handleToggleUser)
			r.Get("/{id}/playlists", s.handleUserPlaylists)
			r.Get("/{id}/shortcuts", s.handleUserShortcuts)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Get("/", s.handleListRoles)
			r.Post("/", s.handleCreateRole)
			r.Get("/{id}", s.handleGetRole)
			r.Patch("/{id}", s.handleUpdateRole)
			r.Delete("/{id}", s.handleDeleteRole)
		})

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", s.handleListGenres)
			r.Post("/", s.handleCreateGenre)
			r.Get("/{id}", s.handleGetGenre)
			r.Patch("/{id}", s.handleUpdateGenre)
			r.Delete("/{id}", s.handleDeleteGenre)
		})

		r.Route("/artists", func(r chi.Router) {
			r.Get("/", s.handleListArtists)
			r.Post("/", s.handleCreateArtist)
			r.Get("/{id}", s.handleGetArtist)
			r.Patch("/{id}", s.handleUpdateArtist)
			r.Post("/{id}/toggle", s.handleToggleArtist)
			r.Get("/{id}/songs", s.handleArtistSongs)
			r.Get("/{id}/albums", s.handleArtistAlbums)
		})

		r.Route("/songs", func(r chi.Router) {
			r.Post("/", s.handleCreateSong)
			r.Get("/{id}", s.handleGetSong)
			r.Patch("/{id}", s.handleUpdateSong)
			r.Delete("/{id}", s.handleDeleteSong)
		})

		r.Route("/albums", func(r chi.Router) {
			r.Post("/", s.handleCreateAlbum)
			r.Get("/{id}", s.handleGetAlbum)
			r.Patch("/{id}", s.handleUpdateAlbum)
			r.Delete("/{id}", s.handleDeleteAlbum)
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/", s.handlePublicPlaylists)
			r.Post("/", s.handleCreatePlaylist)
			r.Get("/{id}", s.handleGetPlaylist)
			r.Patch("/{id}", s.handleUpdatePlaylist)
			r.Delete("/{id}", s.handleDeletePlaylist)
			r.Get("/{id}/songs", s.handlePlaylistSongs)
			r.Put("/{id}/songs/{songID}", s.handleAddSong)
			r.Delete("/{id}/songs/{songID}", s.handleRemoveSong)
			r.Get("/{id}/export", s.handleExport)
		})
	})

	return r
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		s.logger.Warn("failed to write response", "err", err, "path", r.URL.Path)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(s.logger, w, r, err)
}
