package services

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Services bundles every domain service over one [models.Store].
type Services struct {
	Auth      *AuthService
	Users     *UserService
	Roles     *RoleService
	Genres    *GenreService
	Artists   *ArtistService
	Songs     *SongService
	Albums    *AlbumService
	Playlists *PlaylistService
	Shortcuts *ShortcutsService

	Resolver *access.Resolver
	Tokens   *access.Tokens

	core *core
}

// Options configures [New].
type Options struct {
	Tokens     *access.Tokens
	Logger     *log.Logger
	BcryptCost int
}

// core holds the collaborators shared by every service.
type core struct {
	store   *models.Store
	guard   *access.Guard
	authz   *access.Authorizer
	members *access.Manager
	toggler *access.Toggler
	logger  *log.Logger
}

// New wires the domain services onto store.
func New(store *models.Store, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Tokens == nil {
		opts.Tokens = access.NewTokens(shared.DefaultConfig().Auth.Secret, 0)
	}

	authz := access.NewAuthorizer()
	c := &core{
		store:   store,
		guard:   access.NewGuard(store.Keys),
		authz:   authz,
		members: access.NewManager(store.Members),
		toggler: access.NewToggler(store.Users, store.Artists, authz),
		logger:  opts.Logger,
	}

	return &Services{
		Auth:      &AuthService{core: c, tokens: opts.Tokens, cost: opts.BcryptCost},
		Users:     &UserService{core: c, cost: opts.BcryptCost},
		Roles:     &RoleService{core: c},
		Genres:    &GenreService{core: c},
		Artists:   &ArtistService{core: c},
		Songs:     &SongService{core: c},
		Albums:    &AlbumService{core: c},
		Playlists: &PlaylistService{core: c},
		Shortcuts: &ShortcutsService{core: c},
		Resolver:  access.NewResolver(opts.Tokens, store.Users, store.Roles),
		Tokens:    opts.Tokens,
		core:      c,
	}
}

func (c *core) log(component string) *log.Logger {
	return shared.WithLogger(c.logger, "service", component)
}

// requireCaller rejects anonymous identities.
func requireCaller(caller access.Identity) error {
	if caller.Anonymous() {
		return shared.Identity("authentication required")
	}
	return nil
}

// callerArtistID returns the id of the caller's artist profile, or "" when they have none.
func (c *core) callerArtistID(ctx context.Context, caller access.Identity) (string, error) {
	if caller.Anonymous() {
		return "", nil
	}
	artist, err := c.store.Artists.GetByUser(ctx, caller.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return artist.ID, nil
}

// callerArtist returns the caller's active artist profile.
func (c *core) callerArtist(ctx context.Context, caller access.Identity) (*models.Artist, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	artist, err := c.store.Artists.GetByUser(ctx, caller.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.AccessDenied("an artist profile is required")
	}
	if err != nil {
		return nil, err
	}
	if !artist.Active {
		return nil, shared.AccessDenied("artist profile is deactivated")
	}
	return artist, nil
}

// readSong loads a song and checks that caller may see it. A song is owned by its artist's user.
func (c *core) readSong(ctx context.Context, caller access.Identity, songID string) (*models.Song, *models.Artist, error) {
	song, err := c.store.Songs.Get(ctx, songID)
	if err != nil {
		return nil, nil, err
	}
	artist, err := c.store.Artists.Get(ctx, song.ArtistID)
	if err != nil {
		return nil, nil, err
	}
	if err := c.authz.CanRead(caller, "song", song.ID, artist.UserID, song.Public); err != nil {
		return nil, nil, err
	}
	return song, artist, nil
}

// readPlaylist loads a playlist and applies the read rule.
func (c *core) readPlaylist(ctx context.Context, caller access.Identity, playlistID string) (*models.Playlist, error) {
	playlist, err := c.store.Playlists.Get(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := c.authz.CanRead(caller, "playlist", playlist.ID, playlist.OwnerID, playlist.Public); err != nil {
		return nil, err
	}
	return playlist, nil
}

// set applies an optional string update, trimming it.
func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
