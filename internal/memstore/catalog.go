package memstore

import (
	"context"
	"sort"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

type artistRepo struct{ s *Store }

func (r *artistRepo) Create(_ context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.artists {
		if a.UserID == artist.UserID {
			return shared.AlreadyExists("artist", "user already owns an artist profile")
		}
	}
	artist.ID = shared.GenerateID()
	artist.Sequence = r.s.nextSequence()
	r.s.artists[artist.ID] = *artist
	return nil
}

func (r *artistRepo) Get(_ context.Context, id string) (*models.Artist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.artists[id]
	if !ok {
		return nil, shared.NotFound("artist", id)
	}
	return &a, nil
}

func (r *artistRepo) GetByUser(_ context.Context, userID string) (*models.Artist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.artists {
		if a.UserID == userID {
			return &a, nil
		}
	}
	return nil, shared.NotFound("artist", "user "+userID)
}

func (r *artistRepo) Update(_ context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.artists[artist.ID]; !ok {
		return shared.NotFound("artist", artist.ID)
	}
	r.s.artists[artist.ID] = *artist
	return nil
}

func (r *artistRepo) List(_ context.Context) ([]*models.Artist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	artists := make([]*models.Artist, 0, len(r.s.artists))
	for _, a := range r.s.artists {
		a := a
		artists = append(artists, &a)
	}
	sort.Slice(artists, func(i, j int) bool { return artists[i].Sequence < artists[j].Sequence })
	return artists, nil
}

type genreRepo struct{ s *Store }

func (r *genreRepo) Create(_ context.Context, genre *models.Genre) error {
	if err := genre.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	genre.ID = shared.GenerateID()
	if err := r.s.violates(models.UniqueKey{Kind: models.KeyGenreName, Value: genre.Name, ExcludeID: genre.ID}); err != nil {
		return err
	}
	genre.Sequence = r.s.nextSequence()
	r.s.genres[genre.ID] = *genre
	return nil
}

func (r *genreRepo) Get(_ context.Context, id string) (*models.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.genres[id]
	if !ok {
		return nil, shared.NotFound("genre", id)
	}
	return &g, nil
}

func (r *genreRepo) Update(_ context.Context, genre *models.Genre) error {
	if err := genre.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.genres[genre.ID]; !ok {
		return shared.NotFound("genre", genre.ID)
	}
	if err := r.s.violates(models.UniqueKey{Kind: models.KeyGenreName, Value: genre.Name, ExcludeID: genre.ID}); err != nil {
		return err
	}
	r.s.genres[genre.ID] = *genre
	return nil
}

func (r *genreRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.genres[id]; !ok {
		return shared.NotFound("genre", id)
	}
	delete(r.s.genres, id)
	return nil
}

func (r *genreRepo) List(_ context.Context) ([]*models.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	genres := make([]*models.Genre, 0, len(r.s.genres))
	for _, g := range r.s.genres {
		g := g
		genres = append(genres, &g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Sequence < genres[j].Sequence })
	return genres, nil
}

type songRepo struct{ s *Store }

func songKey(s *models.Song) models.UniqueKey {
	return models.UniqueKey{Kind: models.KeySongTitle, Scope: s.ArtistID, Value: s.Title, ExcludeID: s.ID}
}

func (r *songRepo) Create(_ context.Context, song *models.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	song.ID = shared.GenerateID()
	if err := r.s.violates(songKey(song)); err != nil {
		return err
	}
	song.Sequence = r.s.nextSequence()
	r.s.songs[song.ID] = *song
	return nil
}

func (r *songRepo) Get(_ context.Context, id string) (*models.Song, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	so, ok := r.s.songs[id]
	if !ok {
		return nil, shared.NotFound("song", id)
	}
	return &so, nil
}

func (r *songRepo) Update(_ context.Context, song *models.Song) error {
	if err := song.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.songs[song.ID]; !ok {
		return shared.NotFound("song", song.ID)
	}
	if err := r.s.violates(songKey(song)); err != nil {
		return err
	}
	r.s.songs[song.ID] = *song
	return nil
}

func (r *songRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.songs[id]; !ok {
		return shared.NotFound("song", id)
	}
	delete(r.s.songs, id)
	r.s.dropEdges(models.PlaylistSongs, id)
	return nil
}

func (r *songRepo) ListByArtist(_ context.Context, artistID string) ([]*models.Song, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	songs := []*models.Song{}
	for _, so := range r.s.songs {
		if so.ArtistID == artistID {
			so := so
			songs = append(songs, &so)
		}
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].Sequence < songs[j].Sequence })
	return songs, nil
}

type albumRepo struct{ s *Store }

func albumKey(a *models.Album) models.UniqueKey {
	return models.UniqueKey{Kind: models.KeyAlbumTitle, Scope: a.ArtistID, Value: a.Title, ExcludeID: a.ID}
}

// stored copies the song list so callers cannot mutate the arena through it.
func stored(a *models.Album) models.Album {
	c := *a
	c.SongIDs = append([]string(nil), a.SongIDs...)
	return c
}

func (r *albumRepo) Create(_ context.Context, album *models.Album) error {
	if err := album.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	album.ID = shared.GenerateID()
	if err := r.s.violates(albumKey(album)); err != nil {
		return err
	}
	album.Sequence = r.s.nextSequence()
	r.s.albums[album.ID] = stored(album)
	return nil
}

func (r *albumRepo) Get(_ context.Context, id string) (*models.Album, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.albums[id]
	if !ok {
		return nil, shared.NotFound("album", id)
	}
	c := stored(&a)
	return &c, nil
}

func (r *albumRepo) Update(_ context.Context, album *models.Album) error {
	if err := album.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.albums[album.ID]; !ok {
		return shared.NotFound("album", album.ID)
	}
	if err := r.s.violates(albumKey(album)); err != nil {
		return err
	}
	r.s.albums[album.ID] = stored(album)
	return nil
}

func (r *albumRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.albums[id]; !ok {
		return shared.NotFound("album", id)
	}
	delete(r.s.albums, id)
	r.s.dropEdges(models.ShortcutAlbums, id)
	return nil
}

func (r *albumRepo) ListByArtist(_ context.Context, artistID string) ([]*models.Album, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	albums := []*models.Album{}
	for _, a := range r.s.albums {
		if a.ArtistID == artistID {
			c := stored(&a)
			albums = append(albums, &c)
		}
	}
	sort.Slice(albums, func(i, j int) bool { return albums[i].Sequence < albums[j].Sequence })
	return albums, nil
}

func (r *albumRepo) CountByGenre(_ context.Context, genreID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, a := range r.s.albums {
		if a.GenreID == genreID {
			n++
		}
	}
	return n, nil
}

func (r *albumRepo) CountBySong(_ context.Context, songID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, a := range r.s.albums {
		if a.HasSong(songID) {
			n++
		}
	}
	return n, nil
}
