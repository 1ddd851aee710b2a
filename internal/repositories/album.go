package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

const albumColumns = `id, sequence, artist_id, genre_id, title, release_year, cover_url, created_at, updated_at`

// AlbumRepository implements [models.AlbumRepository].
//
// Track listings live in album_songs, ordered by position, and are always
// written in the same transaction as the album row.
type AlbumRepository struct {
	db *sql.DB
}

func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	if err := album.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "albums")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := shared.GenerateID()
	query := `
		INSERT INTO albums (id, sequence, artist_id, genre_id, title, release_year, cover_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		id, sequence, album.ArtistID, album.GenreID, album.Title, album.ReleaseYear, album.CoverURL, album.CreatedAt, album.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "album")
	}

	if err := writeTracks(ctx, tx, id, album.SongIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit album: %w", err)
	}

	album.ID = id
	album.Sequence = sequence
	return nil
}

func (r *AlbumRepository) Get(ctx context.Context, id string) (*models.Album, error) {
	album, err := r.scan(r.db.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("album", id)
	}
	if err != nil {
		return nil, err
	}

	if album.SongIDs, err = r.tracks(ctx, album.ID); err != nil {
		return nil, err
	}
	return album, nil
}

// Update rewrites the album row and replaces its track listing.
func (r *AlbumRepository) Update(ctx context.Context, album *models.Album) error {
	if err := album.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE albums SET genre_id = ?, title = ?, release_year = ?, cover_url = ?, updated_at = ? WHERE id = ?`,
		album.GenreID, album.Title, album.ReleaseYear, album.CoverURL, now, album.ID,
	)
	if err != nil {
		return translate(err, "update", "album")
	}
	if err := expectAffected(result, "album", album.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM album_songs WHERE album_id = ?`, album.ID); err != nil {
		return fmt.Errorf("failed to clear album songs: %w", err)
	}
	if err := writeTracks(ctx, tx, album.ID, album.SongIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit album: %w", err)
	}

	album.UpdatedAt = now
	return nil
}

// Delete removes an album; its track listing and shortcut pins cascade.
func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete", "album")
	}
	return expectAffected(result, "album", id)
}

func (r *AlbumRepository) ListByArtist(ctx context.Context, artistID string) ([]*models.Album, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE artist_id = ? ORDER BY sequence ASC`, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}

	albums := []*models.Album{}
	for rows.Next() {
		album, err := r.scan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	// release the connection before loading track listings
	rows.Close()

	for _, album := range albums {
		if album.SongIDs, err = r.tracks(ctx, album.ID); err != nil {
			return nil, err
		}
	}
	return albums, nil
}

func (r *AlbumRepository) CountByGenre(ctx context.Context, genreID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums WHERE genre_id = ?`, genreID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count albums: %w", err)
	}
	return n, nil
}

func (r *AlbumRepository) CountBySong(ctx context.Context, songID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT album_id) FROM album_songs WHERE song_id = ?`, songID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count albums: %w", err)
	}
	return n, nil
}

func (r *AlbumRepository) tracks(ctx context.Context, albumID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT song_id FROM album_songs WHERE album_id = ? ORDER BY position ASC`, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query album songs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan album song: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func writeTracks(ctx context.Context, tx *sql.Tx, albumID string, songIDs []string) error {
	for i, songID := range songIDs {
		_, err := tx.ExecContext(ctx, `INSERT INTO album_songs (album_id, song_id, position) VALUES (?, ?, ?)`, albumID, songID, i)
		if err != nil {
			if isDuplicate(err) {
				return shared.Validation("an album cannot list the same song twice")
			}
			return translate(err, "insert", "album song")
		}
	}
	return nil
}

func (r *AlbumRepository) scan(s scanner) (*models.Album, error) {
	var a models.Album
	err := s.Scan(&a.ID, &a.Sequence, &a.ArtistID, &a.GenreID, &a.Title, &a.ReleaseYear, &a.CoverURL, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan album: %w", err)
	}
	return &a, nil
}
