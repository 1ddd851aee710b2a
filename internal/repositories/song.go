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

const songColumns = `id, sequence, artist_id, title, public, release_date, media_url, created_at, updated_at`

// SongRepository implements [models.SongRepository].
type SongRepository struct {
	db *sql.DB
}

func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

func (r *SongRepository) Create(ctx context.Context, song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	query := `
		INSERT INTO songs (id, sequence, artist_id, title, public, release_date, media_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		id, sequence, song.ArtistID, song.Title, song.Public, song.ReleaseDate, song.MediaURL, song.CreatedAt, song.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "song")
	}

	song.ID = id
	song.Sequence = sequence
	return nil
}

func (r *SongRepository) Get(ctx context.Context, id string) (*models.Song, error) {
	song, err := r.scan(r.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("song", id)
	}
	return song, err
}

// Update writes the mutable song fields. The release date is never rewritten.
func (r *SongRepository) Update(ctx context.Context, song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`UPDATE songs SET title = ?, public = ?, media_url = ?, updated_at = ? WHERE id = ?`,
		song.Title, song.Public, song.MediaURL, now, song.ID,
	)
	if err != nil {
		return translate(err, "update", "song")
	}
	return expectAffected(result, "song", song.ID)
}

// Delete removes a song and, through the schema's cascade, its playlist memberships.
// A song still listed on an album is an in-use error.
func (r *SongRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete", "song")
	}
	return expectAffected(result, "song", id)
}

func (r *SongRepository) ListByArtist(ctx context.Context, artistID string) ([]*models.Song, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+songColumns+` FROM songs WHERE artist_id = ? ORDER BY sequence ASC`, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []*models.Song{}
	for rows.Next() {
		song, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return songs, nil
}

func (r *SongRepository) scan(s scanner) (*models.Song, error) {
	var so models.Song
	err := s.Scan(&so.ID, &so.Sequence, &so.ArtistID, &so.Title, &so.Public, &so.ReleaseDate, &so.MediaURL, &so.CreatedAt, &so.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}
	so.ReleaseDate = so.ReleaseDate.UTC()
	return &so, nil
}
