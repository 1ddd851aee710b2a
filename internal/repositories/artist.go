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

const artistColumns = `id, sequence, user_id, name, country, biography, active, created_at, updated_at`

// ArtistRepository implements [models.ArtistRepository]. The unique user_id
// index keeps every user to a single artist profile.
type ArtistRepository struct {
	db *sql.DB
}

func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	query := `
		INSERT INTO artists (id, sequence, user_id, name, country, biography, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		id, sequence, artist.UserID, artist.Name, artist.Country, artist.Biography, artist.Active, artist.CreatedAt, artist.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "artist")
	}

	artist.ID = id
	artist.Sequence = sequence
	return nil
}

func (r *ArtistRepository) Get(ctx context.Context, id string) (*models.Artist, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = ?`, id), id)
}

// GetByUser retrieves the artist profile owned by userID
func (r *ArtistRepository) GetByUser(ctx context.Context, userID string) (*models.Artist, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE user_id = ?`, userID), "user "+userID)
}

func (r *ArtistRepository) Update(ctx context.Context, artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	artist.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`UPDATE artists SET name = ?, country = ?, biography = ?, active = ?, updated_at = ? WHERE id = ?`,
		artist.Name, artist.Country, artist.Biography, artist.Active, now, artist.ID,
	)
	if err != nil {
		return translate(err, "update", "artist")
	}
	return expectAffected(result, "artist", artist.ID)
}

func (r *ArtistRepository) List(ctx context.Context) ([]*models.Artist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+artistColumns+` FROM artists ORDER BY sequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	artists := []*models.Artist{}
	for rows.Next() {
		artist, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return artists, nil
}

func (r *ArtistRepository) scanOne(row *sql.Row, key string) (*models.Artist, error) {
	artist, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("artist", key)
	}
	return artist, err
}

func (r *ArtistRepository) scan(s scanner) (*models.Artist, error) {
	var a models.Artist
	err := s.Scan(&a.ID, &a.Sequence, &a.UserID, &a.Name, &a.Country, &a.Biography, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}
	return &a, nil
}
