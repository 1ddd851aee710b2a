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

const genreColumns = `id, sequence, name, description, created_at, updated_at`

// GenreRepository implements [models.GenreRepository].
type GenreRepository struct {
	db *sql.DB
}

func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if err := genre.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "genres")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO genres (id, sequence, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, sequence, genre.Name, genre.Description, genre.CreatedAt, genre.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "genre")
	}

	genre.ID = id
	genre.Sequence = sequence
	return nil
}

func (r *GenreRepository) Get(ctx context.Context, id string) (*models.Genre, error) {
	genre, err := r.scan(r.db.QueryRowContext(ctx, `SELECT `+genreColumns+` FROM genres WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("genre", id)
	}
	return genre, err
}

func (r *GenreRepository) Update(ctx context.Context, genre *models.Genre) error {
	if err := genre.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	genre.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`UPDATE genres SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		genre.Name, genre.Description, now, genre.ID,
	)
	if err != nil {
		return translate(err, "update", "genre")
	}
	return expectAffected(result, "genre", genre.ID)
}

// Delete removes a genre. Albums still referencing it make this an in-use error.
func (r *GenreRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete", "genre")
	}
	return expectAffected(result, "genre", id)
}

func (r *GenreRepository) List(ctx context.Context) ([]*models.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+genreColumns+` FROM genres ORDER BY sequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	genres := []*models.Genre{}
	for rows.Next() {
		genre, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return genres, nil
}

func (r *GenreRepository) scan(s scanner) (*models.Genre, error) {
	var g models.Genre
	err := s.Scan(&g.ID, &g.Sequence, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan genre: %w", err)
	}
	return &g, nil
}
