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

const playlistColumns = `id, sequence, owner_id, name, description, public, created_at, updated_at`

// PlaylistRepository implements [models.PlaylistRepository] for user playlists.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist into the database with generated ID and sequence
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO playlists (id, sequence, owner_id, name, description, public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		sequence,
		playlist.OwnerID,
		playlist.Name,
		playlist.Description,
		playlist.Public,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "playlist")
	}

	playlist.ID = id
	playlist.Sequence = sequence
	return nil
}

// Get retrieves a playlist by ID
func (r *PlaylistRepository) Get(ctx context.Context, id string) (*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = ?`

	playlist, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("playlist", id)
	}
	return playlist, err
}

// Update modifies an existing playlist in the database
func (r *PlaylistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.UpdatedAt = now

	query := `
		UPDATE playlists
		SET name = ?, description = ?, public = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		playlist.Name,
		playlist.Description,
		playlist.Public,
		now,
		playlist.ID,
	)
	if err != nil {
		return translate(err, "update", "playlist")
	}

	return expectAffected(result, "playlist", playlist.ID)
}

// Delete removes a playlist. Song memberships and shortcut pins cascade.
func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete", "playlist")
	}

	return expectAffected(result, "playlist", id)
}

// ListByOwner retrieves every playlist owned by ownerID
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	return r.list(ctx, ` WHERE owner_id = ?`, ownerID)
}

// ListPublic retrieves every public playlist
func (r *PlaylistRepository) ListPublic(ctx context.Context) ([]*models.Playlist, error) {
	return r.list(ctx, ` WHERE public = 1`)
}

func (r *PlaylistRepository) list(ctx context.Context, where string, args ...any) ([]*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists` + where + ` ORDER BY sequence ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := []*models.Playlist{}
	for rows.Next() {
		playlist, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// scan scans a single row into a [models.Playlist]
func (r *PlaylistRepository) scan(s scanner) (*models.Playlist, error) {
	var p models.Playlist
	err := s.Scan(&p.ID, &p.Sequence, &p.OwnerID, &p.Name, &p.Description, &p.Public, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}
	return &p, nil
}
