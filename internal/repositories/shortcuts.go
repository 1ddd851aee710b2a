package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// ShortcutsRepository implements [models.ShortcutsRepository]. Pins are stored
// by [MembershipRepository].
type ShortcutsRepository struct {
	db *sql.DB
}

func NewShortcutsRepository(db *sql.DB) *ShortcutsRepository {
	return &ShortcutsRepository{db: db}
}

func (r *ShortcutsRepository) Create(ctx context.Context, sc *models.Shortcuts) error {
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	_, err := r.db.ExecContext(ctx, `INSERT INTO shortcuts (id, user_id, created_at) VALUES (?, ?, ?)`, id, sc.UserID, sc.CreatedAt)
	if err != nil {
		return translate(err, "insert", "shortcuts")
	}

	sc.ID = id
	return nil
}

func (r *ShortcutsRepository) Get(ctx context.Context, id string) (*models.Shortcuts, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT id, user_id, created_at FROM shortcuts WHERE id = ?`, id), id)
}

func (r *ShortcutsRepository) GetByUser(ctx context.Context, userID string) (*models.Shortcuts, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT id, user_id, created_at FROM shortcuts WHERE user_id = ?`, userID), "user "+userID)
}

func (r *ShortcutsRepository) scanOne(row *sql.Row, key string) (*models.Shortcuts, error) {
	var sc models.Shortcuts
	err := row.Scan(&sc.ID, &sc.UserID, &sc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("shortcuts", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan shortcuts: %w", err)
	}
	return &sc, nil
}
