package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// New wires every SQLite repository onto db as a [models.Store].
func New(db *sql.DB) *models.Store {
	return &models.Store{
		Users:     NewUserRepository(db),
		Roles:     NewRoleRepository(db),
		Artists:   NewArtistRepository(db),
		Genres:    NewGenreRepository(db),
		Songs:     NewSongRepository(db),
		Albums:    NewAlbumRepository(db),
		Playlists: NewPlaylistRepository(db),
		Shortcuts: NewShortcutsRepository(db),
		Members:   NewMembershipRepository(db),
		Keys:      NewKeyIndex(db),
	}
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers provide human-readable ordering for entities (e.g., user #42, playlist #15).
// They are NOT exposed in API output but used internally for sorting and debugging.
func NextSequence(ctx context.Context, db *sql.DB, table string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// constraintCode returns the extended sqlite3 constraint code of err, if it is one.
func constraintCode(err error) (sqlite3.ErrNoExtended, bool) {
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return se.ExtendedCode, true
	}
	return 0, false
}

// isDuplicate reports whether err is a unique-index or primary-key rejection.
func isDuplicate(err error) bool {
	code, ok := constraintCode(err)
	return ok && (code == sqlite3.ErrConstraintUnique || code == sqlite3.ErrConstraintPrimaryKey)
}

// translate maps a failed write on resource onto the error taxonomy.
//
// Duplicates become already-exists errors. Foreign-key rejections become
// in-use errors for deletes and validation errors for inserts and updates.
// Everything else is wrapped as an internal failure.
func translate(err error, op, resource string) error {
	if isDuplicate(err) {
		return shared.AlreadyExists(resource, fmt.Sprintf("%s violates a unique constraint", resource))
	}
	if code, ok := constraintCode(err); ok && code == sqlite3.ErrConstraintForeignKey {
		if op == "delete" {
			return shared.InUse(resource, fmt.Sprintf("%s is still referenced", resource))
		}
		return shared.Validation(fmt.Sprintf("%s references a missing record", resource))
	}
	return fmt.Errorf("failed to %s %s: %w", op, resource, err)
}

// expectAffected turns a zero-row write into a not-found error.
func expectAffected(result sql.Result, resource, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return shared.NotFound(resource, id)
	}
	return nil
}
