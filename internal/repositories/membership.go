package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

// junction maps a relation onto its table and column names.
type junction struct {
	table  string
	owner  string
	member string
}

var junctions = map[models.Relation]junction{
	models.PlaylistSongs:     {table: "playlist_songs", owner: "playlist_id", member: "song_id"},
	models.ShortcutPlaylists: {table: "shortcut_playlists", owner: "shortcut_id", member: "playlist_id"},
	models.ShortcutAlbums:    {table: "shortcut_albums", owner: "shortcut_id", member: "album_id"},
}

// MembershipRepository implements [models.MembershipRepository] over the junction tables.
//
// Each table's primary key is (owner, member), so a duplicate insert that slips past
// a membership check is rejected here and reported as an already-member error.
type MembershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func lookupJunction(rel models.Relation) (junction, error) {
	j, ok := junctions[rel]
	if !ok {
		return junction{}, shared.Validation("unknown relation " + string(rel))
	}
	return j, nil
}

func (r *MembershipRepository) Has(ctx context.Context, rel models.Relation, ownerID, memberID string) (bool, error) {
	j, err := lookupJunction(rel)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = ? AND %s = ?)`, j.table, j.owner, j.member)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID, memberID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query %s: %w", j.table, err)
	}
	return exists, nil
}

func (r *MembershipRepository) Add(ctx context.Context, rel models.Relation, ownerID, memberID string) error {
	j, err := lookupJunction(rel)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?)`, j.table, j.owner, j.member)
	if _, err := r.db.ExecContext(ctx, query, ownerID, memberID); err != nil {
		if isDuplicate(err) {
			return shared.AlreadyMember(string(rel), memberID)
		}
		return translate(err, "insert", j.table)
	}
	return nil
}

func (r *MembershipRepository) Remove(ctx context.Context, rel models.Relation, ownerID, memberID string) error {
	j, err := lookupJunction(rel)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND %s = ?`, j.table, j.owner, j.member)
	result, err := r.db.ExecContext(ctx, query, ownerID, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", j.table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return shared.NotMember(string(rel), memberID)
	}
	return nil
}

// Members lists member ids of ownerID in ascending id order.
func (r *MembershipRepository) Members(ctx context.Context, rel models.Relation, ownerID string) ([]string, error) {
	j, err := lookupJunction(rel)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? ORDER BY %s ASC`, j.member, j.table, j.owner, j.member)
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", j.table, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", j.member, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}
