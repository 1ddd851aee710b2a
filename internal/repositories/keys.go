package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/tunebase/internal/models"
)

// keyColumn locates the indexed column of a unique key.
type keyColumn struct {
	table  string
	column string
	scope  string
}

var keyColumns = map[models.KeyKind]keyColumn{
	models.KeyAlbumTitle:   {table: "albums", column: "title", scope: "artist_id"},
	models.KeySongTitle:    {table: "songs", column: "title", scope: "artist_id"},
	models.KeyPlaylistName: {table: "playlists", column: "name", scope: "owner_id"},
	models.KeyGenreName:    {table: "genres", column: "name"},
	models.KeyRoleName:     {table: "roles", column: "name"},
	models.KeyUsername:     {table: "users", column: "username"},
	models.KeyEmail:        {table: "users", column: "email"},
}

// KeyIndex implements [models.KeyIndex] with the same collation as the unique indexes.
type KeyIndex struct {
	db *sql.DB
}

func NewKeyIndex(db *sql.DB) *KeyIndex {
	return &KeyIndex{db: db}
}

func (k *KeyIndex) Exists(ctx context.Context, key models.UniqueKey) (bool, error) {
	kc, ok := keyColumns[key.Kind]
	if !ok {
		return false, fmt.Errorf("unknown key kind %q", key.Kind)
	}

	cond := kc.column + " = ?"
	if !key.Kind.CaseSensitive() {
		cond += " COLLATE NOCASE"
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s AND id <> ?`, kc.table, cond)
	args := []any{key.Value, key.ExcludeID}
	if kc.scope != "" {
		query += " AND " + kc.scope + " = ?"
		args = append(args, key.Scope)
	}
	query += ")"

	var exists bool
	if err := k.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", kc.table, err)
	}
	return exists, nil
}
