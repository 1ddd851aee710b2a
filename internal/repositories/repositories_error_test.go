package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/shared"
)

func constraintErr(code sqlite3.ErrNoExtended) error {
	return sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: code}
}

func expectSequence(mock sqlmock.Sqlmock, table string) {
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE " + table + "_sequence").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT value FROM " + table + "_sequence").WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(7))
	mock.ExpectCommit()
}

func TestConstraintTranslation(t *testing.T) {
	ctx := context.Background()

	t.Run("UniqueIndexIsAlreadyExists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		expectSequence(mock, "playlists")
		mock.ExpectExec("INSERT INTO playlists").WillReturnError(constraintErr(sqlite3.ErrConstraintUnique))

		err = NewPlaylistRepository(db).Create(ctx, models.NewPlaylist("u1", "Focus", "", false))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PrimaryKeyIsAlreadyMember", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO playlist_songs").
			WithArgs("p1", "s1").
			WillReturnError(constraintErr(sqlite3.ErrConstraintPrimaryKey))

		err = NewMembershipRepository(db).Add(ctx, models.PlaylistSongs, "p1", "s1")
		assert.ErrorIs(t, err, shared.ErrAlreadyMember)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ForeignKeyOnDeleteIsInUse", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM genres").WithArgs("g1").WillReturnError(constraintErr(sqlite3.ErrConstraintForeignKey))

		err = NewGenreRepository(db).Delete(ctx, "g1")
		assert.ErrorIs(t, err, shared.ErrInUse)
	})

	t.Run("ForeignKeyOnInsertIsValidation", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		expectSequence(mock, "songs")
		mock.ExpectExec("INSERT INTO songs").WillReturnError(constraintErr(sqlite3.ErrConstraintForeignKey))

		err = NewSongRepository(db).Create(ctx, models.NewSong("missing-artist", "Intro", "", true, time.Time{}))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("OtherFailuresStayInternal", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("disk I/O error")
		mock.ExpectExec("DELETE FROM playlist_songs").WillReturnError(boom)

		err = NewMembershipRepository(db).Remove(ctx, models.PlaylistSongs, "p1", "s1")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, shared.Kind(""), shared.KindOf(err))
	})

	t.Run("ZeroRowsIsNotMember", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM shortcut_albums").WillReturnResult(sqlmock.NewResult(0, 0))

		err = NewMembershipRepository(db).Remove(ctx, models.ShortcutAlbums, "sc1", "a1")
		assert.ErrorIs(t, err, shared.ErrNotMember)
	})

	t.Run("SequenceFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users_sequence").WillReturnError(errors.New("locked"))
		mock.ExpectRollback()

		role := models.NewRole("USER", "")
		role.ID = "r1"
		err = NewUserRepository(db).Create(ctx, models.NewUser("ana", "ana@example.com", "hash", role.ID))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate sequence")
	})

	t.Run("UnknownRelation", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = NewMembershipRepository(db).Has(ctx, models.Relation("bogus"), "a", "b")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
