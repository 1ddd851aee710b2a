// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository satisfies one of the [models] repository interfaces with atomic
// sequence generation for human-readable ordering.
//
// Key Implementations:
//   - [UserRepository] and [RoleRepository] : accounts with username/email lookups and role references
//   - [ArtistRepository], [GenreRepository], [SongRepository], [AlbumRepository] : the catalog
//   - [PlaylistRepository] and [ShortcutsRepository] : user-owned collections
//   - [MembershipRepository] : the playlist_songs, shortcut_playlists and shortcut_albums junction tables
//   - [KeyIndex] : scoped-uniqueness checks matching the unique indexes of the schema
//
// Unique indexes and junction-table primary keys are the final backstop against
// check-then-write races. Their rejections are translated to the same error kinds
// the pre-checks produce, see [translate].
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
