package models

// KeyKind identifies a scoped-uniqueness rule.
type KeyKind string

const (
	KeyAlbumTitle   KeyKind = "album_title"   // scope: artist
	KeySongTitle    KeyKind = "song_title"    // scope: artist
	KeyPlaylistName KeyKind = "playlist_name" // scope: owning user
	KeyGenreName    KeyKind = "genre_name"
	KeyRoleName     KeyKind = "role_name"
	KeyUsername     KeyKind = "username"
	KeyEmail        KeyKind = "email"
)

// Scoped reports whether the rule applies within an owner scope rather than globally.
func (k KeyKind) Scoped() bool {
	switch k {
	case KeyAlbumTitle, KeySongTitle, KeyPlaylistName:
		return true
	}
	return false
}

// CaseSensitive reports whether values are compared byte-for-byte.
//
// Only usernames are; every name, title and email compares case-insensitively.
func (k KeyKind) CaseSensitive() bool {
	return k == KeyUsername
}

// UniqueKey is a single uniqueness check.
//
// ExcludeID names the record being updated so that it does not collide with itself.
type UniqueKey struct {
	Kind      KeyKind
	Scope     string
	Value     string
	ExcludeID string
}

// Relation names a many-to-many membership table.
type Relation string

const (
	PlaylistSongs     Relation = "playlist_songs"
	ShortcutPlaylists Relation = "shortcut_playlists"
	ShortcutAlbums    Relation = "shortcut_albums"
)
