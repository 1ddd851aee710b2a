// Package models defines the catalog aggregates and the persistence contracts of the tunebase service.
//
// The package contains three categories of types:
//
// 1. Aggregates: entities with an identity, owned fields and relation memberships
//   - [User] : Accounts with credentials, a [Role] reference and an active flag
//   - [Role] : Named roles, mapped onto the closed [RoleName] enumeration for authorization
//   - [Artist] : Artist profiles, exactly one per owning [User]
//   - [Genre] : Genres referenced by albums
//   - [Song] : Artist-owned songs with public/private visibility
//   - [Album] : Artist-owned albums listing an ordered set of songs
//   - [Playlist] : User-owned playlists with public/private visibility
//   - [Shortcuts] : Per-user pins of playlists and albums
//
// 2. Keys and relations: [UniqueKey] describes a scoped-uniqueness rule and [Relation] names a
// many-to-many membership table (songs in a playlist, pins in a shortcuts aggregate).
//
// 3. Repositories: one interface per aggregate plus [MembershipRepository] and [KeyIndex].
// [Store] bundles them so that the SQLite and in-memory implementations are interchangeable.
//
// Relations are modeled as explicit edges keyed by ids, never as embedded object graphs.
package models
