// Package services implements the domain services of the catalog: accounts, roles,
// genres, artists, songs, albums, playlists and shortcuts.
//
// Every operation takes the caller's [access.Identity] explicitly and consults the
// access package in a fixed order: identity, then uniqueness and authorization,
// then membership, then persistence through a [models.Store].
//
// # Errors
//
// Business-rule failures are [shared.Error] values returned unwrapped at the point
// of detection, so callers can branch on [shared.KindOf]:
//   - [shared.KindNotPublic] : read of a hidden playlist or song
//   - [shared.KindAccessDenied] : any other authorization failure, role escalation included
//   - [shared.KindAlreadyExists] : scoped-uniqueness violations, whether caught by the
//     pre-check or by the storage layer
//   - [shared.KindAlreadyMember] / [shared.KindNotMember] : membership mutations
//   - [shared.KindInUse] : deletes blocked by references
//
// Any other error is an internal failure.
//
// # Bootstrap
//
// [Services.Bootstrap] seeds the USER and ADMIN roles and the configured administrator.
package services
