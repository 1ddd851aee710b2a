// Package access implements the ownership, visibility and membership-consistency rules that run
// underneath every catalog operation.
//
// # Identity
//
// [Resolver] turns an opaque bearer token into an [Identity] (user id + [models.RoleName]).
// Tokens are issued and verified by [Tokens]. Only active users resolve. The resolved identity is
// passed explicitly into every other component; nothing here reads ambient request state.
//
// # Uniqueness
//
// [Guard] answers scoped-uniqueness checks ([models.UniqueKey]) against a [models.KeyIndex] and
// translates storage-level constraint rejections into the same error the check would return.
//
// # Authorization
//
// [Decide] is a single table-driven predicate over ([Identity], [Action], [Subject]).
// [Authorizer] wraps it and picks the denial kind: reads are denied with a "not public" error,
// every other action with "access denied".
//
// # Membership
//
// [Manager] mutates the many-to-many relations (songs in playlists, pinned playlists and albums)
// with existence checks and strict add/remove semantics: adding a present member and removing an
// absent one are both errors.
//
// # Lifecycle
//
// [Toggler] flips the active flag of users and artist profiles.
package access
