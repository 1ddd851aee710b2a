// package server exposes the catalog services over HTTP.
//
// Routes
//
//	GET    /health
//	POST   /auth/signup                     create an account
//	POST   /auth/login                      exchange credentials for a bearer token
//
//	GET    /me                              caller's account
//	GET    /me/playlists                    caller's playlists, private ones included
//	GET    /me/shortcuts                    caller's pinned playlists and albums
//	PUT    /me/shortcuts/playlists/{id}     pin; DELETE unpins
//	PUT    /me/shortcuts/albums/{id}        pin; DELETE unpins
//
//	GET    /users                           administrators only
//	GET    /users/{id}                      PATCH updates (role changes need ADMIN)
//	POST   /users/{id}/toggle               flip the active flag (ADMIN)
//	GET    /users/{id}/playlists            playlists visible to the caller
//	GET    /users/{id}/shortcuts            ADMIN only
//
//	/roles, /genres                         GET lists; POST, PATCH, DELETE need ADMIN
//	/artists                                POST creates the caller's profile
//	POST   /artists/{id}/toggle             owner or ADMIN
//	GET    /artists/{id}/songs              songs visible to the caller
//	GET    /artists/{id}/albums
//	/songs, /albums                         writes need the owning artist profile
//
//	GET    /playlists                       public playlists
//	POST   /playlists
//	GET    /playlists/{id}/songs
//	PUT    /playlists/{id}/songs/{songID}   add; DELETE removes
//	GET    /playlists/{id}/export?format=   csv, markdown, text or json
//
// Requests carry an optional "Authorization: Bearer <token>" header. Without it
// the caller is anonymous and may only read public resources. Errors are JSON
// objects of the form {"error": {"kind": "...", "message": "..."}}.
package server
