// Package services defines the [Service] interface for music streaming providers and implements it for Spotify and YouTube.
//
// # Service Interface
//
// All providers expose the same three read operations, so callers can list playlists, read their
// tracks and probe for a track without knowing which provider they talk to. [New] selects the
// implementation by provider key.
//
// # Authentication
//
// Clients never authenticate themselves. Each one draws bearer tokens from a [TokenSource]
// (normally an auth.Source bound to the shared token cache) and hands a token back through
// Invalidate when the provider answers 401 or 403, so the following call fetches a fresh one.
//
// # Spotify Implementation
//
// [SpotifyService] calls the Web API v1 endpoints /users/{id}/playlists, /playlists/{id}/tracks and /search.
//
// # YouTube Implementation
//
// [YouTubeService] calls the Data API v3 endpoints /playlists, /playlistItems and /search with part=snippet.
// YouTube has no artist field, so the owning channel title stands in as the only artist.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrUnauthorized] : 401 or 403, the bearer was invalidated
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrAPIRequest] : any other non-2xx status
//   - [shared.ErrNetwork] : the request never completed
//   - [shared.ErrMalformedResponse] : undecodable body or a required field missing
//
// Token failures from the source (shared.ErrAuthFetchFailed) are returned unchanged.
//
// # Normalization
//
// Provider JSON decodes into unexported intermediate structs whose pointer fields distinguish missing
// from empty. A missing playlist id or name, or a missing track name, fails the whole call; missing
// artist lists become empty slices.
//
// Only the first page of each listing is read.
package services
