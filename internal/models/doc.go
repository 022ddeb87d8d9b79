// Package models defines the canonical, provider-independent values returned by every music service.
//
//   - [Playlist] : id and display name of a playlist
//   - [Track] : track name and ordered artist names, primary artist first
//   - [PlaylistTracks] : a playlist together with its tracks, produced by collection runs
//   - [Snapshot] : a persisted collection run
//
// Values are created per response and owned by the caller; nothing here is cached by the services.
package models
