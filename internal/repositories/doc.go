// Package repositories implements SQLite persistence for collected playlist snapshots.
//
// A snapshot records what one collect run returned: the provider, the owner, and every playlist with its
// tracks in provider order. Snapshots are written after a collection finishes and are only read back by
// the snapshots commands; provider clients never consult them.
//
// Key Implementations:
//   - [SnapshotRepository] : snapshot CRUD over the snapshots, snapshot_playlists and snapshot_tracks tables
//   - [Open] : database setup with pool settings and embedded migrations
//
// Artist lists are stored as JSON arrays so their order survives a round trip.
package repositories
