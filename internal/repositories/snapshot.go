package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/muswitch/internal/models"
	"github.com/desertthunder/muswitch/internal/shared"
)

// SnapshotRepository stores collected playlists with their tracks.
//
// A snapshot is written once and read back whole; there is no update.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a snapshot with all its playlists and tracks in one transaction.
//
// An empty ID is replaced with a generated one and a zero CreatedAt with the current time.
func (r *SnapshotRepository) Create(snapshot *models.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if snapshot.ID == "" {
		snapshot.ID = shared.GenerateID()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO snapshots (id, provider, owner_id, created_at) VALUES (?, ?, ?, ?)`,
		snapshot.ID, snapshot.Provider, snapshot.OwnerID, snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for p, pl := range snapshot.Playlists {
		_, err := tx.Exec(
			`INSERT INTO snapshot_playlists (snapshot_id, position, playlist_id, name) VALUES (?, ?, ?, ?)`,
			snapshot.ID, p, pl.Playlist.ID, pl.Playlist.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert playlist %s: %w", pl.Playlist.ID, err)
		}

		for i, track := range pl.Tracks {
			artists, err := encodeArtists(track.Artists)
			if err != nil {
				return err
			}

			_, err = tx.Exec(
				`INSERT INTO snapshot_tracks (snapshot_id, playlist_position, position, name, artists) VALUES (?, ?, ?, ?, ?)`,
				snapshot.ID, p, i, track.Name, artists,
			)
			if err != nil {
				return fmt.Errorf("failed to insert track %d of playlist %s: %w", i, pl.Playlist.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by ID with playlists and tracks in their stored order
func (r *SnapshotRepository) Get(id string) (*models.Snapshot, error) {
	row := r.db.QueryRow(`SELECT id, provider, owner_id, created_at FROM snapshots WHERE id = ?`, id)

	var snapshot models.Snapshot
	if err := row.Scan(&snapshot.ID, &snapshot.Provider, &snapshot.OwnerID, &snapshot.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	if err := r.loadPlaylists(&snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// List retrieves snapshots newest first, optionally filtered by "provider" and "owner_id" criteria
func (r *SnapshotRepository) List(criteria map[string]any) ([]*models.Snapshot, error) {
	query := `SELECT id FROM snapshots WHERE 1 = 1`
	args := []any{}

	if provider, ok := criteria["provider"].(string); ok && provider != "" {
		query += " AND provider = ?"
		args = append(args, provider)
	}
	if ownerID, ok := criteria["owner_id"].(string); ok && ownerID != "" {
		query += " AND owner_id = ?"
		args = append(args, ownerID)
	}

	query += " ORDER BY created_at DESC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	snapshots := make([]*models.Snapshot, 0, len(ids))
	for _, id := range ids {
		snapshot, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// Delete removes a snapshot; its playlists and tracks go with it
func (r *SnapshotRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}
	return nil
}

func (r *SnapshotRepository) loadPlaylists(snapshot *models.Snapshot) error {
	rows, err := r.db.Query(
		`SELECT playlist_id, name FROM snapshot_playlists WHERE snapshot_id = ? ORDER BY position ASC`,
		snapshot.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query snapshot playlists: %w", err)
	}

	playlists := []models.PlaylistTracks{}
	for rows.Next() {
		var pl models.PlaylistTracks
		if err := rows.Scan(&pl.Playlist.ID, &pl.Playlist.Name); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan snapshot playlist: %w", err)
		}
		pl.Tracks = []models.Track{}
		playlists = append(playlists, pl)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	rows, err = r.db.Query(
		`SELECT playlist_position, name, artists FROM snapshot_tracks WHERE snapshot_id = ? ORDER BY playlist_position ASC, position ASC`,
		snapshot.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query snapshot tracks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			position int
			track    models.Track
			artists  string
		)
		if err := rows.Scan(&position, &track.Name, &artists); err != nil {
			return fmt.Errorf("failed to scan snapshot track: %w", err)
		}
		if position < 0 || position >= len(playlists) {
			return fmt.Errorf("snapshot %s: track refers to missing playlist %d", snapshot.ID, position)
		}
		if track.Artists, err = decodeArtists(artists); err != nil {
			return err
		}
		playlists[position].Tracks = append(playlists[position].Tracks, track)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	snapshot.Playlists = playlists
	return nil
}

// encodeArtists stores artist order as a JSON array.
func encodeArtists(artists []string) (string, error) {
	if artists == nil {
		artists = []string{}
	}
	data, err := shared.MarshalJSON(artists, false)
	if err != nil {
		return "", fmt.Errorf("failed to encode artists: %w", err)
	}
	return string(data), nil
}

func decodeArtists(data string) ([]string, error) {
	artists := []string{}
	if err := json.Unmarshal([]byte(data), &artists); err != nil {
		return nil, fmt.Errorf("failed to decode artists: %w", err)
	}
	return artists, nil
}
