package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/muswitch/internal/shared"
)

// Playlist represents a music playlist from any service
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track represents a music track from any service.
//
// Artists is never nil once normalized; a track without credited artists has an empty slice.
type Track struct {
	Name    string   `json:"name"`
	Artists []string `json:"artists"`
}

// ArtistLine joins the artist names for display.
func (t Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// PlaylistTracks is a playlist with all tracks of its first page of results.
type PlaylistTracks struct {
	Playlist Playlist `json:"playlist"`
	Tracks   []Track  `json:"tracks"`
}

// Snapshot is a stored collection of an owner's playlists from one provider.
type Snapshot struct {
	ID        string           `json:"id"`
	Provider  string           `json:"provider"`
	OwnerID   string           `json:"owner_id"`
	CreatedAt time.Time        `json:"created_at"`
	Playlists []PlaylistTracks `json:"playlists"`
}

// TrackCount sums tracks across every playlist in the snapshot.
func (s Snapshot) TrackCount() int {
	n := 0
	for _, p := range s.Playlists {
		n += len(p.Tracks)
	}
	return n
}

// Validate checks the fields a stored snapshot cannot do without.
func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.Provider) == "" {
		return fmt.Errorf("%w: snapshot provider is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(s.OwnerID) == "" {
		return fmt.Errorf("%w: snapshot owner is required", shared.ErrInvalidInput)
	}
	for i, p := range s.Playlists {
		if p.Playlist.ID == "" {
			return fmt.Errorf("%w: playlist %d has no ID", shared.ErrInvalidInput, i)
		}
	}
	return nil
}
