// Spotify Web API implementation of [Service]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
// Only the fields the canonical models need are decoded; pointers mark fields whose absence matters.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/desertthunder/muswitch/internal/models"
)

const (
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	spotifyPlaylistLimit = 50
	spotifyTrackLimit    = 100
)

type spotifyArtist struct {
	Name *string `json:"name"`
}

type spotifyTrack struct {
	Name    *string         `json:"name"`
	Artists []spotifyArtist `json:"artists"`
}

type spotifyPlaylistItem struct {
	Track *spotifyTrack `json:"track"`
}

type spotifyPlaylistTracksPage struct {
	Items *[]spotifyPlaylistItem `json:"items"`
}

type spotifySimplePlaylist struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

type spotifyPlaylistsPage struct {
	Items *[]spotifySimplePlaylist `json:"items"`
}

type spotifySearchResponse struct {
	Tracks *struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyService implements the Service interface for the Spotify Web API.
type SpotifyService struct {
	rest *restClient
}

// NewSpotifyService creates a Spotify client authenticating through opts.Tokens.
func NewSpotifyService(opts Options) (*SpotifyService, error) {
	rest, err := newRESTClient(KindSpotify, spotifyBaseURL, opts)
	if err != nil {
		return nil, err
	}
	return &SpotifyService{rest: rest}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetPlaylists retrieves the public playlists of a Spotify user.
//
// Calls GET /users/{owner}/playlists.
func (s *SpotifyService) GetPlaylists(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	if err := requireArg("owner ID", ownerID); err != nil {
		return nil, err
	}

	var page spotifyPlaylistsPage
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(ownerID))
	query := url.Values{"limit": {strconv.Itoa(spotifyPlaylistLimit)}}
	if err := s.rest.getJSON(ctx, endpoint, query, &page); err != nil {
		return nil, err
	}

	return s.normalizePlaylists(page)
}

// GetPlaylistTracks retrieves the tracks of a playlist.
//
// Calls GET /playlists/{id}/tracks.
func (s *SpotifyService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if err := requireArg("playlist ID", playlistID); err != nil {
		return nil, err
	}

	var page spotifyPlaylistTracksPage
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	query := url.Values{"limit": {strconv.Itoa(spotifyTrackLimit)}}
	if err := s.rest.getJSON(ctx, endpoint, query, &page); err != nil {
		return nil, err
	}

	return s.normalizeTracks(page)
}

// FindTrack reports whether a track search for title and artists returns any result.
//
// Calls GET /search?q={title artists}&type=track.
func (s *SpotifyService) FindTrack(ctx context.Context, title string, artists []string) (bool, error) {
	if err := requireArg("title", title); err != nil {
		return false, err
	}

	query := url.Values{
		"q":     {searchQuery(title, artists)},
		"type":  {"track"},
		"limit": {"1"},
	}

	var resp spotifySearchResponse
	if err := s.rest.getJSON(ctx, "/search", query, &resp); err != nil {
		return false, err
	}
	if resp.Tracks == nil {
		return false, s.rest.malformed("search response has no tracks object")
	}

	return len(resp.Tracks.Items) > 0, nil
}

func (s *SpotifyService) normalizePlaylists(page spotifyPlaylistsPage) ([]models.Playlist, error) {
	if page.Items == nil {
		return nil, s.rest.malformed("playlists response has no items")
	}

	playlists := make([]models.Playlist, 0, len(*page.Items))
	for i, sp := range *page.Items {
		if sp.ID == nil || sp.Name == nil {
			return nil, s.rest.malformed("playlist %d is missing id or name", i)
		}
		playlists = append(playlists, models.Playlist{ID: *sp.ID, Name: *sp.Name})
	}
	return playlists, nil
}

// normalizeTracks fails the whole page when any item lacks a track name.
// Artists without a name are skipped.
func (s *SpotifyService) normalizeTracks(page spotifyPlaylistTracksPage) ([]models.Track, error) {
	if page.Items == nil {
		return nil, s.rest.malformed("playlist tracks response has no items")
	}

	tracks := make([]models.Track, 0, len(*page.Items))
	for i, item := range *page.Items {
		if item.Track == nil || item.Track.Name == nil {
			return nil, s.rest.malformed("playlist item %d has no track name", i)
		}

		artists := make([]string, 0, len(item.Track.Artists))
		for _, a := range item.Track.Artists {
			if a.Name != nil {
				artists = append(artists, *a.Name)
			}
		}

		tracks = append(tracks, models.Track{Name: *item.Track.Name, Artists: artists})
	}
	return tracks, nil
}
