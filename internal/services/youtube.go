// YouTube Data API v3 implementation of [Service]
//
// Playlist items carry no artist list; the uploading channel (videoOwnerChannelTitle) stands in as the
// single artist, with the " - Topic" suffix of auto-generated music channels removed.
package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/muswitch/internal/models"
)

const (
	YouTubeTokenURL = "https://oauth2.googleapis.com/token"
	youtubeBaseURL  = "https://www.googleapis.com/youtube/v3"

	youtubeMaxResults = 50
	topicSuffix       = " - Topic"
)

type youtubePlaylistSnippet struct {
	Title *string `json:"title"`
}

type youtubePlaylist struct {
	ID      *string                 `json:"id"`
	Snippet *youtubePlaylistSnippet `json:"snippet"`
}

type youtubePlaylistListResponse struct {
	Items *[]youtubePlaylist `json:"items"`
}

type youtubeItemSnippet struct {
	Title                  *string `json:"title"`
	VideoOwnerChannelTitle *string `json:"videoOwnerChannelTitle"`
}

type youtubePlaylistItem struct {
	Snippet *youtubeItemSnippet `json:"snippet"`
}

type youtubePlaylistItemListResponse struct {
	Items *[]youtubePlaylistItem `json:"items"`
}

type youtubeSearchResponse struct {
	Items *[]json.RawMessage `json:"items"`
}

// YouTubeService implements the Service interface for the YouTube Data API.
type YouTubeService struct {
	rest   *restClient
	apiKey string
}

// NewYouTubeService creates a YouTube client authenticating through opts.Tokens.
func NewYouTubeService(opts Options) (*YouTubeService, error) {
	rest, err := newRESTClient(KindYouTube, youtubeBaseURL, opts)
	if err != nil {
		return nil, err
	}
	return &YouTubeService{rest: rest, apiKey: opts.APIKey}, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) query(kv ...string) url.Values {
	q := url.Values{"part": {"snippet"}, "maxResults": {strconv.Itoa(youtubeMaxResults)}}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	if y.apiKey != "" {
		q.Set("key", y.apiKey)
	}
	return q
}

// GetPlaylists retrieves the playlists of a channel.
//
// Calls GET /playlists?part=snippet&channelId={owner}.
func (y *YouTubeService) GetPlaylists(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	if err := requireArg("owner ID", ownerID); err != nil {
		return nil, err
	}

	var resp youtubePlaylistListResponse
	if err := y.rest.getJSON(ctx, "/playlists", y.query("channelId", ownerID), &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return nil, y.rest.malformed("playlists response has no items")
	}

	playlists := make([]models.Playlist, 0, len(*resp.Items))
	for i, p := range *resp.Items {
		if p.ID == nil || p.Snippet == nil || p.Snippet.Title == nil {
			return nil, y.rest.malformed("playlist %d is missing id or title", i)
		}
		playlists = append(playlists, models.Playlist{ID: *p.ID, Name: *p.Snippet.Title})
	}

	return playlists, nil
}

// GetPlaylistTracks retrieves the videos of a playlist as tracks.
//
// Calls GET /playlistItems?part=snippet&playlistId={id}.
func (y *YouTubeService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if err := requireArg("playlist ID", playlistID); err != nil {
		return nil, err
	}

	var resp youtubePlaylistItemListResponse
	if err := y.rest.getJSON(ctx, "/playlistItems", y.query("playlistId", playlistID), &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return nil, y.rest.malformed("playlist items response has no items")
	}

	tracks := make([]models.Track, 0, len(*resp.Items))
	for i, item := range *resp.Items {
		if item.Snippet == nil || item.Snippet.Title == nil {
			return nil, y.rest.malformed("playlist item %d has no title", i)
		}

		artists := []string{}
		if owner := channelArtist(item.Snippet.VideoOwnerChannelTitle); owner != "" {
			artists = append(artists, owner)
		}

		tracks = append(tracks, models.Track{Name: *item.Snippet.Title, Artists: artists})
	}

	return tracks, nil
}

// FindTrack reports whether a video search for title and artists returns any result.
//
// Calls GET /search?part=snippet&type=video&q={title artists}.
func (y *YouTubeService) FindTrack(ctx context.Context, title string, artists []string) (bool, error) {
	if err := requireArg("title", title); err != nil {
		return false, err
	}

	q := y.query("q", searchQuery(title, artists), "type", "video", "maxResults", "1")

	var resp youtubeSearchResponse
	if err := y.rest.getJSON(ctx, "/search", q, &resp); err != nil {
		return false, err
	}
	if resp.Items == nil {
		return false, y.rest.malformed("search response has no items")
	}

	return len(*resp.Items) > 0, nil
}

func channelArtist(title *string) string {
	if title == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(*title, topicSuffix))
}
