package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/muswitch/internal/models"
	"github.com/desertthunder/muswitch/internal/shared"
)

// Provider keys, also used as token cache keys.
const (
	KindSpotify = "spotify"
	KindYouTube = "youtube"
)

// Service defines the capability set shared by music service providers (Spotify, YouTube).
type Service interface {
	// Name returns the display name of the service (e.g., "Spotify", "YouTube")
	Name() string

	// GetPlaylists lists the playlists owned by ownerID (a Spotify user or YouTube channel), first page only.
	GetPlaylists(ctx context.Context, ownerID string) ([]models.Playlist, error)

	// GetPlaylistTracks lists a playlist's tracks in playlist order, first page only.
	// Artist order follows the provider, primary artist first.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// FindTrack searches for title and artists as free text and reports whether anything came back.
	// Results are not compared against the query.
	FindTrack(ctx context.Context, title string, artists []string) (bool, error)
}

// TokenSource supplies bearer tokens and accepts back the ones a provider rejected.
//
// Implemented by [auth.Source].
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate(bearer string)
}

// Options configures a provider client.
type Options struct {
	Tokens     TokenSource  // required
	BaseURL    string       // provider API root; defaults to the public endpoint
	APIKey     string       // YouTube only, sent as the key query parameter when set
	HTTPClient *http.Client // defaults to http.DefaultClient
	Logger     *log.Logger
	Metrics    *Metrics
}

// New constructs the client for kind.
func New(kind string, opts Options) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindSpotify:
		return NewSpotifyService(opts)
	case KindYouTube, "yt":
		return NewYouTubeService(opts)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q (want spotify or youtube)", shared.ErrInvalidArgument, kind)
	}
}

// Kinds lists the supported provider keys.
func Kinds() []string {
	return []string{KindSpotify, KindYouTube}
}

// searchQuery joins a title and its artists into one free-text query.
func searchQuery(title string, artists []string) string {
	parts := []string{strings.TrimSpace(title)}
	for _, a := range artists {
		if a = strings.TrimSpace(a); a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

func requireArg(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return nil
}
