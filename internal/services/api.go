// Raw authenticated GETs against a provider API, for inspecting responses the normalizers consume
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/muswitch/internal/shared"
)

// APIService issues bearer-authenticated GETs and returns the undecoded response.
//
// Unlike the provider clients it does not map status codes onto errors, except that a
// 401 or 403 still hands the bearer back to the token source.
type APIService struct {
	baseURL    string
	apiKey     string
	tokens     TokenSource
	httpClient *http.Client
}

// NewAPIService creates a raw client for the provider kind. opts.BaseURL overrides the public endpoint.
func NewAPIService(kind string, opts Options) (*APIService, error) {
	if opts.Tokens == nil {
		return nil, fmt.Errorf("%w: raw client requires a token source", shared.ErrInvalidConfig)
	}

	baseURL := opts.BaseURL
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindSpotify:
		if baseURL == "" {
			baseURL = spotifyBaseURL
		}
		opts.APIKey = ""
	case KindYouTube, "yt":
		if baseURL == "" {
			baseURL = youtubeBaseURL
		}
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", shared.ErrInvalidArgument, kind)
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     opts.APIKey,
		tokens:     opts.Tokens,
		httpClient: client,
	}, nil
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to path (relative to the API root) and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	if err := requireArg("path", path); err != nil {
		return nil, err
	}

	bearer, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	fullURL := a.baseURL + "/" + strings.TrimLeft(path, "/")
	if a.apiKey != "" {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL += sep + "key=" + url.QueryEscape(a.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrInvalidInput, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		a.tokens.Invalidate(bearer)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrNetwork, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
