package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/muswitch/internal/shared"
	tu "github.com/desertthunder/muswitch/internal/testing"
)

const spotifyPlaylistTracksJSON = `{
  "href": "https://api.spotify.com/v1/playlists/abc123/tracks?offset=0&limit=100",
  "limit": 100,
  "next": null,
  "offset": 0,
  "previous": null,
  "total": 3,
  "items": [
    {
      "added_at": "2023-06-01T10:00:00Z",
      "added_by": {"id": "road-tripper", "type": "user", "uri": "spotify:user:road-tripper"},
      "is_local": false,
      "track": {
        "id": "t1",
        "name": "Under Pressure",
        "explicit": false,
        "duration_ms": 248000,
        "album": {"id": "al1", "name": "Hot Space", "images": []},
        "artists": [
          {"id": "a1", "name": "Queen", "type": "artist"},
          {"id": "a2", "name": "David Bowie", "type": "artist"}
        ],
        "external_ids": {"isrc": "GBUM71029604"}
      }
    },
    {
      "added_at": "2023-06-01T10:01:00Z",
      "is_local": false,
      "track": {
        "id": "t2",
        "name": "Stay",
        "artists": [
          {"id": "a3", "name": "The Kid LAROI"},
          {"id": "a4", "name": "Justin Bieber"}
        ]
      }
    },
    {
      "added_at": "2023-06-01T10:02:00Z",
      "is_local": true,
      "track": {
        "id": null,
        "name": "Field Recording",
        "artists": []
      }
    }
  ]
}`

func newSpotifyTestService(t *testing.T, handler http.HandlerFunc) (*SpotifyService, *tu.StaticTokens) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := &tu.StaticTokens{Bearer: "test-bearer"}
	svc, err := NewSpotifyService(Options{Tokens: tokens, BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc, tokens
}

func jsonHandler(t *testing.T, wantPath string, status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			t.Errorf("expected path %s, got %s", wantPath, r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-bearer" {
			t.Errorf("expected bearer authorization, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestSpotifyService(t *testing.T) {
	ctx := context.Background()

	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("requires a token source", func(t *testing.T) {
			if _, err := NewSpotifyService(Options{}); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("defaults", func(t *testing.T) {
			svc, err := NewSpotifyService(Options{Tokens: &tu.StaticTokens{}})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.rest.baseURL != spotifyBaseURL {
				t.Errorf("expected default base URL, got %s", svc.rest.baseURL)
			}
			if svc.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", svc.Name())
			}
		})
	})

	t.Run("GetPlaylistTracks", func(t *testing.T) {
		t.Run("normalizes every item", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, jsonHandler(t, "/playlists/abc123/tracks", http.StatusOK, spotifyPlaylistTracksJSON))

			tracks, err := svc.GetPlaylistTracks(ctx, "abc123")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tracks) != 3 {
				t.Fatalf("expected 3 tracks, got %d", len(tracks))
			}

			if tracks[0].Name != "Under Pressure" {
				t.Errorf("unexpected first track %s", tracks[0].Name)
			}
			if len(tracks[0].Artists) != 2 || tracks[0].Artists[0] != "Queen" || tracks[0].Artists[1] != "David Bowie" {
				t.Errorf("artist order not preserved: %v", tracks[0].Artists)
			}
			if len(tracks[1].Artists) != 2 || tracks[1].Artists[0] != "The Kid LAROI" || tracks[1].Artists[1] != "Justin Bieber" {
				t.Errorf("artist order not preserved: %v", tracks[1].Artists)
			}

			if tracks[2].Name != "Field Recording" {
				t.Errorf("unexpected third track %s", tracks[2].Name)
			}
			if tracks[2].Artists == nil || len(tracks[2].Artists) != 0 {
				t.Errorf("expected empty artist list, got %#v", tracks[2].Artists)
			}
		})

		t.Run("missing artists field", func(t *testing.T) {
			body := `{"items":[{"track":{"name":"Solo"}}]}`
			svc, _ := newSpotifyTestService(t, jsonHandler(t, "/playlists/p1/tracks", http.StatusOK, body))

			tracks, err := svc.GetPlaylistTracks(ctx, "p1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tracks) != 1 || tracks[0].Artists == nil || len(tracks[0].Artists) != 0 {
				t.Errorf("expected one track with no artists, got %#v", tracks)
			}
		})

		t.Run("missing track name fails the whole call", func(t *testing.T) {
			body := `{"items":[
				{"track":{"name":"Fine","artists":[{"name":"A"}]}},
				{"track":{"artists":[{"name":"B"}]}},
				{"track":{"name":"Also Fine","artists":[]}}
			]}`
			svc, _ := newSpotifyTestService(t, jsonHandler(t, "/playlists/p1/tracks", http.StatusOK, body))

			tracks, err := svc.GetPlaylistTracks(ctx, "p1")
			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
			if tracks != nil {
				t.Errorf("expected no partial result, got %v", tracks)
			}
		})

		t.Run("null track is malformed", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, jsonHandler(t, "/playlists/p1/tracks", http.StatusOK, `{"items":[{"track":null}]}`))

			if _, err := svc.GetPlaylistTracks(ctx, "p1"); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("body without items is malformed", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, jsonHandler(t, "/playlists/p1/tracks", http.StatusOK, `{"total":0}`))

			if _, err := svc.GetPlaylistTracks(ctx, "p1"); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("invalid JSON is malformed", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, jsonHandler(t, "/playlists/p1/tracks", http.StatusOK, `{"items": [`))

			if _, err := svc.GetPlaylistTracks(ctx, "p1"); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("requires playlist ID", func(t *testing.T) {
			svc, tokens := newSpotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected")
			})

			if _, err := svc.GetPlaylistTracks(ctx, " "); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
			if tokens.Requests() != 0 {
				t.Error("no token should be requested for invalid input")
			}
		})
	})

	t.Run("GetPlaylists", func(t *testing.T) {
		t.Run("maps id and name", func(t *testing.T) {
			body := `{"href":"x","items":[
				{"id":"abc123","name":"Road Trip","public":true,"owner":{"id":"road-tripper"},"tracks":{"total":3}},
				{"id":"def456","name":"","description":"untitled"}
			],"limit":50,"next":null,"offset":0,"total":2}`

			var gotLimit string
			svc, _ := newSpotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
				gotLimit = r.URL.Query().Get("limit")
				jsonHandler(t, "/users/road-tripper/playlists", http.StatusOK, body)(w, r)
			})

			playlists, err := svc.GetPlaylists(ctx, "road-tripper")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(playlists) != 2 {
				t.Fatalf("expected 2 playlists, got %d", len(playlists))
			}
			if playlists[0].ID != "abc123" || playlists[0].Name != "Road Trip" {
				t.Errorf("unexpected playlist %+v", playlists[0])
			}
			if playlists[1].ID != "def456" || playlists[1].Name != "" {
				t.Errorf("unexpected playlist %+v", playlists[1])
			}
			if gotLimit != "50" {
				t.Errorf("expected limit=50, got %s", gotLimit)
			}
		})

		t.Run("escapes the owner", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.EscapedPath() != "/users/a%2Fb/playlists" {
					t.Errorf("expected escaped owner, got %s", r.URL.EscapedPath())
				}
				w.Write([]byte(`{"items":[]}`))
			})

			playlists, err := svc.GetPlaylists(ctx, "a/b")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(playlists) != 0 {
				t.Errorf("expected no playlists, got %v", playlists)
			}
		})

		t.Run("playlist without id is malformed", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, jsonHandler(t, "/users/u/playlists", http.StatusOK, `{"items":[{"name":"x"}]}`))

			if _, err := svc.GetPlaylists(ctx, "u"); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	})

	t.Run("error mapping", func(t *testing.T) {
		tc := []struct {
			name   string
			status int
			want   error
		}{
			{"401 is unauthorized", http.StatusUnauthorized, shared.ErrUnauthorized},
			{"403 is unauthorized", http.StatusForbidden, shared.ErrUnauthorized},
			{"404 is not found", http.StatusNotFound, shared.ErrNotFound},
			{"500 is an API error", http.StatusInternalServerError, shared.ErrAPIRequest},
			{"429 is an API error", http.StatusTooManyRequests, shared.ErrAPIRequest},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				svc, _ := newSpotifyTestService(t, jsonHandler(t, "/users/u/playlists", tt.status, `{"error":{"status":0,"message":"nope"}}`))

				if _, err := svc.GetPlaylists(ctx, "u"); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("unauthorized hands the bearer back", func(t *testing.T) {
		svc, tokens := newSpotifyTestService(t, jsonHandler(t, "/playlists/p1/tracks", http.StatusUnauthorized, `{}`))

		if _, err := svc.GetPlaylistTracks(ctx, "p1"); !errors.Is(err, shared.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if got := tokens.Invalidated(); len(got) != 1 || got[0] != "test-bearer" {
			t.Errorf("expected rejected bearer to be invalidated, got %v", got)
		}
	})

	t.Run("token errors propagate without a request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))
		defer server.Close()

		tokens := &tu.StaticTokens{Err: shared.ErrAuthFetchFailed}
		svc, _ := NewSpotifyService(Options{Tokens: tokens, BaseURL: server.URL})

		if _, err := svc.GetPlaylists(ctx, "u"); !errors.Is(err, shared.ErrAuthFetchFailed) {
			t.Errorf("expected ErrAuthFetchFailed, got %v", err)
		}
	})

	t.Run("transport failure is a network error", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		svc, _ := NewSpotifyService(Options{Tokens: &tu.StaticTokens{Bearer: "b"}, BaseURL: "http://spotify.invalid", HTTPClient: client})

		if _, err := svc.GetPlaylists(ctx, "u"); !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("FindTrack", func(t *testing.T) {
		t.Run("sends free-text track search", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("q") != "Ramaya Afric Simone" {
					t.Errorf("unexpected query %q", q.Get("q"))
				}
				if q.Get("type") != "track" {
					t.Errorf("expected type=track, got %q", q.Get("type"))
				}
				jsonHandler(t, "/search", http.StatusOK, `{"tracks":{"items":[{"name":"Hafanana","artists":[{"name":"Someone Else"}]}],"total":1}}`)(w, r)
			})

			found, err := svc.FindTrack(ctx, "Ramaya", []string{"Afric Simone"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !found {
				t.Error("any result counts as found")
			}
		})

		t.Run("no results", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, jsonHandler(t, "/search", http.StatusOK, `{"tracks":{"items":[],"total":0}}`))

			found, err := svc.FindTrack(ctx, "Nothing", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if found {
				t.Error("expected not found")
			}
		})

		t.Run("missing tracks object is malformed", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, jsonHandler(t, "/search", http.StatusOK, `{"albums":{}}`))

			if _, err := svc.FindTrack(ctx, "x", nil); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("requires a title", func(t *testing.T) {
			svc, _ := newSpotifyTestService(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected")
			})

			if _, err := svc.FindTrack(ctx, "", []string{"Queen"}); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})
}
