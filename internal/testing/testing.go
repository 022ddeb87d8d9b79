// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/desertthunder/muswitch/internal/models"
)

// MockService is a test double for [services.Service] serving canned data.
type MockService struct {
	ServiceName string
	Playlists   []models.Playlist
	Tracks      map[string][]models.Track
	Found       bool
	Err         error            // returned by every call when set
	TrackErrs   map[string]error // per-playlist GetPlaylistTracks failures
	FindFunc    func(title string, artists []string) (bool, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockService) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

// Calls returns how many times op was invoked.
func (m *MockService) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockService) Name() string {
	if m.ServiceName == "" {
		return "mock"
	}
	return m.ServiceName
}

func (m *MockService) GetPlaylists(ctx context.Context, ownerID string) ([]models.Playlist, error) {
	m.record("GetPlaylists")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Playlists, nil
}

func (m *MockService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	m.record("GetPlaylistTracks")
	if m.Err != nil {
		return nil, m.Err
	}
	if err, ok := m.TrackErrs[playlistID]; ok {
		return nil, err
	}
	return m.Tracks[playlistID], nil
}

func (m *MockService) FindTrack(ctx context.Context, title string, artists []string) (bool, error) {
	m.record("FindTrack")
	if m.Err != nil {
		return false, m.Err
	}
	if m.FindFunc != nil {
		return m.FindFunc(title, artists)
	}
	return m.Found, nil
}

// StaticTokens is a token source handing out a fixed bearer and recording invalidations.
type StaticTokens struct {
	Bearer string
	Err    error

	mu          sync.Mutex
	requests    int
	invalidated []string
}

func (s *StaticTokens) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	if s.Err != nil {
		return "", s.Err
	}
	return s.Bearer, nil
}

func (s *StaticTokens) Invalidate(bearer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, bearer)
}

// Requests returns how many tokens were requested.
func (s *StaticTokens) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Invalidated returns the bearers handed back so far.
func (s *StaticTokens) Invalidated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.invalidated...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
