package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/muswitch/internal/shared"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts provider REST calls by outcome.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics creates the request counter and registers it with reg when it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "muswitch",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Provider REST calls by outcome.",
		}, []string{"provider", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests)
	}
	return m
}

func (m *Metrics) observe(provider, outcome string) {
	if m != nil {
		m.requests.WithLabelValues(provider, outcome).Inc()
	}
}

// restClient performs bearer-authenticated GETs and maps failures onto the shared error kinds.
type restClient struct {
	provider   string
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *log.Logger
	metrics    *Metrics
}

func newRESTClient(provider, defaultBaseURL string, opts Options) (*restClient, error) {
	if opts.Tokens == nil {
		return nil, fmt.Errorf("%w: %s requires a token source", shared.ErrInvalidConfig, provider)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &restClient{
		provider:   provider,
		baseURL:    opts.BaseURL,
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		logger:     shared.WithLogger(opts.Logger, "provider", provider),
		metrics:    opts.Metrics,
	}, nil
}

// getJSON obtains a token, GETs baseURL+endpoint?query and decodes the body into result.
//
// 401 and 403 hand the bearer back to the token source so the next call refreshes.
func (c *restClient) getJSON(ctx context.Context, endpoint string, query url.Values, result any) error {
	bearer, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	apiURL := c.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: failed to create request: %v", shared.ErrInvalidInput, c.provider, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(c.provider, "network_error")
		return fmt.Errorf("%w: %s: %w", shared.ErrNetwork, c.provider, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "endpoint", endpoint, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.tokens.Invalidate(bearer)
		c.metrics.observe(c.provider, "unauthorized")
		return fmt.Errorf("%w: %s rejected the token (status %d)", shared.ErrUnauthorized, c.provider, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.observe(c.provider, "not_found")
		return fmt.Errorf("%w: %s %s", shared.ErrNotFound, c.provider, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.metrics.observe(c.provider, "status_"+strconv.Itoa(resp.StatusCode))
		return fmt.Errorf("%w: %s API error: status %d", shared.ErrAPIRequest, c.provider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		c.metrics.observe(c.provider, "malformed")
		return fmt.Errorf("%w: %s: failed to decode response: %v", shared.ErrMalformedResponse, c.provider, err)
	}

	c.metrics.observe(c.provider, "ok")
	return nil
}

// malformed reports a structurally required field missing from a decoded response.
func (c *restClient) malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", shared.ErrMalformedResponse, c.provider, fmt.Sprintf(format, args...))
}
