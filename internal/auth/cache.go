package auth

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/muswitch/internal/shared"
)

// CacheOpts configures a [Cache]. Zero values select defaults.
type CacheOpts struct {
	Clock   func() time.Time // defaults to time.Now
	Logger  *log.Logger      // defaults to a discarded logger
	Metrics *Metrics         // nil records nothing
}

// Cache holds at most one live [Token] per provider key.
//
// Safe for concurrent use. A Cache is shared by reference between all clients of a provider.
type Cache struct {
	acquirer Acquirer
	now      func() time.Time
	logger   *log.Logger
	metrics  *Metrics

	mu      sync.Mutex
	entries map[string]*entry
}

// entry is one provider's slot. Holding sem owns the slot; current is only stored while holding it.
type entry struct {
	sem     chan struct{}
	current atomic.Pointer[Token]
}

// NewCache creates an empty cache that refreshes tokens through acquirer.
func NewCache(acquirer Acquirer, opts CacheOpts) *Cache {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Cache{
		acquirer: acquirer,
		now:      opts.Clock,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		entries:  make(map[string]*entry),
	}
}

func (c *Cache) entry(key string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		c.entries[key] = e
	}
	return e
}

// Token returns a live bearer value for key, exchanging cred at tokenURL when the cached one has expired.
//
// The exchange runs while the entry is locked, so at most one exchange per key is in flight.
// Waiting for the lock is abandoned when ctx is done.
func (c *Cache) Token(ctx context.Context, key, tokenURL string, cred Credential) (string, error) {
	if err := cred.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}

	e := c.entry(key)
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-e.sem }()

	if tok := e.current.Load(); tok != nil && tok.ValidAt(c.now()) {
		c.metrics.hit(key)
		return tok.Value, nil
	}

	c.logger.Debug("acquiring token", "provider", key)

	grant, err := c.acquirer.Acquire(ctx, tokenURL, cred)
	if err != nil {
		c.metrics.failed(key)
		c.logger.Warn("token acquisition failed", "provider", key, "err", err)
		return "", fmt.Errorf("%w: %s: %w", shared.ErrAuthFetchFailed, key, err)
	}
	if grant.AccessToken == "" {
		c.metrics.failed(key)
		return "", fmt.Errorf("%w: %s: empty access token", shared.ErrAuthFetchFailed, key)
	}

	tok := &Token{Value: grant.AccessToken, IssuedAt: c.now(), Lifetime: grant.Lifetime}
	e.current.Store(tok)
	c.metrics.acquired(key)

	c.logger.Debug("token installed", "provider", key, "expires_at", tok.ExpiresAt())
	return tok.Value, nil
}

// Invalidate drops key's token if it is still bearer, forcing the next [Cache.Token] to refresh.
//
// A token installed after bearer was handed out is kept. Reports whether a token was dropped.
func (c *Cache) Invalidate(key, bearer string) bool {
	e := c.entry(key)
	e.sem <- struct{}{}
	defer func() { <-e.sem }()

	tok := e.current.Load()
	if tok == nil || tok.Value != bearer {
		return false
	}

	e.current.Store(nil)
	c.metrics.invalidated(key)
	c.logger.Debug("token invalidated", "provider", key)
	return true
}

// Peek returns a copy of key's current token without refreshing it.
func (c *Cache) Peek(key string) (Token, bool) {
	tok := c.entry(key).current.Load()
	if tok == nil {
		return Token{}, false
	}
	return *tok, true
}

// Source binds the cache to one provider's token endpoint and credential.
func (c *Cache) Source(key, tokenURL string, cred Credential) *Source {
	return &Source{cache: c, key: key, tokenURL: tokenURL, cred: cred}
}

// Source is a provider's view of a shared [Cache].
type Source struct {
	cache    *Cache
	key      string
	tokenURL string
	cred     Credential
}

// Token returns a live bearer value for the bound provider.
func (s *Source) Token(ctx context.Context) (string, error) {
	return s.cache.Token(ctx, s.key, s.tokenURL, s.cred)
}

// Invalidate drops bearer if it is still the provider's cached token.
func (s *Source) Invalidate(bearer string) {
	s.cache.Invalidate(s.key, bearer)
}

// Provider returns the cache key the source is bound to.
func (s *Source) Provider() string {
	return s.key
}
