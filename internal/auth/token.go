package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/muswitch/internal/shared"
)

// Credential is a provider's client-credentials pair.
type Credential struct {
	ClientID     string
	ClientSecret string
}

// Validate reports [shared.ErrMissingCredentials] when either half is blank.
func (c Credential) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "client_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Token is an installed bearer token. Tokens are replaced, never mutated.
type Token struct {
	Value    string
	IssuedAt time.Time
	Lifetime time.Duration
}

// ExpiresAt is IssuedAt + Lifetime.
func (t Token) ExpiresAt() time.Time {
	return t.IssuedAt.Add(t.Lifetime)
}

// ValidAt reports whether the token may still be used at now.
func (t Token) ValidAt(now time.Time) bool {
	return t.Value != "" && t.Lifetime > 0 && now.Before(t.ExpiresAt())
}

// Grant is the result of one token exchange.
type Grant struct {
	AccessToken string
	Lifetime    time.Duration
}
