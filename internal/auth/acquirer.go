package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Acquirer performs a provider's token exchange.
type Acquirer interface {
	Acquire(ctx context.Context, tokenURL string, cred Credential) (Grant, error)
}

// ClientCredentialsAcquirer exchanges a [Credential] for a bearer token with the OAuth2 client-credentials grant.
type ClientCredentialsAcquirer struct {
	httpClient *http.Client
}

// NewClientCredentialsAcquirer creates an acquirer using client for the exchange, or [http.DefaultClient] when nil.
func NewClientCredentialsAcquirer(client *http.Client) *ClientCredentialsAcquirer {
	return &ClientCredentialsAcquirer{httpClient: client}
}

// Acquire posts the credential to tokenURL and returns the token with its provider-supplied lifetime.
func (a *ClientCredentialsAcquirer) Acquire(ctx context.Context, tokenURL string, cred Credential) (Grant, error) {
	config := &clientcredentials.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}

	requested := time.Now()
	token, err := config.Token(ctx)
	if err != nil {
		return Grant{}, fmt.Errorf("client credentials exchange: %w", err)
	}

	return Grant{
		AccessToken: token.AccessToken,
		Lifetime:    lifetime(token, requested),
	}, nil
}

// lifetime reads expires_in from the raw response, falling back to the parsed expiry.
//
// A response without a usable expiry yields zero, which the cache treats as expired.
func lifetime(token *oauth2.Token, requested time.Time) time.Duration {
	switch v := token.Extra("expires_in").(type) {
	case float64:
		return time.Duration(v * float64(time.Second))
	case int64:
		return time.Duration(v) * time.Second
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return time.Duration(n) * time.Second
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(n) * time.Second
		}
	}

	if token.Expiry.IsZero() {
		return 0
	}
	return token.Expiry.Sub(requested)
}
