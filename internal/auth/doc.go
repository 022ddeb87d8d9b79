// Package auth acquires and caches OAuth2 client-credentials bearer tokens for music providers.
//
// # Token Cache
//
// [Cache] owns one entry per provider key. [Cache.Token] takes the entry's lock, returns the cached
// bearer value when it has not expired, and otherwise performs the token exchange while still holding
// the lock. Concurrent callers for the same provider therefore wait for the one in-flight exchange and
// then observe its result instead of issuing their own.
//
// Expiry is an absolute instant ([Token.ExpiresAt]) captured when the token is installed. A lifetime of
// zero or less is already expired.
//
// # Acquisition
//
// [ClientCredentialsAcquirer] posts grant_type=client_credentials with client_id and client_secret in the
// form body and reads access_token and expires_in from the JSON response, using [clientcredentials.Config].
//
// # Errors
//
//   - [shared.ErrMissingCredentials] : credential incomplete, no network call is made
//   - [shared.ErrAuthFetchFailed] : exchange failed or its response could not be parsed; the cause is wrapped
//
// A failed exchange never replaces the entry's previous token.
package auth
