// Package tokenstore provides durable storage for the client's bearer token.
//
// Every implementation holds a single slot under Key. Save and Clear are
// idempotent and last-write-wins.
package tokenstore

import "context"

// Key is the storage key holding the bearer token.
const Key = "authToken"

// Store persists the token across process restarts.
type Store interface {
	// Load returns the stored token, or "" when none is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
