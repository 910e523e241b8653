// Package session persists listing pages between requests.
package session

import (
	"context"
	"errors"

	"aqarna-listings/internal/listings/page"
)

// ErrNotFound is returned by Load for an unknown or expired session.
var ErrNotFound = errors.New("session not found")

type Store interface {
	Load(ctx context.Context, id string) (page.Snapshot, error)
	Save(ctx context.Context, id string, snap page.Snapshot) error
	Delete(ctx context.Context, id string) error
}
