package storage

import (
	"context"
	"statcache/internal/models"
	"time"
)

// MergeFunc computes the next encoded document from the current one.
// found is false when no document exists for the key yet.
type MergeFunc func(current []byte, found bool) ([]byte, error)

// Backend is a key indexed document store with one document per
// (kind, key). Both the persistent store and the in-memory fallback
// implement it.
type Backend interface {
	Name() string
	// Find returns the encoded document or ErrNotFound.
	Find(ctx context.Context, kind models.Kind, key string) ([]byte, error)
	// Upsert atomically replaces the document with merge(current) and returns
	// the new document. A positive ttl sets store-side expiry where supported.
	Upsert(ctx context.Context, kind models.Kind, key string, ttl time.Duration, merge MergeFunc) ([]byte, error)
}
