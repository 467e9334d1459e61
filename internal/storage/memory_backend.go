package storage

import (
	"bytes"
	"context"
	"fmt"
	"statcache/internal/models"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

const MemoryBackendName = "fallback"

// MemoryBackend is the in-process fallback store, one map per kind. It lives
// as long as the process and is never reconciled with the persistent store.
// Upserts run inside the map's per-key Compute section, so concurrent merges
// of the same key are serialized and visit counters stay exact.
type MemoryBackend struct {
	data map[models.Kind]*xsync.MapOf[string, []byte]
}

func (m *MemoryBackend) Name() string {
	return MemoryBackendName
}

func (m *MemoryBackend) bucket(kind models.Kind) (*xsync.MapOf[string, []byte], error) {
	b, ok := m.data[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	return b, nil
}

func (m *MemoryBackend) Find(_ context.Context, kind models.Kind, key string) ([]byte, error) {
	b, err := m.bucket(kind)
	if err != nil {
		return nil, err
	}
	doc, ok := b.Load(key)
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(doc), nil
}

// Upsert ignores ttl: fallback records do not expire.
func (m *MemoryBackend) Upsert(_ context.Context, kind models.Kind, key string, _ time.Duration, merge MergeFunc) ([]byte, error) {
	b, err := m.bucket(kind)
	if err != nil {
		return nil, err
	}

	var next []byte
	var mergeErr error
	b.Compute(key, func(current []byte, loaded bool) ([]byte, bool) {
		next, mergeErr = merge(current, loaded)
		if mergeErr != nil {
			// keep the old document, and never insert on a failed first write
			return current, !loaded
		}
		return next, false
	})
	if mergeErr != nil {
		return nil, mergeErr
	}
	return bytes.Clone(next), nil
}

// Len returns the number of records of kind held in memory.
func (m *MemoryBackend) Len(kind models.Kind) int {
	b, err := m.bucket(kind)
	if err != nil {
		return 0
	}
	return b.Size()
}

func NewMemoryBackend() *MemoryBackend {
	m := &MemoryBackend{data: make(map[models.Kind]*xsync.MapOf[string, []byte], len(models.Kinds))}
	for _, kind := range models.Kinds {
		m.data[kind] = xsync.NewMapOf[string, []byte]()
	}
	return m
}
