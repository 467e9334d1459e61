package services

import (
	"context"
	"errors"
	"fmt"
	"statcache/internal/models"
	"statcache/internal/providers"
	"statcache/internal/storage"
	"time"

	json "github.com/goccy/go-json"
)

// ReadResult is what every accessor read returns. On failure Record is nil,
// NeedsFetch is true and Err says why: callers fetch fresh data instead of
// serving something stale or wrong.
type ReadResult[T any] struct {
	Record     *T
	NeedsFetch bool
	Err        error
}

type document[T any] interface {
	*T
	Updated() time.Time
}

// accessor holds the read and write paths shared by the three record kinds.
// The kind specific part is the merge passed to write.
type accessor[T any, PT document[T]] struct {
	kind    models.Kind
	router  *storage.Router
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	now     func() time.Time
}

func newAccessor[T any, PT document[T]](kind models.Kind, router *storage.Router, logger providers.Logger, metrics providers.MetricsProviderInterface) accessor[T, PT] {
	return accessor[T, PT]{
		kind:    kind,
		router:  router,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

func (a *accessor[T, PT]) read(ctx context.Context, key string, ttlSeconds int) (res ReadResult[T]) {
	backend := a.router.Fallback
	defer func() {
		if r := recover(); r != nil {
			res = a.failRead(backend, key, fmt.Errorf("panic: %v", r))
		}
	}()

	if key == "" {
		return a.failRead(backend, key, storage.ErrEmptyKey)
	}

	backend = a.router.ForRead(ctx)
	start := time.Now()
	raw, err := backend.Find(ctx, a.kind, key)
	a.metrics.ObserveStoreDuration(backend.Name(), "read", time.Since(start))
	if errors.Is(err, storage.ErrNotFound) {
		a.metrics.IncStoreOps(a.kind.String(), backend.Name(), "read", "miss")
		return ReadResult[T]{NeedsFetch: true}
	}
	if err != nil {
		return a.failRead(backend, key, err)
	}

	rec := PT(new(T))
	if err := json.Unmarshal(raw, rec); err != nil {
		return a.failRead(backend, key, fmt.Errorf("decode: %w", err))
	}

	fresh := storage.IsFresh(rec.Updated(), storage.TTLFromSeconds(ttlSeconds), a.now())
	outcome := "stale"
	if fresh {
		outcome = "hit"
	}
	a.metrics.IncStoreOps(a.kind.String(), backend.Name(), "read", outcome)
	return ReadResult[T]{Record: (*T)(rec), NeedsFetch: !fresh}
}

func (a *accessor[T, PT]) failRead(backend storage.Backend, key string, err error) ReadResult[T] {
	opErr := storage.NewOpError("read", a.kind, key, storage.Classify(err, storage.ErrQuery), err)
	a.logger.Errorf(providers.TypeStore, "%s", opErr)
	a.metrics.IncStoreOps(a.kind.String(), backend.Name(), "read", "error")
	return ReadResult[T]{NeedsFetch: true, Err: opErr}
}

// write upserts key with merge. current is nil when the key does not exist
// in the selected backend yet.
func (a *accessor[T, PT]) write(ctx context.Context, key string, ttl time.Duration, merge func(current PT, now time.Time) (PT, error)) (ok bool) {
	backend := a.router.Fallback
	defer func() {
		if r := recover(); r != nil {
			ok = a.failWrite(backend, key, fmt.Errorf("panic: %v", r))
		}
	}()

	if key == "" {
		return a.failWrite(backend, key, storage.ErrEmptyKey)
	}

	backend = a.router.ForWrite()
	now := a.now()
	start := time.Now()
	_, err := backend.Upsert(ctx, a.kind, key, ttl, func(raw []byte, found bool) ([]byte, error) {
		var current PT
		if found {
			current = PT(new(T))
			if err := json.Unmarshal(raw, current); err != nil {
				return nil, fmt.Errorf("decode: %w", err)
			}
		}
		next, err := merge(current, now)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
	a.metrics.ObserveStoreDuration(backend.Name(), "write", time.Since(start))
	if err != nil {
		return a.failWrite(backend, key, err)
	}

	a.metrics.IncStoreOps(a.kind.String(), backend.Name(), "write", "ok")
	a.logger.Debugf(providers.TypeStore, "write %s/%s via %s", a.kind, key, backend.Name())
	return true
}

func (a *accessor[T, PT]) failWrite(backend storage.Backend, key string, err error) bool {
	opErr := storage.NewOpError("write", a.kind, key, storage.Classify(err, storage.ErrWrite), err)
	a.logger.Errorf(providers.TypeStore, "%s", opErr)
	a.metrics.IncStoreOps(a.kind.String(), backend.Name(), "write", "error")
	return false
}
