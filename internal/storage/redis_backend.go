package storage

import (
	"context"
	"errors"
	"fmt"
	"statcache/internal/models"
	"statcache/internal/structures"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
)

const (
	RedisBackendName = "store"

	// a lost WATCH race is not a failure, the merge is rerun after a short
	// jittered pause until ctx ends or maxTxWait has passed
	txInitialBackoff = time.Millisecond
	txMaxBackoff     = 50 * time.Millisecond
	maxTxWait        = 5 * time.Second
)

// RedisBackend keeps one encoded document per (kind, key) under
// <prefix>:<kind>:<key>. Upserts are optimistic WATCH/MULTI transactions so
// the merge always sees the document it replaces.
type RedisBackend struct {
	conn       ConnectorInterface
	compressor CompressorInterface
	prefix     string
}

func (r *RedisBackend) Name() string {
	return RedisBackendName
}

func (r *RedisBackend) key(kind models.Kind, key string) string {
	return r.prefix + ":" + string(kind) + ":" + key
}

func (r *RedisBackend) client() (*redis.Client, error) {
	client := r.conn.Client()
	if client == nil {
		return nil, fmt.Errorf("%w: no client", ErrConnection)
	}
	return client, nil
}

func (r *RedisBackend) Find(ctx context.Context, kind models.Kind, key string) ([]byte, error) {
	client, err := r.client()
	if err != nil {
		return nil, err
	}

	raw, err := client.Get(ctx, r.key(kind, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.conn.ReportFailure(err)
		return nil, err
	}
	return r.compressor.Decompress(raw)
}

// Upsert writes merge(current). A zero ttl stores the document without
// expiry, which also clears any expiry left by an earlier write.
func (r *RedisBackend) Upsert(ctx context.Context, kind models.Kind, key string, ttl time.Duration, merge MergeFunc) ([]byte, error) {
	client, err := r.client()
	if err != nil {
		return nil, err
	}

	k := r.key(kind, key)
	var next []byte
	txf := func(tx *redis.Tx) error {
		current, found, err := r.load(ctx, tx, k)
		if err != nil {
			return err
		}
		next, err = merge(current, found)
		if err != nil {
			return err
		}
		encoded, err := r.compressor.Compress(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, encoded, ttl)
			return nil
		})
		return err
	}

	attempts := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := client.Watch(ctx, txf, k)
		if err == nil || errors.Is(err, redis.TxFailedErr) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(newTxBackOff()), backoff.WithMaxElapsedTime(maxTxWait))
	if err == nil {
		return next, nil
	}
	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("upsert %s: optimistic lock lost %d times: %w", k, attempts, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return nil, err
	}
	r.conn.ReportFailure(err)
	return nil, err
}

func newTxBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = txInitialBackoff
	b.MaxInterval = txMaxBackoff
	return b
}

func (r *RedisBackend) load(ctx context.Context, tx *redis.Tx, k string) ([]byte, bool, error) {
	raw, err := tx.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	doc, err := r.compressor.Decompress(raw)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func NewRedisBackend(conf *structures.Config, conn ConnectorInterface, compressor CompressorInterface) *RedisBackend {
	prefix := conf.Store.KeyPrefix
	if prefix == "" {
		prefix = "statcache"
	}
	return &RedisBackend{
		conn:       conn,
		compressor: compressor,
		prefix:     prefix,
	}
}
