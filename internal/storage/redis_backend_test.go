package storage

import (
	"context"
	"statcache/internal/models"
	"statcache/internal/structures"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConn is a ConnectorInterface with a fixed state and optional client.
type stubConn struct {
	connected bool
	connects  int
	client    *redis.Client
	failures  []error
}

func (s *stubConn) Connect(_ context.Context) bool { s.connects++; return s.connected }
func (s *stubConn) IsConnected() bool              { return s.connected }
func (s *stubConn) State() State {
	if s.connected {
		return StateConnected
	}
	return StateDisconnected
}
func (s *stubConn) Client() *redis.Client        { return s.client }
func (s *stubConn) Probe(_ context.Context) bool { return s.connected }
func (s *stubConn) ReportFailure(err error)      { s.failures = append(s.failures, err) }
func (s *stubConn) Close() error                 { return nil }

func TestRedisBackend_KeyLayout(t *testing.T) {
	r := NewRedisBackend(&structures.Config{}, &stubConn{}, identityCompression{})
	assert.Equal(t, "statcache:hosting:bob", r.key(models.KindHosting, "bob"))

	r = NewRedisBackend(&structures.Config{Store: structures.StoreConfig{KeyPrefix: "sc"}}, &stubConn{}, identityCompression{})
	assert.Equal(t, "sc:blog:42", r.key(models.KindBlog, "42"))
	assert.Equal(t, RedisBackendName, r.Name())
}

func TestRedisBackend_NoClientIsConnectionError(t *testing.T) {
	r := NewRedisBackend(&structures.Config{}, &stubConn{}, identityCompression{})
	ctx := context.Background()

	_, err := r.Find(ctx, models.KindPractice, "alice")
	assert.ErrorIs(t, err, ErrConnection)

	_, err = r.Upsert(ctx, models.KindPractice, "alice", time.Minute, counterMerge)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestRedisBackend_DeadClientReportsFailure(t *testing.T) {
	opt, err := redis.ParseURL("redis://127.0.0.1:1/0")
	require.NoError(t, err)
	opt.DialTimeout = 200 * time.Millisecond
	opt.MaxRetries = -1
	client := redis.NewClient(opt)
	defer client.Close()

	conn := &stubConn{connected: true, client: client}
	r := NewRedisBackend(&structures.Config{}, conn, identityCompression{})

	_, err = r.Find(context.Background(), models.KindPractice, "alice")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	require.Len(t, conn.failures, 1)
	assert.Equal(t, ErrConnection, Classify(conn.failures[0], ErrQuery))
}

func liveBackend(t *testing.T, compress bool) (*RedisBackend, *ConnectionManager) {
	return backendAt(t, liveRedisURI(t), compress)
}

func backendAt(t *testing.T, uri string, compress bool) (*RedisBackend, *ConnectionManager) {
	conf := storeConfig(uri)
	conf.Store.KeyPrefix = "statcache-test-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	conf.Store.Compress = compress

	cm := NewConnectionManager(conf, &connTestLogger{}).(*ConnectionManager)
	require.True(t, cm.Connect(context.Background()))
	t.Cleanup(func() { _ = cm.Close() })

	compressor, err := NewCompressor(conf)
	require.NoError(t, err)
	return NewRedisBackend(conf, cm, compressor), cm
}

func TestRedisBackend_LiveUpsertFindTTL(t *testing.T) {
	for _, compress := range []bool{false, true} {
		r, cm := liveBackend(t, compress)
		ctx := context.Background()

		_, err := r.Find(ctx, models.KindPractice, "alice")
		assert.ErrorIs(t, err, ErrNotFound)

		for i := 0; i < 2; i++ {
			_, err = r.Upsert(ctx, models.KindPractice, "alice", time.Minute, counterMerge)
			require.NoError(t, err)
		}
		doc, err := r.Find(ctx, models.KindPractice, "alice")
		require.NoError(t, err)
		assert.Equal(t, "2", string(doc))

		ttl, err := cm.Client().TTL(ctx, r.key(models.KindPractice, "alice")).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))

		// a zero ttl write clears the expiry
		_, err = r.Upsert(ctx, models.KindPractice, "alice", 0, counterMerge)
		require.NoError(t, err)
		ttl, err = cm.Client().TTL(ctx, r.key(models.KindPractice, "alice")).Result()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(-1), ttl)

		cm.Client().Del(ctx, r.key(models.KindPractice, "alice"))
	}
}

func TestRedisBackend_LiveConcurrentUpserts(t *testing.T) {
	r, cm := liveBackend(t, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_, err := r.Upsert(ctx, models.KindHosting, "hot", 0, counterMerge)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	doc, err := r.Find(ctx, models.KindHosting, "hot")
	require.NoError(t, err)
	assert.Equal(t, "40", string(doc))
	cm.Client().Del(ctx, r.key(models.KindHosting, "hot"))
}
