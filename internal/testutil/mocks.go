package testutil

import (
	"context"
	"statcache/internal/models"
	"statcache/internal/providers"
	"statcache/internal/storage"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// store operations by "kind/backend/op/outcome".
type MockMetrics struct {
	mu        sync.Mutex
	StoreOps  map[string]int
	Connected bool
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{StoreOps: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (m *MockMetrics) IncCacheHits()                                     {}
func (m *MockMetrics) IncCacheMisses()                                   {}
func (m *MockMetrics) ObserveStoreDuration(_, _ string, _ time.Duration) {}

func (m *MockMetrics) IncStoreOps(kind, backend, op, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreOps[kind+"/"+backend+"/"+op+"/"+outcome]++
}

func (m *MockMetrics) SetStoreConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Connected = connected
}

func (m *MockMetrics) Ops(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StoreOps[key]
}

// MockConnector implements storage.ConnectorInterface without a server.
// Connect flips the state to ConnectResult.
type MockConnector struct {
	mu            sync.Mutex
	Connected     bool
	ConnectResult bool
	ConnectCalls  int
	ProbeCalls    int
	Failures      []error
	Closed        bool
}

func (m *MockConnector) Connect(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectCalls++
	m.Connected = m.ConnectResult
	return m.Connected
}

func (m *MockConnector) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Connected
}

func (m *MockConnector) State() storage.State {
	if m.IsConnected() {
		return storage.StateConnected
	}
	return storage.StateDisconnected
}

func (m *MockConnector) Client() *redis.Client { return nil }

func (m *MockConnector) Probe(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProbeCalls++
	return m.Connected
}

func (m *MockConnector) ProbeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ProbeCalls
}

func (m *MockConnector) ReportFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures = append(m.Failures, err)
}

func (m *MockConnector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	m.Connected = false
	return nil
}

func (m *MockConnector) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Connected = connected
}

// FailingBackend implements storage.Backend and fails every call with the
// configured errors. A nil error delegates to Inner when set.
type FailingBackend struct {
	FindErr   error
	UpsertErr error
	Panic     bool
	Inner     storage.Backend
}

func (f *FailingBackend) Name() string { return "failing" }

func (f *FailingBackend) Find(ctx context.Context, kind models.Kind, key string) ([]byte, error) {
	if f.Panic {
		panic("backend exploded")
	}
	if f.FindErr != nil || f.Inner == nil {
		return nil, f.FindErr
	}
	return f.Inner.Find(ctx, kind, key)
}

func (f *FailingBackend) Upsert(ctx context.Context, kind models.Kind, key string, ttl time.Duration, merge storage.MergeFunc) ([]byte, error) {
	if f.Panic {
		panic("backend exploded")
	}
	if f.UpsertErr != nil || f.Inner == nil {
		return nil, f.UpsertErr
	}
	return f.Inner.Upsert(ctx, kind, key, ttl, merge)
}

// StoreBackend is an in-memory stand-in for the persistent store. It
// reports the store's backend name so metrics and logs match production.
type StoreBackend struct {
	*storage.MemoryBackend
}

func NewStoreBackend() *StoreBackend {
	return &StoreBackend{MemoryBackend: storage.NewMemoryBackend()}
}

func (s *StoreBackend) Name() string { return storage.RedisBackendName }

// MockCache implements providers.CacheProviderInterface. It never expires
// entries but records the TTL each one was stored with.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
	TTLs map[string]int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte), TTLs: make(map[string]int)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte, ttlSeconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttlSeconds <= 0 {
		return
	}
	m.Data[key] = value
	m.TTLs[key] = ttlSeconds
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	delete(m.TTLs, key)
}
