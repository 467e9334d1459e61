package providers

import "time"

// local mocks to avoid an import cycle with testutil

type providerTestLogger struct {
	debug int
	info  int
}

func (m *providerTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *providerTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *providerTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) { m.debug++ }
func (m *providerTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  { m.info++ }
func (m *providerTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *providerTestLogger) Close()                                        {}

type providerTestMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
}

func (m *providerTestMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *providerTestMetrics) ObserveRequestDuration(_ string, _ time.Duration)  { m.durationCalls++ }
func (m *providerTestMetrics) IncCacheHits()                                     { m.hits++ }
func (m *providerTestMetrics) IncCacheMisses()                                   { m.misses++ }
func (m *providerTestMetrics) IncStoreOps(_, _, _, _ string)                     {}
func (m *providerTestMetrics) ObserveStoreDuration(_, _ string, _ time.Duration) {}
func (m *providerTestMetrics) SetStoreConnected(_ bool)                          {}
