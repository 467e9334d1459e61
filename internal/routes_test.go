package internal

import (
	"net/http"
	"net/http/httptest"
	"statcache/internal/controllers"
	"statcache/internal/services"
	"statcache/internal/storage"
	"statcache/internal/structures"
	"statcache/internal/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, metricsEnabled bool) http.Handler {
	t.Helper()
	conn := &testutil.MockConnector{}
	fallback := storage.NewMemoryBackend()
	router := &storage.Router{Conn: conn, Store: testutil.NewStoreBackend(), Fallback: fallback}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	conf := &structures.Config{
		Freshness: structures.FreshnessConfig{PracticeTTL: 3600, HostingTTL: 3600, BlogTTL: 3600},
		Metrics:   structures.MetricsConfig{Enabled: metricsEnabled},
	}

	pc := controllers.NewProfileController(conf, logger,
		services.NewPracticeService(router, logger, metrics),
		services.NewHostingService(router, logger, metrics),
		services.NewBlogService(router, logger, metrics),
		testutil.NewMockCache(),
	)
	hc := controllers.NewHealthController(conn, fallback)
	return NewHandler(hc, conf, logger, InitRoutes(pc), metrics)
}

func TestInitRoutes_RegistersKinds(t *testing.T) {
	pc := controllers.NewProfileController(&structures.Config{}, &testutil.MockLogger{}, nil, nil, nil, testutil.NewMockCache())
	routes := InitRoutes(pc).GetRoutes()

	urls := make([]string, 0, len(routes))
	for _, r := range routes {
		urls = append(urls, r.Url)
	}
	assert.Equal(t, []string{"/practice", "/hosting", "/blog"}, urls)
}

func TestHandler_EndToEnd(t *testing.T) {
	h := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodPost, "/hosting", strings.NewReader(`{"username":"bob"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/hosting?username=bob", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"visitCount":1`)
	assert.Contains(t, rr.Body.String(), `"needsFetch":false`)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodDelete, "/blog?userId=42", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Allow"))
}

func TestHandler_Health(t *testing.T) {
	h := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"degraded"`)
}

func TestHandler_MetricsEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	rr := httptest.NewRecorder()
	newTestHandler(t, false).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	newTestHandler(t, true).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_UnknownPath(t *testing.T) {
	h := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodGet, "/forum", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
