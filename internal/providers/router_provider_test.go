package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func serve(h http.Handler, method string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/test", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler("ok"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/test", routes[0].Url)
}

func TestRouterProvider_PostAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/submit", dummyHandler("ok"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/submit", routes[0].Url)
}

func TestRouterProvider_MultipleRoutesKeepOrder(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler("ok"))
	rp.Post("/b", dummyHandler("ok"))
	rp.Get("/c", dummyHandler("ok"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/a", routes[0].Url)
	assert.Equal(t, "/b", routes[1].Url)
	assert.Equal(t, "/c", routes[2].Url)
}

func TestRouterProvider_SameURLTwoMethods(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler("read"))
	rp.Post("/test", dummyHandler("write"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)

	assert.Equal(t, "read", serve(routes[0].Handler, http.MethodGet).Body.String())
	assert.Equal(t, "write", serve(routes[0].Handler, http.MethodPost).Body.String())

	rr := serve(routes[0].Handler, http.MethodDelete)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Allow"))
}

func TestMethodHandler_CorrectMethod(t *testing.T) {
	handler := methodHandler(map[string]http.Handler{http.MethodGet: dummyHandler("ok")})

	rr := serve(handler, http.MethodGet)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestMethodHandler_WrongMethod(t *testing.T) {
	handler := methodHandler(map[string]http.Handler{http.MethodGet: dummyHandler("ok")})

	rr := serve(handler, http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET", rr.Header().Get("Allow"))
}

func TestRouterProvider_PostRouteRejectsGet(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/submit", dummyHandler("ok"))

	route := rp.GetRoutes()[0]
	assert.Equal(t, http.StatusMethodNotAllowed, serve(route.Handler, http.MethodGet).Code)
}
