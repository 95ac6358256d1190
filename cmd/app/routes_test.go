package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"travel-service/configs"
	"travel-service/internal/live"
	"travel-service/internal/shared/jwt"
)

func testAPI(ping error) *api {
	tokens := jwt.NewSigner("test-secret", time.Hour)
	return &api{
		tokens: tokens,
		live:   live.NewHandler(live.NewHub(), tokens),
		ping:   func(context.Context) error { return ping },
	}
}

func testConfig() *configs.Config {
	cfg := &configs.Config{Env: "test"}
	cfg.Server.RequestTimeout = time.Second
	cfg.Server.BodyLimit = 1 << 20
	cfg.Server.CORSOrigins = []string{"*"}
	return cfg
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := testAPI(nil).router(testConfig())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/posts"},
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/guides/abc/dislike"},
		{http.MethodPut, "/api/notifications/read-all"},
		{http.MethodPost, "/media/upload"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestWebsocketRequiresToken(t *testing.T) {
	h := testAPI(nil).router(testConfig())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testAPI(nil).router(testConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	testAPI(errors.New("no primary")).router(testConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
