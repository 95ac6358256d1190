package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/posts/{postId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/posts/{postId}", "404")
	before := testutil.ToFloat64(c)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/def", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestRecordInteraction(t *testing.T) {
	c := InteractionsTotal.WithLabelValues("guide", "dislike")
	before := testutil.ToFloat64(c)
	RecordInteraction("guide", "dislike")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
