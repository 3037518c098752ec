package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	s := New(0, nil)
	mux := s.routes()

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := get(mux, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.JSONEq(t, `{"status":"not_ready"}`, rec.Body.String())
	}

	s.SetReady(true)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := get(mux, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("synthesizer_requests_total 1\n"))
	})

	rec := get(New(0, metrics).routes(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "synthesizer_requests_total")

	rec = get(New(0, nil).routes(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
