package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Exposition(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRequest(http.MethodPost, "/generate-anagram", http.StatusOK, 15*time.Millisecond)
	m.IncGeneration(ResultSuccess)
	m.IncGeneration(ResultFailed)
	m.ObserveResultSize(3)

	body := scrape(t, m)
	assert.Contains(t, body, `anagram_http_requests_total{code="200",method="POST",route="/generate-anagram"} 1`)
	assert.Contains(t, body, `anagram_http_request_duration_seconds_count{method="POST",route="/generate-anagram"} 1`)
	assert.Contains(t, body, `anagram_generations_total{result="success"} 1`)
	assert.Contains(t, body, `anagram_generations_total{result="failed"} 1`)
	assert.Contains(t, body, `anagram_generation_results_count 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.IncGeneration(ResultSuccess)

	assert.Contains(t, scrape(t, a), `anagram_generations_total{result="success"} 1`)
	assert.NotContains(t, scrape(t, b), `anagram_generations_total{result="success"}`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
		m.IncGeneration(ResultSuccess)
		m.ObserveResultSize(1)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
