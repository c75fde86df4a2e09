package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GHutch55/anagrams/api/v1/handlers"
	"github.com/GHutch55/anagrams/metrics"
)

const validBody = `{"user_name": "alice", "input_text": "cat"}`

func do(h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	h := New(Options{AllowedOrigins: []string{"*"}})

	rec := do(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/generate-anagram", validBody, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)

	rec = do(h, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/version", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/generate-anagram", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "metrics are off without a collector")
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()

	preflight := http.Header{
		"Origin":                         []string{"http://localhost:5173"},
		"Access-Control-Request-Method":  []string{"POST"},
		"Access-Control-Request-Headers": []string{"Content-Type"},
	}

	t.Run("any origin", func(t *testing.T) {
		h := New(Options{AllowedOrigins: []string{"*"}})

		rec := do(h, http.MethodOptions, "/generate-anagram", "", preflight)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

		rec = do(h, http.MethodGet, "/health", "", http.Header{"Origin": []string{"http://anywhere.test"}})
		assert.Equal(t, "http://anywhere.test", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("restricted origins", func(t *testing.T) {
		h := New(Options{AllowedOrigins: []string{"http://localhost:3000"}})

		rec := do(h, http.MethodOptions, "/generate-anagram", "", preflight)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

		rec = do(h, http.MethodGet, "/health", "", http.Header{"Origin": []string{"http://localhost:3000"}})
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	h := New(Options{AllowedOrigins: []string{"*"}, RateLimit: 2})

	for i := 0; i < 2; i++ {
		rec := do(h, http.MethodPost, "/generate-anagram", validBody, nil)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := do(h, http.MethodPost, "/generate-anagram", validBody, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"detail":"`+handlers.DetailTooManyRequests+`"}`, rec.Body.String())

	// other routes are not limited
	rec = do(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RateLimitIgnoresForwardedHeaders(t *testing.T) {
	t.Parallel()

	h := New(Options{AllowedOrigins: []string{"*"}, RateLimit: 2})

	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		header := http.Header{
			"X-Forwarded-For": []string{fmt.Sprintf("10.0.0.%d", i)},
			"X-Real-Ip":       []string{fmt.Sprintf("10.0.1.%d", i)},
			"True-Client-Ip":  []string{fmt.Sprintf("10.0.2.%d", i)},
		}
		codes = append(codes, do(h, http.MethodPost, "/generate-anagram", validBody, header).Code)
	}

	assert.Equal(t, []int{
		http.StatusOK, http.StatusOK,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
	}, codes)
}

func TestRouter_TrustProxyKeysOnForwardedFor(t *testing.T) {
	t.Parallel()

	h := New(Options{AllowedOrigins: []string{"*"}, RateLimit: 1, TrustProxy: true})

	for i := 0; i < 3; i++ {
		header := http.Header{"X-Forwarded-For": []string{fmt.Sprintf("10.0.0.%d", i)}}
		rec := do(h, http.MethodPost, "/generate-anagram", validBody, header)
		require.Equal(t, http.StatusOK, rec.Code, "client %d", i)
	}

	header := http.Header{"X-Forwarded-For": []string{"10.0.0.0"}}
	rec := do(h, http.MethodPost, "/generate-anagram", validBody, header)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouter_EmptyOriginsAllowAny(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(Options{}))
	t.Cleanup(srv.Close)

	rec := do(srv.Config.Handler, http.MethodGet, "/health", "", http.Header{"Origin": []string{"http://app.test"}})
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/generate-anagram"
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://app.test"}})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(validBody)))
	var reply map[string]interface{}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "success", reply["status"])
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	h := New(Options{AllowedOrigins: []string{"*"}})

	for i := 0; i < 10; i++ {
		rec := do(h, http.MethodPost, "/generate-anagram", validBody, nil)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	h := New(Options{AllowedOrigins: []string{"*"}, Metrics: metrics.New()})

	do(h, http.MethodPost, "/generate-anagram", validBody, nil)
	do(h, http.MethodGet, "/does-not-exist", "", nil)

	rec := do(h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `anagram_http_requests_total{code="200",method="POST",route="/generate-anagram"} 1`)
	assert.Contains(t, body, `anagram_http_requests_total{code="404",method="GET",route="unmatched"} 1`)
	assert.Contains(t, body, `anagram_generations_total{result="success"} 1`)
}
