package engine

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/pokedex/pkg/httputil"
	"github.com/getmockd/pokedex/pkg/logging"
	"github.com/getmockd/pokedex/pkg/metrics"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pokemon", nil))

		id := rec.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("propagates the client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/pokemon", nil)
		req.Header.Set(RequestIDHeader, "trace-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "trace-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "trace-123", seen)
	})

	t.Run("replaces oversized ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/pokemon", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", 500))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestAccessLogMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON, Output: &buf})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			logging.FromContext(r.Context(), nil).Warn("inner")
			httputil.WriteInternalError(w, r)
			return
		}
		_ = httputil.WriteJSON(w, r, http.StatusOK, []string{"Fire"})
	})
	h := RequestIDMiddleware(AccessLogMiddleware(log, inner))

	req := httptest.NewRequest(http.MethodGet, "/pokemon/types", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := decodeLogLines(t, &buf)
	require.Len(t, lines, 1)
	entry := lines[0]
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/pokemon/types", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
	assert.EqualValues(t, 8, entry["bytes"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Contains(t, entry, "duration")

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	lines = decodeLogLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "inner", lines[0]["msg"], "handlers log through the request logger")
	assert.Equal(t, lines[0]["request_id"], lines[1]["request_id"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.EqualValues(t, 500, lines[1]["status"])
}

func TestMetricsMiddleware(t *testing.T) {
	store := testStore()
	m := metrics.New(store.Len)
	h := MetricsMiddleware(m, NewHandler(store))

	for _, target := range []string{"/pokemon/1", "/pokemon/4", "/pokemon/999", "/nope", "/also-nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	var buf bytes.Buffer
	_, err := m.Registry.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, `pokedex_http_requests_total{method="GET",route="/pokemon/{id}",status="200"} 2`)
	assert.Contains(t, out, `pokedex_http_requests_total{method="GET",route="/pokemon/{id}",status="204"} 1`)
	assert.Contains(t, out, `pokedex_http_requests_total{method="GET",route="unmatched",status="404"} 2`)
	assert.NotContains(t, out, `route="/pokemon/1"`)
}

func TestMetricsMiddleware_NilCollectors(t *testing.T) {
	inner := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	h := MetricsMiddleware(nil, inner)
	assert.NotNil(t, h)
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := newStatusRecorder(rec)

	sr.WriteHeader(http.StatusCreated)
	sr.WriteHeader(http.StatusTeapot)
	n, err := sr.Write([]byte("abc"))
	require.NoError(t, err)
	sr.Flush()

	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusCreated, sr.statusCode)
	assert.Equal(t, int64(3), sr.bytes)
	assert.Same(t, sr, recorderFor(sr))
	assert.Equal(t, rec, sr.Unwrap())
}
