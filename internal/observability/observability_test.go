package observability

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_FreshRegistry(t *testing.T) {
	// Two instances must not collide, unlike collectors on the default registry.
	a := NewMetrics()
	b := NewMetrics()

	a.RowsLoaded.Add(3)
	assert.InDelta(t, 3.0, testutil.ToFloat64(a.RowsLoaded), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.RowsLoaded), 0)
}

func TestMetrics_Push(t *testing.T) {
	var (
		method string
		path   string
		body   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMetrics()
	m.RowsLoaded.Add(42)
	m.ValuesFlagged.WithLabelValues("1. No Data", "Precip").Add(2)

	require.NoError(t, m.Push(context.Background(), srv.URL, "weather-qc"))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/weather-qc", path)
	assert.NotEmpty(t, body)
}

func TestMetrics_PushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewMetrics().Push(context.Background(), srv.URL, "weather-qc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), srv.URL)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		debug   bool
		jsonOut bool
	}{
		{"json info", "info", "json", false, true},
		{"text debug", "debug", "text", true, false},
		{"unknown level defaults to info", "verbose", "json", false, true},
		{"warn hides info", "warn", "text", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level, tt.format)
			assert.Equal(t, tt.debug, logger.Enabled(context.Background(), slog.LevelDebug))

			logger.Error("boom", "k", "v")
			if tt.jsonOut {
				assert.Contains(t, buf.String(), `"msg":"boom"`)
			} else {
				assert.Contains(t, buf.String(), "msg=boom")
			}
		})
	}
}
