package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/listing-optimizer/internal/acquire"
	"github.com/marcus/listing-optimizer/internal/config"
	"github.com/marcus/listing-optimizer/internal/pipeline"
	"github.com/marcus/listing-optimizer/internal/server/ratelimit"
	"github.com/marcus/listing-optimizer/internal/types"
)

// newTestServer builds a Server with the pipeline stubbed out and no database.
func newTestServer(run func(ctx context.Context, identifier string, save bool) (*pipeline.Result, error)) *Server {
	s := &Server{
		cfg:         &config.Config{Strategy: config.StrategyStatic},
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
		run:         run,
	}
	return s
}

func successfulRun(_ context.Context, identifier string, _ bool) (*pipeline.Result, error) {
	return &pipeline.Result{
		Identifier: identifier,
		Raw:        &types.RawListing{Title: "Blue Widget Pro"},
		Optimized:  &types.OptimizedListing{Title: "Better Widget"},
		Provider:   "test-model",
	}, nil
}

func doOptimize(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handleOptimize(w, req)
	return w
}

func TestHandleOptimize(t *testing.T) {
	s := newTestServer(successfulRun)

	w := doOptimize(t, s, `{"identifier":"B0EXAMPLE1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var result pipeline.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, "B0EXAMPLE1", result.Identifier)
	assert.Equal(t, "Blue Widget Pro", result.Raw.Title)
	assert.Equal(t, "Better Widget", result.Optimized.Title)
	assert.Equal(t, "test-model", result.Provider)
}

func TestHandleOptimizeValidation(t *testing.T) {
	s := newTestServer(successfulRun)

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{not json`},
		{"missing identifier", `{}`},
		{"empty identifier", `{"identifier":""}`},
		{"identifier too long", `{"identifier":"` + strings.Repeat("a", 65) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doOptimize(t, s, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleOptimizeNotFound(t *testing.T) {
	s := newTestServer(func(_ context.Context, identifier string, _ bool) (*pipeline.Result, error) {
		return nil, &acquire.NotFoundError{Identifier: identifier}
	})

	w := doOptimize(t, s, `{"identifier":"B0MISSING"}`)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "identifier may be invalid")
}

func TestHandleOptimizeAcquisitionFailure(t *testing.T) {
	s := newTestServer(func(context.Context, string, bool) (*pipeline.Result, error) {
		return nil, &acquire.AcquisitionError{Message: "browser rendering failed"}
	})

	w := doOptimize(t, s, `{"identifier":"B0EXAMPLE1"}`)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Source unavailable")
}

func TestHandleOptimizeFallbackIsNotAnError(t *testing.T) {
	s := newTestServer(func(_ context.Context, identifier string, _ bool) (*pipeline.Result, error) {
		return &pipeline.Result{
			Identifier: identifier,
			Raw:        &types.RawListing{Title: "Blue Widget Pro"},
			Optimized:  &types.OptimizedListing{Title: "Blue Widget Pro (Optimized)"},
			Provider:   types.ProviderFallback,
		}, nil
	})

	w := doOptimize(t, s, `{"identifier":"B0EXAMPLE1"}`)

	// Degraded results are still 200s; the provider tag marks them.
	require.Equal(t, http.StatusOK, w.Code)
	var result pipeline.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, types.ProviderFallback, result.Provider)
}

func TestHandleOptimizePassesSaveFlag(t *testing.T) {
	var gotSave bool
	s := newTestServer(func(ctx context.Context, identifier string, save bool) (*pipeline.Result, error) {
		gotSave = save
		return successfulRun(ctx, identifier, save)
	})

	doOptimize(t, s, `{"identifier":"B0EXAMPLE1","save":true}`)

	assert.True(t, gotSave)
}

func TestHistoryEndpointsWithoutDatabase(t *testing.T) {
	s := newTestServer(successfulRun)

	req := httptest.NewRequest(http.MethodGet, "/optimizations", nil)
	w := httptest.NewRecorder()
	s.handleListOptimizations(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no database configured")
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(successfulRun)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestWithRateLimit(t *testing.T) {
	s := &Server{
		cfg: &config.Config{},
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{
			Enabled:        true,
			OptimizeLimit:  1,
			OptimizeWindow: time.Minute,
			DefaultLimit:   100,
			DefaultWindow:  time.Minute,
		}),
	}
	handler := s.withRateLimit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/optimize", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/optimize", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestParseQueryInt(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"missing uses default", "", 50},
		{"valid value", "limit=10", 10},
		{"negative uses default", "limit=-1", 50},
		{"above max is clamped", "limit=500", 100},
		{"garbage uses default", "limit=abc", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/optimizations?"+tt.query, nil)
			assert.Equal(t, tt.expected, parseQueryInt(req, "limit", 50, 100))
		})
	}
}
