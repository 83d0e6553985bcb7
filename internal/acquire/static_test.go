package acquire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticFor points a Static source at a test server by swapping the URL via
// a rewriting transport.
func staticFor(ts *httptest.Server) *Static {
	return &Static{
		Timeout:   5 * time.Second,
		UserAgent: DefaultUserAgent,
		Client: &http.Client{
			Transport: &rewriteTransport{target: ts.URL},
			Timeout:   5 * time.Second,
		},
	}
}

type rewriteTransport struct {
	target string
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redirected, err := http.NewRequestWithContext(req.Context(), req.Method,
		rt.target+req.URL.Path, req.Body)
	if err != nil {
		return nil, err
	}
	redirected.Header = req.Header
	return http.DefaultTransport.RoundTrip(redirected)
}

func TestStaticFetch(t *testing.T) {
	var gotUserAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(productPageHTML))
	}))
	defer ts.Close()

	listing, err := staticFor(ts).Fetch(context.Background(), "B0EXAMPLE1")

	require.NoError(t, err)
	assert.Equal(t, "Blue Widget Pro - Premium Edition", listing.Title)
	assert.Len(t, listing.Bullets, 3)
	assert.Equal(t, DefaultUserAgent, gotUserAgent)
}

func TestStaticFetchNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// The source serves a robot-check page without a product title.
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("<html><body><p>Enter the characters you see below</p></body></html>"))
	}))
	defer ts.Close()

	listing, err := staticFor(ts).Fetch(context.Background(), "B0BLOCKED")

	assert.Nil(t, listing)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "B0BLOCKED", notFound.Identifier)
}

func TestStaticFetchTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // unreachable server

	listing, err := staticFor(ts).Fetch(context.Background(), "B0EXAMPLE1")

	assert.Nil(t, listing)
	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)
	assert.NotNil(t, acqErr.Cause)
}

func TestStaticFetchCancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(productPageHTML))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := staticFor(ts).Fetch(ctx, "B0EXAMPLE1")

	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)
}

func TestNewStaticDefaults(t *testing.T) {
	s := NewStatic()

	assert.Equal(t, DefaultTimeout, s.Timeout)
	assert.Equal(t, DefaultUserAgent, s.UserAgent)
}
