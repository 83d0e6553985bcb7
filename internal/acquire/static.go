// Package acquire - static.go provides the plain HTTP acquisition strategy.
package acquire

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/marcus/listing-optimizer/internal/types"
)

// Static fetches the product page over plain HTTP and parses the returned
// HTML. It satisfies the same Source contract as Browser and is suitable
// when the target markup does not require JavaScript rendering.
type Static struct {
	Timeout   time.Duration
	UserAgent string
	// Client overrides the HTTP client. Nil uses a client bound by Timeout.
	Client *http.Client
}

// NewStatic returns a Static source with default timeout and user agent.
func NewStatic() *Static {
	return &Static{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Fetch retrieves and parses the product page for the identifier.
//
// Non-200 responses are not treated as transport failures: a blocked or
// missing product serves an HTML page without a title, which classifies as
// NotFound downstream, matching the browser strategy.
func (s *Static) Fetch(ctx context.Context, identifier string) (*types.RawListing, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := s.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ProductURL(identifier), nil)
	if err != nil {
		return nil, &AcquisitionError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &AcquisitionError{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AcquisitionError{Message: "failed to read response body", Cause: err}
	}

	return parseListing(string(body), identifier)
}
