package acquire

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserFetchCancelledContext(t *testing.T) {
	// A cancelled parent context makes the session launch fail immediately;
	// the deferred teardown still runs and the failure is classified as an
	// acquisition error, never as NotFound.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBrowser()
	start := time.Now()
	listing, err := b.Fetch(ctx, "B0EXAMPLE1")

	assert.Nil(t, listing)
	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)
	var notFound *NotFoundError
	assert.NotErrorAs(t, err, &notFound)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestNewBrowserDefaults(t *testing.T) {
	b := NewBrowser()

	assert.Equal(t, DefaultTimeout, b.Timeout)
	assert.Equal(t, DefaultUserAgent, b.UserAgent)
}

func TestBrowserZeroValuesUseDefaults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A zero-valued Browser must not panic on unset fields.
	b := &Browser{}
	_, err := b.Fetch(ctx, "B0EXAMPLE1")

	var acqErr *AcquisitionError
	assert.ErrorAs(t, err, &acqErr)
}
