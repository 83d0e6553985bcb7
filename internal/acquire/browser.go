// Package acquire - browser.go provides the headless-browser acquisition strategy.
package acquire

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/marcus/listing-optimizer/internal/types"
)

// DefaultTimeout bounds one acquisition attempt: launch, navigation, and
// extraction together.
const DefaultTimeout = 25 * time.Second

// Browser fetches a listing by rendering the product page in headless Chrome.
// Each Fetch opens its own isolated browser session and tears it down on
// every exit path, so concurrent fetches share no state.
type Browser struct {
	Timeout   time.Duration
	UserAgent string
	// ExecPath overrides the Chrome binary location. Empty uses the default lookup.
	ExecPath string
}

// NewBrowser returns a Browser with default timeout and user agent.
func NewBrowser() *Browser {
	return &Browser{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Fetch renders the product page for the identifier and extracts the listing.
func (b *Browser) Fetch(ctx context.Context, identifier string) (*types.RawListing, error) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := b.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if b.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.ExecPath))
	}

	// The deferred cancels are the unconditional teardown: they run on
	// success, on navigation errors, and when the timeout fires.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(ProductURL(identifier)),
		// Base document readiness only; full resource completion is not
		// required for the three target fields.
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, &AcquisitionError{Message: "browser rendering failed", Cause: err}
	}

	return parseListing(html, identifier)
}
