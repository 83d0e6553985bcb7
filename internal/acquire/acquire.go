// Package acquire retrieves product listings from the source site and
// extracts the raw title, feature bullets, and description.
//
// Two interchangeable strategies implement the same Source contract:
// Browser renders the page in headless Chrome before extraction, Static
// fetches the HTML over plain HTTP. Both classify failures identically.
package acquire

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/marcus/listing-optimizer/internal/types"
)

// DefaultUserAgent mimics a common desktop browser. The source site serves a
// robot-check page to obvious automation clients; this lowers the odds of
// trivial filtering but is not a countermeasure guarantee.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	// MinBulletLength is the minimum trimmed length for a feature bullet.
	// Shorter entries are layout placeholders or boilerplate.
	MinBulletLength = 20
	// MaxBullets caps how many feature bullets are kept, in document order.
	MaxBullets = 8
)

const productURLTemplate = "https://www.amazon.com/dp/"

// titleSelectors are tried in order; the first match wins.
var titleSelectors = []string{"#productTitle", "h1#title", "h1"}

// bulletSelectors locate feature-list text nodes.
var bulletSelectors = []string{"#feature-bullets li span.a-list-item", "#feature-bullets li"}

// descriptionSelectors are ordered fallbacks: the plain description block
// first, then the rich-content block.
var descriptionSelectors = []string{"#productDescription", "#aplus"}

// Source is the acquisition capability: fetch one listing by identifier.
// Implementations return a RawListing, a *NotFoundError when the page has no
// title, or an *AcquisitionError for any transport or automation failure.
type Source interface {
	Fetch(ctx context.Context, identifier string) (*types.RawListing, error)
}

// ProductURL builds the deterministic product page URL for an identifier.
// The identifier is path-escaped so a malformed value cannot alter the URL
// structure; it can still name a nonexistent product, which surfaces as
// NotFound after extraction.
func ProductURL(identifier string) string {
	return productURLTemplate + url.PathEscape(identifier)
}

// FilterBullets trims each candidate, drops entries at or under
// MinBulletLength characters, and keeps the first MaxBullets survivors in
// their original order.
func FilterBullets(candidates []string) []string {
	filtered := make([]string, 0, MaxBullets)
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if utf8.RuneCountInString(c) <= MinBulletLength {
			continue
		}
		filtered = append(filtered, c)
		if len(filtered) == MaxBullets {
			break
		}
	}
	return filtered
}

// extractListing pulls the three raw fields out of a product page document.
// Missing fields come back as empty strings; the caller decides whether an
// empty title means NotFound.
func extractListing(doc *goquery.Document) *types.RawListing {
	listing := &types.RawListing{}

	for _, sel := range titleSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			listing.Title = strings.TrimSpace(s.First().Text())
			break
		}
	}

	var candidates []string
	for _, sel := range bulletSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			s.Each(func(_ int, item *goquery.Selection) {
				candidates = append(candidates, item.Text())
			})
			break
		}
	}
	listing.Bullets = FilterBullets(candidates)

	for _, sel := range descriptionSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			listing.Description = text
			break
		}
	}

	return listing
}

// parseListing parses rendered or fetched HTML and classifies the result:
// extraction failure is an AcquisitionError, an empty title is NotFound.
func parseListing(html, identifier string) (*types.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &AcquisitionError{Message: "failed to parse product page", Cause: err}
	}

	listing := extractListing(doc)
	if listing.Title == "" {
		return nil, &NotFoundError{Identifier: identifier}
	}
	return listing, nil
}
