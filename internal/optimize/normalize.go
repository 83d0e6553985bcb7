// Package optimize - normalize.go recovers a structured listing from raw
// model output. Normalization never fails: every input produces an
// OptimizedListing, with the provider tag recording which path produced it.
package optimize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/marcus/listing-optimizer/internal/schemas"
	"github.com/marcus/listing-optimizer/internal/types"
)

// FallbackTitleSuffix is appended to the original title in the fallback record.
const FallbackTitleSuffix = " (Optimized)"

// fallbackKeywordLimit is how many title tokens seed the fallback keywords.
const fallbackKeywordLimit = 5

// fallbackBullets are deliberately generic: they are never presented as
// model output because the fallback provider tag travels with them.
var fallbackBullets = []string{
	"High-quality product with premium materials and construction",
	"Designed for everyday use with durability in mind",
	"Excellent value for money compared to similar products",
	"Customer satisfaction focused design and functionality",
	"Reliable performance backed by quality manufacturing",
}

const fallbackDescription = "This product listing could not be automatically optimized. " +
	"The original description has been preserved and a generic enhancement was applied. " +
	"Please review and edit manually for best results."

// fenceRe matches markdown code-fence markers, with or without the json
// language tag, case-insensitively.
var fenceRe = regexp.MustCompile("(?i)```(?:json)?")

// Normalizer converts raw model output into an OptimizedListing.
//
// StrictSchema controls the validation strictness on the success path: when
// false (the default) a parsed object passes through as-is; when true the
// payload must also satisfy the optimized-listing JSON Schema, and schema
// violations are routed to the fallback like any other normalization failure.
type Normalizer struct {
	StrictSchema bool
}

// Normalize returns the structured listing recovered from responseText plus
// the provider tag: model on success, types.ProviderFallback otherwise.
// It is a pure function of its inputs and never returns an error.
func (n Normalizer) Normalize(responseText string, original *types.RawListing, model string) (*types.OptimizedListing, string) {
	payload, ok := extractPayload(responseText)
	if !ok {
		return Fallback(original), types.ProviderFallback
	}

	var optimized types.OptimizedListing
	if err := json.Unmarshal([]byte(payload), &optimized); err != nil {
		return Fallback(original), types.ProviderFallback
	}

	if n.StrictSchema {
		if err := schemas.ValidateOptimized([]byte(payload)); err != nil {
			return Fallback(original), types.ProviderFallback
		}
	}

	return &optimized, model
}

// extractPayload strips code fences, trims whitespace, and returns the
// greedy brace span: first '{' through last '}'. The span tolerates leading
// and trailing commentary the model may emit despite instructions.
func extractPayload(text string) (string, bool) {
	text = strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Fallback synthesizes the deterministic substitute record from the original
// listing: suffixed title, fixed generic bullets, fixed notice description,
// and keywords taken from the first five whitespace-delimited title tokens.
func Fallback(original *types.RawListing) *types.OptimizedListing {
	keywords := strings.Fields(original.Title)
	if len(keywords) > fallbackKeywordLimit {
		keywords = keywords[:fallbackKeywordLimit]
	}

	bullets := make([]string, len(fallbackBullets))
	copy(bullets, fallbackBullets)

	return &types.OptimizedListing{
		Title:       original.Title + FallbackTitleSuffix,
		Bullets:     bullets,
		Description: fallbackDescription,
		Keywords:    keywords,
	}
}
