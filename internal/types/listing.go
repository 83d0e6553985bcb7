// Package types provides type definitions for structured data used throughout the listing-optimizer system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProviderFallback tags an OptimizedListing that was synthesized locally
// instead of coming from the AI provider. Any other provider value is the
// model identifier used for the request. Consumers must never conflate the two.
const ProviderFallback = "fallback"

// RawListing is the product record as extracted from the source page,
// before any rewriting. It is immutable once returned by acquisition.
type RawListing struct {
	Title       string   `json:"title"`
	Bullets     []string `json:"bullets"`
	Description string   `json:"description"`
}

// OptimizedListing is the rewritten product record. It is produced either
// from a validated parse of the AI response or from the deterministic
// fallback generator - there is no third path.
type OptimizedListing struct {
	Title       string   `json:"title"`
	Bullets     []string `json:"bullets"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// OptimizeRequest represents the request to optimize a product listing.
type OptimizeRequest struct {
	Identifier string `json:"identifier" validate:"required,min=1,max=64"`
	Save       bool   `json:"save,omitempty"`
}

// Validate validates the OptimizeRequest using the validator.
func (r *OptimizeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Optimization is one persisted before/after pair for API responses
// (avoids import cycle with the db package).
type Optimization struct {
	ID         uuid.UUID        `json:"id"`
	Identifier string           `json:"identifier"`
	Original   RawListing       `json:"original"`
	Optimized  OptimizedListing `json:"optimized"`
	Provider   string           `json:"provider"`
	CreatedAt  time.Time        `json:"created_at"`
}
