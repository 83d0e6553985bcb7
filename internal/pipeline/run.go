// Package pipeline orchestrates one acquisition-and-optimization cycle:
// acquire the raw listing, rewrite it through the AI provider, normalize the
// response, and optionally hand the pair to a persistence collaborator.
package pipeline

import (
	"context"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/marcus/listing-optimizer/internal/acquire"
	"github.com/marcus/listing-optimizer/internal/optimize"
	"github.com/marcus/listing-optimizer/internal/types"
)

// Recorder is the persistence capability. It is injected per pipeline, not
// checked via any process-wide flag: a nil Recorder means the capability is
// absent and recording is skipped.
type Recorder interface {
	RecordOptimization(ctx context.Context, identifier string, raw *types.RawListing,
		optimized *types.OptimizedListing, provider string) (uuid.UUID, error)
}

// Result is the outcome of one pipeline run.
type Result struct {
	Identifier string                  `json:"identifier"`
	Raw        *types.RawListing       `json:"original"`
	Optimized  *types.OptimizedListing `json:"optimized"`
	Provider   string                  `json:"provider"`
	// RecordID is set when the pair was persisted, uuid.Nil otherwise.
	RecordID uuid.UUID `json:"record_id,omitempty"`
}

// Pipeline wires the acquisition source, the AI client, the normalizer, and
// an optional recorder into one request flow.
type Pipeline struct {
	Source     acquire.Source
	Client     optimize.Client
	Normalizer optimize.Normalizer
	Recorder   Recorder
	Verbose    bool
}

// Run executes one acquisition-and-optimization cycle for the identifier.
//
// Acquisition errors propagate unchanged. Provider and normalization
// failures do not: both degrade to the deterministic fallback record, and
// the provider tag records which path produced the result. A recording
// failure is logged but never fails the run.
func (p *Pipeline) Run(ctx context.Context, identifier string) (*Result, error) {
	raw, err := p.Source.Fetch(ctx, identifier)
	if err != nil {
		return nil, err
	}

	prompt := optimize.BuildRewritePrompt(raw)

	responseText, err := p.Client.GenerateContent(ctx, prompt)
	if err != nil {
		if p.Verbose {
			log.Printf("[PIPELINE] provider call failed for %s, using fallback: %v", identifier, err)
		}
		responseText = ""
	}

	optimized, provider := p.Normalizer.Normalize(responseText, raw, p.Client.Model())

	result := &Result{
		Identifier: identifier,
		Raw:        raw,
		Optimized:  optimized,
		Provider:   provider,
	}

	if p.Recorder != nil {
		id, err := p.Recorder.RecordOptimization(ctx, identifier, raw, optimized, provider)
		if err != nil {
			log.Printf("[PIPELINE] failed to record optimization for %s: %v", identifier, err)
		} else {
			result.RecordID = id
		}
	}

	return result, nil
}

// RunAll runs the pipeline for each identifier concurrently. Runs are fully
// independent: each opens its own acquisition session and no work is shared
// or de-duplicated. The first error cancels the remaining runs.
func (p *Pipeline) RunAll(ctx context.Context, identifiers []string) ([]*Result, error) {
	results := make([]*Result, len(identifiers))

	g, gCtx := errgroup.WithContext(ctx)
	for i, identifier := range identifiers {
		g.Go(func() error {
			result, err := p.Run(gCtx, identifier)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
