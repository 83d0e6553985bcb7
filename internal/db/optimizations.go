package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/marcus/listing-optimizer/internal/types"
)

// Optimization is one persisted before/after pair. The optimized columns
// mirror the OptimizedListing field names.
type Optimization struct {
	ID                  uuid.UUID `json:"id"`
	Identifier          string    `json:"identifier"`
	OriginalTitle       string    `json:"original_title"`
	OriginalBullets     []string  `json:"original_bullets"`
	OriginalDescription string    `json:"original_description"`
	Title               string    `json:"title"`
	Bullets             []string  `json:"bullets"`
	Description         string    `json:"description"`
	Keywords            []string  `json:"keywords"`
	Provider            string    `json:"provider"`
	CreatedAt           time.Time `json:"created_at"`
}

// RecordOptimization stores one before/after pair and returns the record ID.
// It satisfies the pipeline's persistence capability.
func (db *DB) RecordOptimization(ctx context.Context, identifier string, raw *types.RawListing,
	optimized *types.OptimizedListing, provider string) (uuid.UUID, error) {

	originalBullets, err := json.Marshal(raw.Bullets)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal original bullets: %w", err)
	}
	bullets, err := json.Marshal(optimized.Bullets)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal bullets: %w", err)
	}
	keywords, err := json.Marshal(optimized.Keywords)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal keywords: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO optimizations (identifier, original_title, original_bullets, original_description,
		                            title, bullets, description, keywords, provider)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		identifier, raw.Title, originalBullets, raw.Description,
		optimized.Title, bullets, optimized.Description, keywords, provider,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record optimization: %w", err)
	}
	return id, nil
}

// GetOptimization retrieves one optimization by ID. Returns nil, nil when
// the record does not exist.
func (db *DB) GetOptimization(ctx context.Context, id uuid.UUID) (*Optimization, error) {
	var o Optimization
	var originalBullets, bullets, keywords []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, identifier, original_title, original_bullets, original_description,
		        title, bullets, description, keywords, provider, created_at
		 FROM optimizations WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.Identifier, &o.OriginalTitle, &originalBullets, &o.OriginalDescription,
		&o.Title, &bullets, &o.Description, &keywords, &o.Provider, &o.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get optimization: %w", err)
	}

	if originalBullets != nil {
		_ = json.Unmarshal(originalBullets, &o.OriginalBullets)
	}
	if bullets != nil {
		_ = json.Unmarshal(bullets, &o.Bullets)
	}
	if keywords != nil {
		_ = json.Unmarshal(keywords, &o.Keywords)
	}

	return &o, nil
}

// ListOptimizations retrieves recent optimizations with pagination, newest
// first, plus the total row count.
func (db *DB) ListOptimizations(ctx context.Context, limit, offset int) ([]Optimization, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM optimizations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count optimizations: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, identifier, original_title, original_bullets, original_description,
		        title, bullets, description, keywords, provider, created_at
		 FROM optimizations ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list optimizations: %w", err)
	}
	defer rows.Close()

	var optimizations []Optimization
	for rows.Next() {
		var o Optimization
		var originalBullets, bullets, keywords []byte
		if err := rows.Scan(&o.ID, &o.Identifier, &o.OriginalTitle, &originalBullets, &o.OriginalDescription,
			&o.Title, &bullets, &o.Description, &keywords, &o.Provider, &o.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan optimization: %w", err)
		}
		if originalBullets != nil {
			_ = json.Unmarshal(originalBullets, &o.OriginalBullets)
		}
		if bullets != nil {
			_ = json.Unmarshal(bullets, &o.Bullets)
		}
		if keywords != nil {
			_ = json.Unmarshal(keywords, &o.Keywords)
		}
		optimizations = append(optimizations, o)
	}
	return optimizations, total, nil
}

// DeleteOptimization removes one optimization record.
func (db *DB) DeleteOptimization(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM optimizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete optimization: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("optimization not found: %s", id)
	}
	return nil
}
