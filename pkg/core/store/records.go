package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"edinet_insights/pkg/core/processors"
)

// DisclosureRepo stores processed filings and their analyses.
type DisclosureRepo struct {
	pool *pgxpool.Pool
}

// NewDisclosureRepo wraps an open pool.
func NewDisclosureRepo(pool *pgxpool.Pool) *DisclosureRepo {
	return &DisclosureRepo{pool: pool}
}

// Save upserts one processed filing keyed by document ID. A single JSONB blob
// keeps the schema flexible while the record shape is still evolving.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS disclosures (
//	  doc_id TEXT PRIMARY KEY,
//	  doc_type_code TEXT,
//	  run_id UUID,
//	  record_json JSONB,
//	  analyses_json JSONB,
//	  updated_at TIMESTAMPTZ
//	);
func (r *DisclosureRepo) Save(ctx context.Context, runID uuid.UUID, rec *processors.StructuredDocumentRecord, analyses map[string]string) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshaling record %s: %w", rec.DocID, err)
	}
	analysesJSON, err := json.Marshal(analyses)
	if err != nil {
		return fmt.Errorf("store: marshaling analyses for %s: %w", rec.DocID, err)
	}

	query := `
		INSERT INTO disclosures (doc_id, doc_type_code, run_id, record_json, analyses_json, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (doc_id)
		DO UPDATE SET
			doc_type_code = EXCLUDED.doc_type_code,
			run_id = EXCLUDED.run_id,
			record_json = EXCLUDED.record_json,
			analyses_json = EXCLUDED.analyses_json,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.pool.Exec(ctx, query, rec.DocID, rec.DocTypeCode, runID, recordJSON, analysesJSON, time.Now()); err != nil {
		return fmt.Errorf("store: saving disclosure %s: %w", rec.DocID, err)
	}
	return nil
}

// Load retrieves one processed filing and its analyses by document ID.
func (r *DisclosureRepo) Load(ctx context.Context, docID string) (*processors.StructuredDocumentRecord, map[string]string, error) {
	query := `SELECT record_json, analyses_json FROM disclosures WHERE doc_id = $1;`

	var recordJSON, analysesJSON []byte
	if err := r.pool.QueryRow(ctx, query, docID).Scan(&recordJSON, &analysesJSON); err != nil {
		return nil, nil, fmt.Errorf("store: loading disclosure %s: %w", docID, err)
	}

	var rec processors.StructuredDocumentRecord
	if err := json.Unmarshal(recordJSON, &rec); err != nil {
		return nil, nil, fmt.Errorf("store: decoding record %s: %w", docID, err)
	}
	analyses := map[string]string{}
	if len(analysesJSON) > 0 {
		if err := json.Unmarshal(analysesJSON, &analyses); err != nil {
			return nil, nil, fmt.Errorf("store: decoding analyses %s: %w", docID, err)
		}
	}
	return &rec, analyses, nil
}
