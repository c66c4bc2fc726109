package pgx

import (
	"context"
	"encoding/json"
	"fmt"

	"strata/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

// SaveMappings upserts classifier output. The conflict target mirrors the
// one-classification-per-field rule the in-memory graph enforces.
func (s *MappingDBStorage) SaveMappings(ctx context.Context, mappings []common.Mapping) error {
	if len(mappings) == 0 {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin mapping sync: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgxv5.Batch{}
	for _, m := range mappings {
		meta, err := json.Marshal(m.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal mapping meta: %w", err)
		}
		batch.Queue(
			`INSERT INTO mappings
			   (source_system, table_name, field_name, concept, confidence, method, meta, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			 ON CONFLICT (source_system, table_name, field_name) DO UPDATE SET
			   concept = EXCLUDED.concept,
			   confidence = EXCLUDED.confidence,
			   method = EXCLUDED.method,
			   meta = EXCLUDED.meta,
			   updated_at = now()`,
			m.SourceSystem, m.Table, m.Field, m.Concept, m.Confidence, string(m.Method), meta,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save mappings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit mapping sync: %w", err)
	}
	return nil
}

// LoadMappings returns all stored field classifications.
func (s *MappingDBStorage) LoadMappings(ctx context.Context) ([]common.Mapping, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT source_system, table_name, field_name, concept, confidence, method, meta
		 FROM mappings
		 ORDER BY source_system, table_name, field_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}
	defer rows.Close()

	var mappings []common.Mapping
	for rows.Next() {
		var m common.Mapping
		var method string
		var meta []byte
		if err := rows.Scan(&m.SourceSystem, &m.Table, &m.Field, &m.Concept, &m.Confidence, &method, &meta); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		m.Method = common.MappingMethod(method)
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &m.Meta); err != nil {
				return nil, fmt.Errorf("failed to unmarshal mapping meta: %w", err)
			}
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mapping rows: %w", err)
	}
	return mappings, nil
}
