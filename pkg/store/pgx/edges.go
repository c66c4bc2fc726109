package pgx

import (
	"context"
	"fmt"

	"strata/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

// SaveSemanticEdges upserts cross-system correspondences on their endpoint
// pair, keeping the latest confidence for a correspondence that is re-extracted.
func (s *MappingDBStorage) SaveSemanticEdges(ctx context.Context, edges []common.SemanticEdge) error {
	if len(edges) == 0 {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin edge sync: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgxv5.Batch{}
	for _, e := range edges {
		batch.Queue(
			`INSERT INTO semantic_edges
			   (source_system, source_object, source_field,
			    target_system, target_object, target_field,
			    edge_type, confidence, fabric_plane, extraction_source, transformation)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 ON CONFLICT (source_system, source_object, source_field,
			              target_system, target_object, target_field, edge_type)
			 DO UPDATE SET
			   confidence = EXCLUDED.confidence,
			   fabric_plane = EXCLUDED.fabric_plane,
			   extraction_source = EXCLUDED.extraction_source,
			   transformation = EXCLUDED.transformation`,
			e.SourceSystem, e.SourceObject, e.SourceField,
			e.TargetSystem, e.TargetObject, e.TargetField,
			e.EdgeType, e.Confidence, e.FabricPlane, e.ExtractionSource, e.Transformation,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save semantic edges: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit edge sync: %w", err)
	}
	return nil
}

// LoadSemanticEdges returns all stored correspondences in insertion order so
// graph rebuilds see a stable edge sequence.
func (s *MappingDBStorage) LoadSemanticEdges(ctx context.Context) ([]common.SemanticEdge, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT source_system, source_object, source_field,
		        target_system, target_object, target_field,
		        edge_type, confidence, fabric_plane, extraction_source, transformation
		 FROM semantic_edges
		 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load semantic edges: %w", err)
	}
	defer rows.Close()

	var edges []common.SemanticEdge
	for rows.Next() {
		var e common.SemanticEdge
		if err := rows.Scan(
			&e.SourceSystem, &e.SourceObject, &e.SourceField,
			&e.TargetSystem, &e.TargetObject, &e.TargetField,
			&e.EdgeType, &e.Confidence, &e.FabricPlane, &e.ExtractionSource, &e.Transformation,
		); err != nil {
			return nil, fmt.Errorf("failed to scan semantic edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read semantic edge rows: %w", err)
	}
	return edges, nil
}
