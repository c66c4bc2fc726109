package store

import (
	"context"

	"strata/pkg/common"
)

// MappingStorage defines the interface for persisting semantic-layer inputs
// and outputs: raw schema inventories, field-to-concept mappings, and
// cross-system semantic edges. Implementations back the graph rebuild; the
// in-memory graph itself is never persisted.
type MappingStorage interface {
	SaveSchemas(ctx context.Context, tables []common.SchemaTable) error
	LoadSchemas(ctx context.Context) ([]common.SchemaTable, error)

	// SaveMappings upserts on (source system, table, field); a field keeps
	// at most one stored classification.
	SaveMappings(ctx context.Context, mappings []common.Mapping) error
	LoadMappings(ctx context.Context) ([]common.Mapping, error)

	SaveSemanticEdges(ctx context.Context, edges []common.SemanticEdge) error
	LoadSemanticEdges(ctx context.Context) ([]common.SemanticEdge, error)
}
