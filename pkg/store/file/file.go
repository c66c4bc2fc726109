// Package file implements MappingStorage on JSON documents in a local
// directory. It exists for development and tests; production deployments use
// the pgx implementation.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"strata/pkg/common"
)

const (
	schemasFile  = "schemas.json"
	mappingsFile = "mappings.json"
	edgesFile    = "semantic_edges.json"
)

// MappingFileStorage stores each dataset as one JSON document under Dir.
// Writes go through a temp file and rename so a crash never leaves a
// truncated document behind.
type MappingFileStorage struct {
	dir string
	mu  sync.Mutex
}

// NewMappingFileStorage creates the directory if needed.
func NewMappingFileStorage(dir string) (*MappingFileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &MappingFileStorage{dir: dir}, nil
}

func (s *MappingFileStorage) write(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (s *MappingFileStorage) read(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

func (s *MappingFileStorage) SaveSchemas(_ context.Context, tables []common.SchemaTable) error {
	return s.write(schemasFile, tables)
}

func (s *MappingFileStorage) LoadSchemas(_ context.Context) ([]common.SchemaTable, error) {
	var tables []common.SchemaTable
	if err := s.read(schemasFile, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// SaveMappings merges into the stored document on (system, table, field),
// matching the upsert behavior of the database implementation.
func (s *MappingFileStorage) SaveMappings(ctx context.Context, mappings []common.Mapping) error {
	existing, err := s.LoadMappings(ctx)
	if err != nil {
		return err
	}

	index := make(map[string]int, len(existing))
	for i, m := range existing {
		index[mappingKey(m)] = i
	}
	for _, m := range mappings {
		if i, ok := index[mappingKey(m)]; ok {
			existing[i] = m
		} else {
			index[mappingKey(m)] = len(existing)
			existing = append(existing, m)
		}
	}
	return s.write(mappingsFile, existing)
}

func (s *MappingFileStorage) LoadMappings(_ context.Context) ([]common.Mapping, error) {
	var mappings []common.Mapping
	if err := s.read(mappingsFile, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (s *MappingFileStorage) SaveSemanticEdges(ctx context.Context, edges []common.SemanticEdge) error {
	existing, err := s.LoadSemanticEdges(ctx)
	if err != nil {
		return err
	}

	index := make(map[string]int, len(existing))
	for i, e := range existing {
		index[edgeKey(e)] = i
	}
	for _, e := range edges {
		if i, ok := index[edgeKey(e)]; ok {
			existing[i] = e
		} else {
			index[edgeKey(e)] = len(existing)
			existing = append(existing, e)
		}
	}
	return s.write(edgesFile, existing)
}

func (s *MappingFileStorage) LoadSemanticEdges(_ context.Context) ([]common.SemanticEdge, error) {
	var edges []common.SemanticEdge
	if err := s.read(edgesFile, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

func mappingKey(m common.Mapping) string {
	return m.SourceSystem + "|" + m.Table + "|" + m.Field
}

func edgeKey(e common.SemanticEdge) string {
	return e.SourceSystem + "|" + e.SourceObject + "|" + e.SourceField + "|" +
		e.TargetSystem + "|" + e.TargetObject + "|" + e.TargetField + "|" + e.EdgeType
}
