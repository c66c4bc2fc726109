package pgx

import (
	"context"
	"fmt"

	"strata/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

// SaveSchemas replaces the stored field inventory for each table present in
// the input. Tables absent from the input are left untouched.
func (s *MappingDBStorage) SaveSchemas(ctx context.Context, tables []common.SchemaTable) error {
	if len(tables) == 0 {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin schema sync: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgxv5.Batch{}
	for _, t := range tables {
		batch.Queue(
			`DELETE FROM schema_fields WHERE source_system = $1 AND table_name = $2`,
			t.System, t.Table,
		)
		for _, field := range t.Fields {
			batch.Queue(
				`INSERT INTO schema_fields (source_system, table_name, field_name)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (source_system, table_name, field_name) DO NOTHING`,
				t.System, t.Table, field,
			)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save schemas: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schema sync: %w", err)
	}
	return nil
}

// LoadSchemas returns the full field inventory grouped by system and table,
// ordered for deterministic classification runs.
func (s *MappingDBStorage) LoadSchemas(ctx context.Context) ([]common.SchemaTable, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT source_system, table_name, field_name
		 FROM schema_fields
		 ORDER BY source_system, table_name, field_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	defer rows.Close()

	var tables []common.SchemaTable
	var current *common.SchemaTable
	for rows.Next() {
		var system, table, field string
		if err := rows.Scan(&system, &table, &field); err != nil {
			return nil, fmt.Errorf("failed to scan schema field: %w", err)
		}
		if current == nil || current.System != system || current.Table != table {
			tables = append(tables, common.SchemaTable{System: system, Table: table})
			current = &tables[len(tables)-1]
		}
		current.Fields = append(current.Fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema rows: %w", err)
	}
	return tables, nil
}
