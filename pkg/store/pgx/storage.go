package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	SendBatch(ctx context.Context, b *pgxv5.Batch) pgxv5.BatchResults
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// MappingDBStorage implements the MappingStorage interface on PostgreSQL.
// Bulk writes go through pgx batches inside a single transaction so a partial
// sync never leaves the tables half-updated.
type MappingDBStorage struct {
	conn pgxIConn
}

// NewMappingDBStorageWithConnection creates a MappingDBStorage using an
// existing database connection or pool.
func NewMappingDBStorageWithConnection(conn pgxIConn) *MappingDBStorage {
	return &MappingDBStorage{conn: conn}
}
