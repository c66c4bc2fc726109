package queue

import (
	"context"
	"testing"

	"strata/pkg/ontology"
	"strata/pkg/resolve"
	"strata/pkg/store"
	storefile "strata/pkg/store/file"
)

func newTestGraphStore(t *testing.T) *store.GraphStore {
	t.Helper()
	fs, err := storefile.NewMappingFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file storage: %v", err)
	}
	catalog, err := ontology.DefaultCatalog()
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return store.NewGraphStore(store.GraphStoreParams{
		Storage:  fs,
		Catalog:  catalog,
		Resolver: resolve.NewResolver(resolve.ResolverParams{}),
	})
}

func TestProcessRebuildMessage(t *testing.T) {
	gs := newTestGraphStore(t)

	msg := `{"reason":"classification_run","requested_by":"42"}`
	if err := ProcessRebuildMessage(context.Background(), nil, gs, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.Snapshot().Epoch != 1 {
		t.Fatalf("epoch = %d, want 1", gs.Snapshot().Epoch)
	}

	// Unknown reasons still rebuild; they are logged, not rejected.
	if err := ProcessRebuildMessage(context.Background(), nil, gs, `{"reason":"mystery"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.Snapshot().Epoch != 2 {
		t.Fatalf("epoch = %d, want 2", gs.Snapshot().Epoch)
	}
}

func TestProcessRebuildMessageBadJSON(t *testing.T) {
	gs := newTestGraphStore(t)

	if err := ProcessRebuildMessage(context.Background(), nil, gs, "{not json"); err == nil {
		t.Fatal("expected an error for malformed message")
	}
	if gs.Snapshot().Epoch != 0 {
		t.Fatal("malformed message must not trigger a rebuild")
	}
}
