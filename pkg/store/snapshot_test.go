package store

import (
	"context"
	"testing"

	"strata/pkg/common"
	"strata/pkg/ontology"
	"strata/pkg/resolve"
	storefile "strata/pkg/store/file"
)

func seededStorage(t *testing.T) MappingStorage {
	t.Helper()
	fs, err := storefile.NewMappingFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file storage: %v", err)
	}

	ctx := context.Background()
	if err := fs.SaveSchemas(ctx, []common.SchemaTable{
		{System: "netsuite", Table: "gl_entries", Fields: []string{"total_revenue", "posting_date"}},
		{System: "salesforce", Table: "opportunities", Fields: []string{"amount", "account_name"}},
	}); err != nil {
		t.Fatalf("failed to save schemas: %v", err)
	}
	if err := fs.SaveSemanticEdges(ctx, []common.SemanticEdge{
		{
			SourceSystem: "netsuite", SourceObject: "gl_entries", SourceField: "dept_id",
			TargetSystem: "workday", TargetObject: "orgs", TargetField: "org_id",
			EdgeType: "joins_on", Confidence: 0.88, FabricPlane: "ipaas",
		},
	}); err != nil {
		t.Fatalf("failed to save edges: %v", err)
	}
	return fs
}

func newTestGraphStore(t *testing.T, storage MappingStorage) *GraphStore {
	t.Helper()
	catalog, err := ontology.DefaultCatalog()
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return NewGraphStore(GraphStoreParams{
		Storage:  storage,
		Catalog:  catalog,
		Resolver: resolve.NewResolver(resolve.ResolverParams{}),
	})
}

func TestRebuildPopulatesGraphAndPersistsMappings(t *testing.T) {
	ctx := context.Background()
	storage := seededStorage(t)
	gs := newTestGraphStore(t, storage)

	before := gs.Snapshot()
	if before.Graph.Stats().Nodes != 0 {
		t.Fatal("expected an empty initial snapshot")
	}

	snap, err := gs.Rebuild(ctx)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if snap.Epoch != 1 {
		t.Fatalf("epoch = %d, want 1", snap.Epoch)
	}
	if snap.Graph.Stats().Nodes == 0 {
		t.Fatal("rebuilt graph is empty")
	}
	// The snapshot handed out before the rebuild is untouched.
	if before.Graph.Stats().Nodes != 0 {
		t.Fatal("rebuild mutated a previously handed-out snapshot")
	}

	srcs := snap.Graph.ConceptSources("revenue")
	if len(srcs) == 0 {
		t.Fatal("expected revenue sources after classification")
	}

	persisted, err := storage.LoadMappings(ctx)
	if err != nil {
		t.Fatalf("failed to load mappings: %v", err)
	}
	if len(persisted) == 0 {
		t.Fatal("rebuild did not persist classifier output")
	}
}

func TestRebuildInvalidatesResolveCache(t *testing.T) {
	ctx := context.Background()
	gs := newTestGraphStore(t, seededStorage(t))
	if _, err := gs.Rebuild(ctx); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	intent := resolve.QueryIntent{Concepts: []string{"revenue"}}
	first := gs.Resolver().Resolve(gs.Graph(), intent)
	again := gs.Resolver().Resolve(gs.Graph(), intent)
	if first.TraceID != again.TraceID {
		t.Fatal("expected a cache hit between rebuilds")
	}

	if _, err := gs.Rebuild(ctx); err != nil {
		t.Fatalf("second rebuild failed: %v", err)
	}
	fresh := gs.Resolver().Resolve(gs.Graph(), intent)
	if fresh.TraceID == first.TraceID {
		t.Fatal("expected the cache to be dropped on rebuild")
	}
}
