package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"strata/pkg/classify"
	"strata/pkg/common"
	"strata/pkg/logger"
	"strata/pkg/ontology"
	"strata/pkg/resolve"
	"strata/pkg/semgraph"
	"strata/pkg/source"
)

// Snapshot is one immutable build of the semantic graph. Readers hold a
// snapshot for the duration of a request; a concurrent rebuild swaps in a new
// one without touching graphs already handed out.
type Snapshot struct {
	Graph   *semgraph.Graph
	BuiltAt time.Time
	Epoch   int64
}

// ContourMapFetcher returns the approved contour map, or nil when none is
// available yet.
type ContourMapFetcher func(ctx context.Context) (*ontology.ContourMap, error)

// GraphStoreParams contains the collaborators a GraphStore builds from.
type GraphStoreParams struct {
	Storage    MappingStorage
	Catalog    *ontology.Catalog
	Normalizer *source.Normalizer
	Resolver   *resolve.Resolver
	ContourMap ContourMapFetcher

	// EdgeThreshold overrides the classifier default when > 0.
	EdgeThreshold float64
}

// GraphStore owns the current graph snapshot and rebuilds it from storage.
// Rebuilds are serialized; the swap itself is a single atomic pointer store,
// so resolution never observes a half-built graph.
type GraphStore struct {
	storage    MappingStorage
	catalog    *ontology.Catalog
	normalizer *source.Normalizer
	resolver   *resolve.Resolver
	contourMap ContourMapFetcher
	threshold  float64

	snap      atomic.Pointer[Snapshot]
	epoch     atomic.Int64
	rebuildMu sync.Mutex
}

// NewGraphStore creates a store holding an empty snapshot. Call Rebuild to
// populate it.
func NewGraphStore(params GraphStoreParams) *GraphStore {
	gs := &GraphStore{
		storage:    params.Storage,
		catalog:    params.Catalog,
		normalizer: params.Normalizer,
		resolver:   params.Resolver,
		contourMap: params.ContourMap,
		threshold:  params.EdgeThreshold,
	}
	gs.snap.Store(&Snapshot{Graph: semgraph.New(), BuiltAt: time.Now()})
	return gs
}

// Snapshot returns the current graph snapshot.
func (gs *GraphStore) Snapshot() *Snapshot {
	return gs.snap.Load()
}

// Graph returns the current graph.
func (gs *GraphStore) Graph() *semgraph.Graph {
	return gs.snap.Load().Graph
}

// Resolver returns the resolver bound to this store's cache lifecycle.
func (gs *GraphStore) Resolver() *resolve.Resolver {
	return gs.resolver
}

// Rebuild loads schemas and semantic edges from storage, re-classifies every
// field, assembles a fresh graph, and atomically swaps it in. The resolve
// cache is invalidated wholesale after the swap so no cached answer outlives
// the graph it was computed against.
func (gs *GraphStore) Rebuild(ctx context.Context) (*Snapshot, error) {
	gs.rebuildMu.Lock()
	defer gs.rebuildMu.Unlock()

	start := time.Now()

	edges, err := gs.storage.LoadSemanticEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load semantic edges: %w", err)
	}
	schemas, err := gs.storage.LoadSchemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}

	gs.normalizeSystems(ctx, schemas, edges)

	classifier := classify.NewClassifier(classify.ClassifierParams{
		Catalog:       gs.catalog,
		Edges:         classify.NewEdgeIndex(edges),
		EdgeThreshold: gs.threshold,
	})
	mappings, err := classifier.ClassifySchemas(ctx, schemas)
	if err != nil {
		return nil, fmt.Errorf("failed to classify schemas: %w", err)
	}
	if err := gs.storage.SaveMappings(ctx, mappings); err != nil {
		return nil, fmt.Errorf("failed to persist mappings: %w", err)
	}

	var cm *ontology.ContourMap
	if gs.contourMap != nil {
		cm, err = gs.contourMap(ctx)
		if err != nil {
			// A missing contour map degrades the graph, it must not block
			// classification-driven rebuilds.
			logger.Warn("[GraphStore] Rebuilding without contour map", "err", err)
			cm = nil
		}
	}

	g := semgraph.New()
	g.LoadMappings(mappings)
	g.LoadSemanticEdges(edges)
	g.LoadPairings(gs.catalog.Pairings())
	g.LoadContourMap(cm)

	snap := &Snapshot{
		Graph:   g,
		BuiltAt: time.Now(),
		Epoch:   gs.epoch.Add(1),
	}
	gs.snap.Store(snap)
	if gs.resolver != nil {
		gs.resolver.InvalidateCache()
	}

	stats := g.Stats()
	logger.Info("[GraphStore] Rebuilt graph",
		"epoch", snap.Epoch,
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"mappings", len(mappings),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return snap, nil
}

// normalizeSystems rewrites raw system identifiers in place to canonical ids
// so the graph keys systems consistently regardless of how integrations
// spell them.
func (gs *GraphStore) normalizeSystems(ctx context.Context, schemas []common.SchemaTable, edges []common.SemanticEdge) {
	if gs.normalizer == nil {
		return
	}
	canon := func(raw string) string {
		return gs.normalizer.Normalize(ctx, raw).Source.ID
	}
	for i := range schemas {
		schemas[i].System = canon(schemas[i].System)
	}
	for i := range edges {
		edges[i].SourceSystem = canon(edges[i].SourceSystem)
		edges[i].TargetSystem = canon(edges[i].TargetSystem)
	}
}
