package resolve

import (
	"math"
	"strings"
	"testing"

	"strata/pkg/common"
	"strata/pkg/ontology"
	"strata/pkg/semgraph"
)

// scenarioGraph builds the canonical cross-system setup: revenue classified
// in netsuite and salesforce, division owned by workday, a single join edge
// from netsuite to workday, and a "Cloud" management overlay.
func scenarioGraph() *semgraph.Graph {
	g := semgraph.New()
	g.LoadMappings([]common.Mapping{
		{
			SourceSystem: "netsuite", Table: "gl_entries", Field: "total_revenue",
			Concept: "revenue", Confidence: 0.95, Method: common.MethodHeuristic,
		},
		{
			SourceSystem: "salesforce", Table: "opportunities", Field: "amount",
			Concept: "revenue", Confidence: 0.92, Method: common.MethodHeuristic,
		},
	})
	g.LoadPairings(map[string][]string{
		"revenue": {"division", "region"},
	})
	g.LoadSemanticEdges([]common.SemanticEdge{
		{
			SourceSystem: "netsuite", SourceObject: "gl_entries", SourceField: "dept_id",
			TargetSystem: "workday", TargetObject: "orgs", TargetField: "org_id",
			EdgeType: "joins_on", Confidence: 0.88, FabricPlane: "ipaas",
		},
	})
	g.LoadContourMap(&ontology.ContourMap{
		Hierarchy: map[string][]ontology.HierarchyNode{
			"division": {
				{
					Name: "Technology",
					Children: []ontology.HierarchyNode{
						{Name: "Cloud East"},
						{Name: "Cloud West"},
					},
				},
			},
		},
		SORAuthority: map[string]ontology.Authority{
			"division": {System: "workday", Confidence: 0.9},
		},
		ManagementOverlay: []ontology.OverlayGroup{
			{BoardSegment: "Cloud", MapsTo: []string{"Cloud East", "Cloud West"}},
		},
	})
	return g
}

func newTestResolver() *Resolver {
	return NewResolver(ResolverParams{})
}

func TestResolveEndToEnd(t *testing.T) {
	g := scenarioGraph()
	r := newTestResolver()

	res := r.Resolve(g, QueryIntent{
		Concepts:   []string{"revenue"},
		Dimensions: []string{"division"},
		Filters:    []FilterClause{{Dimension: "division", Value: "Cloud"}},
	})

	if !res.CanAnswer {
		t.Fatalf("expected can_answer=true, got reason %q: %s", res.ReasonCode, res.Reason)
	}
	if res.TraceID == "" {
		t.Fatal("expected a trace id")
	}

	srcs := res.ConceptSources["revenue"]
	if len(srcs) != 2 || srcs[0].System != "netsuite" {
		t.Fatalf("unexpected revenue sources: %+v", srcs)
	}

	auth := res.DimensionAuthorities["division"]
	if auth.System != "workday" || auth.Confidence != 0.9 {
		t.Fatalf("unexpected division authority: %+v", auth)
	}

	if len(res.JoinPaths) != 1 || len(res.JoinPaths[0].Hops) != 1 {
		t.Fatalf("expected one single-hop join path, got %+v", res.JoinPaths)
	}
	hop := res.JoinPaths[0].Hops[0]
	if hop.FromSystem != "netsuite" || hop.ToSystem != "workday" || hop.JoinKey != "dept_id" {
		t.Fatalf("unexpected hop: %+v", hop)
	}

	if len(res.ResolvedFilters) != 1 {
		t.Fatalf("expected one resolved filter, got %+v", res.ResolvedFilters)
	}
	f := res.ResolvedFilters[0]
	if f.Mechanism != semgraph.FilterMechanismOverlay || len(f.Resolved) != 2 {
		t.Fatalf("expected overlay expansion to 2 values, got %+v", f)
	}

	// 0.4×0.95 + 0.3×0.935 + 0.2×0.85 + 0.1×1.0
	wantOverall := 0.9305
	if math.Abs(res.Confidence.Overall-wantOverall) > 1e-6 {
		t.Fatalf("overall confidence %v, want %v (breakdown %+v)",
			res.Confidence.Overall, wantOverall, res.Confidence)
	}
	if res.Confidence.WeakestLink == nil || res.Confidence.WeakestLink.Confidence != 0.88 {
		t.Fatalf("expected the join hop as weakest link, got %+v", res.Confidence.WeakestLink)
	}

	if res.Hint == nil || res.Hint.PrimarySystem != "netsuite" {
		t.Fatalf("unexpected hint: %+v", res.Hint)
	}
	if len(res.Hint.Tables) != 1 || res.Hint.Tables[0] != "gl_entries" {
		t.Fatalf("unexpected hint tables: %v", res.Hint.Tables)
	}
	if len(res.Hint.JoinKeys) != 1 || res.Hint.JoinKeys[0] != "dept_id" {
		t.Fatalf("unexpected join keys: %v", res.Hint.JoinKeys)
	}
	if got := res.Hint.Filters["division"]; len(got) != 2 {
		t.Fatalf("unexpected hint filters: %v", res.Hint.Filters)
	}

	if res.Provenance == "" || !strings.Contains(res.Provenance, "netsuite") {
		t.Fatalf("expected a provenance narrative mentioning netsuite, got %q", res.Provenance)
	}
}

func TestResolveUnknownConcept(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(scenarioGraph(), QueryIntent{Concepts: []string{"florbatz"}})

	if res.CanAnswer {
		t.Fatal("expected can_answer=false")
	}
	if res.ReasonCode != ReasonConceptNotRecognized {
		t.Fatalf("reason code %q, want %q", res.ReasonCode, ReasonConceptNotRecognized)
	}
	if !strings.Contains(res.Reason, "not recognized") {
		t.Fatalf("reason %q should mention the concept was not recognized", res.Reason)
	}
}

func TestResolveEmptyGraph(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(semgraph.New(), QueryIntent{Concepts: []string{"revenue"}})

	if res.CanAnswer {
		t.Fatal("expected can_answer=false on an empty graph")
	}
	if res.ReasonCode != ReasonConceptNotRecognized {
		t.Fatalf("unexpected reason code %q", res.ReasonCode)
	}
}

func TestResolveConceptWithoutSources(t *testing.T) {
	g := semgraph.New()
	g.LoadPairings(map[string][]string{"revenue": {"division"}})

	r := newTestResolver()
	res := r.Resolve(g, QueryIntent{Concepts: []string{"revenue"}})

	if res.CanAnswer {
		t.Fatal("expected can_answer=false")
	}
	if res.ReasonCode != ReasonNoSources {
		t.Fatalf("reason code %q, want %q", res.ReasonCode, ReasonNoSources)
	}
}

func TestResolvePartialDimensionValidity(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(scenarioGraph(), QueryIntent{
		Concepts:   []string{"revenue"},
		Dimensions: []string{"division", "flavor"},
	})

	if !res.CanAnswer {
		t.Fatalf("expected resolution to proceed on the valid subset: %s", res.Reason)
	}
	if _, ok := res.DimensionAuthorities["flavor"]; ok {
		t.Fatal("invalid dimension must not acquire an authority")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "flavor") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a warning about the dropped dimension, got %v", res.Warnings)
	}
	if math.Abs(res.Confidence.DimensionCoverage-0.5) > 1e-9 {
		t.Fatalf("coverage %v, want 0.5", res.Confidence.DimensionCoverage)
	}
}

func TestResolveNoValidDimensions(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(scenarioGraph(), QueryIntent{
		Concepts:   []string{"revenue"},
		Dimensions: []string{"flavor"},
	})

	if res.CanAnswer {
		t.Fatal("expected can_answer=false")
	}
	if res.ReasonCode != ReasonNoValidDimensions {
		t.Fatalf("reason code %q, want %q", res.ReasonCode, ReasonNoValidDimensions)
	}
}

func TestResolveNoJoinPathFailsClosed(t *testing.T) {
	// Same setup but without the netsuite→workday correspondence: division's
	// system of record is unreachable.
	g := semgraph.New()
	g.LoadMappings([]common.Mapping{
		{
			SourceSystem: "netsuite", Table: "gl_entries", Field: "total_revenue",
			Concept: "revenue", Confidence: 0.95, Method: common.MethodHeuristic,
		},
	})
	g.LoadPairings(map[string][]string{"revenue": {"division"}})
	g.LoadContourMap(&ontology.ContourMap{
		SORAuthority: map[string]ontology.Authority{
			"division": {System: "workday", Confidence: 0.9},
		},
	})

	r := newTestResolver()
	res := r.Resolve(g, QueryIntent{
		Concepts:   []string{"revenue"},
		Dimensions: []string{"division"},
	})

	if res.CanAnswer {
		t.Fatal("expected can_answer=false when the system of record is unreachable")
	}
	if res.ReasonCode != ReasonNoJoinPath {
		t.Fatalf("reason code %q, want %q", res.ReasonCode, ReasonNoJoinPath)
	}
}

func TestResolveSameSystemAuthorityNeedsNoJoin(t *testing.T) {
	g := semgraph.New()
	g.LoadMappings([]common.Mapping{
		{
			SourceSystem: "workday", Table: "comp", Field: "salary_total",
			Concept: "cost", Confidence: 0.9, Method: common.MethodHeuristic,
		},
	})
	g.LoadPairings(map[string][]string{"cost": {"division"}})
	g.LoadContourMap(&ontology.ContourMap{
		SORAuthority: map[string]ontology.Authority{
			"division": {System: "workday", Confidence: 0.9},
		},
	})

	r := newTestResolver()
	res := r.Resolve(g, QueryIntent{
		Concepts:   []string{"cost"},
		Dimensions: []string{"division"},
	})

	if !res.CanAnswer {
		t.Fatalf("expected can_answer=true: %s", res.Reason)
	}
	if len(res.JoinPaths) != 0 {
		t.Fatalf("no join needed when source and authority coincide, got %+v", res.JoinPaths)
	}
	if res.Confidence.JoinPenalty != 1.0 {
		t.Fatalf("join penalty %v, want 1.0", res.Confidence.JoinPenalty)
	}
}

func TestResolveMissingAuthorityWarns(t *testing.T) {
	g := semgraph.New()
	g.LoadMappings([]common.Mapping{
		{
			SourceSystem: "netsuite", Table: "gl_entries", Field: "total_revenue",
			Concept: "revenue", Confidence: 0.95, Method: common.MethodHeuristic,
		},
	})
	g.LoadPairings(map[string][]string{"revenue": {"region"}})

	r := newTestResolver()
	res := r.Resolve(g, QueryIntent{
		Concepts:   []string{"revenue"},
		Dimensions: []string{"region"},
	})

	if !res.CanAnswer {
		t.Fatalf("missing authority degrades, it must not fail: %s", res.Reason)
	}
	if res.DimensionAuthorities["region"] != UnknownAuthority {
		t.Fatalf("unexpected authority: %+v", res.DimensionAuthorities["region"])
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a warning about the missing system of record")
	}
}

func TestResolveCacheStalenessAndInvalidation(t *testing.T) {
	r := newTestResolver()
	intent := QueryIntent{Concepts: []string{"revenue"}}

	first := r.Resolve(scenarioGraph(), intent)
	if !first.CanAnswer {
		t.Fatalf("expected first resolution to answer: %s", first.Reason)
	}

	// Same fingerprint against an empty graph still returns the cached
	// answer until the cache is invalidated.
	cached := r.Resolve(semgraph.New(), intent)
	if cached.TraceID != first.TraceID {
		t.Fatal("expected a cache hit for an identical intent")
	}

	r.InvalidateCache()
	fresh := r.Resolve(semgraph.New(), intent)
	if fresh.CanAnswer {
		t.Fatal("expected recomputation after invalidation")
	}
}

func TestFingerprintCanonical(t *testing.T) {
	a := QueryIntent{
		Concepts:   []string{"Revenue", "cost"},
		Dimensions: []string{"region", "Division"},
		Filters:    []FilterClause{{Dimension: "division", Value: "Cloud"}},
	}
	b := QueryIntent{
		Concepts:   []string{"cost", "revenue"},
		Dimensions: []string{"division", "REGION"},
		Filters:    []FilterClause{{Dimension: "Division", Operator: "eq", Value: "cloud"}},
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equivalent intents must share a fingerprint:\n%s\n%s",
			a.Fingerprint(), b.Fingerprint())
	}

	c := QueryIntent{Concepts: []string{"revenue"}}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("different intents must not collide")
	}
}
