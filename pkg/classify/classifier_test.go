package classify

import (
	"context"
	"testing"

	"strata/pkg/common"
	"strata/pkg/ontology"
)

func testCatalog(t *testing.T) *ontology.Catalog {
	t.Helper()
	cat, err := ontology.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog failed: %v", err)
	}
	return cat
}

func TestEdgeIndexBidirectionalLookup(t *testing.T) {
	edges := []common.SemanticEdge{
		{
			SourceSystem: "netsuite", SourceObject: "gl_entries", SourceField: "revenue_amount",
			TargetSystem: "salesforce", TargetObject: "opportunities", TargetField: "amount",
			EdgeType: "derives_from", Confidence: 0.80, FabricPlane: "ipaas",
		},
		{
			SourceSystem: "workday", SourceObject: "orgs", SourceField: "division_code",
			TargetSystem: "salesforce", TargetObject: "opportunities", TargetField: "amount",
			EdgeType: "joins_on", Confidence: 0.95, FabricPlane: "event_bus",
		},
	}
	idx := NewEdgeIndex(edges)

	// Target-side lookup must see both edges and pick the stronger one.
	match, ok := idx.Lookup("Salesforce", "Opportunities", "Amount")
	if !ok {
		t.Fatal("expected a match via target direction")
	}
	if match.Edge.Confidence != 0.95 {
		t.Fatalf("expected highest-confidence edge, got %v", match.Edge.Confidence)
	}
	if match.Counterpart.System != "workday" || match.Counterpart.Field != "division_code" {
		t.Fatalf("unexpected counterpart: %+v", match.Counterpart)
	}

	// Source-side lookup.
	match, ok = idx.Lookup("netsuite", "gl_entries", "revenue_amount")
	if !ok {
		t.Fatal("expected a match via source direction")
	}
	if match.Counterpart.System != "salesforce" {
		t.Fatalf("unexpected counterpart: %+v", match.Counterpart)
	}

	if _, ok := idx.Lookup("netsuite", "gl_entries", "memo"); ok {
		t.Fatal("expected no match for unindexed field")
	}
}

func TestEdgeTierBeatsPatternAboveThreshold(t *testing.T) {
	cat := testCatalog(t)
	edge := common.SemanticEdge{
		SourceSystem: "netsuite", SourceObject: "fin_entries", SourceField: "net_revenue",
		TargetSystem: "salesforce", TargetObject: "opportunities", TargetField: "total_revenue",
		EdgeType: "same_metric", Confidence: 0.95, FabricPlane: "ipaas",
	}

	c := NewClassifier(ClassifierParams{Catalog: cat, Edges: NewEdgeIndex([]common.SemanticEdge{edge})})

	m, ok := c.ClassifyField("netsuite", "fin_entries", "net_revenue")
	if !ok {
		t.Fatal("expected a classification")
	}
	if m.Method != common.MethodAAMEdge {
		t.Fatalf("expected aam_edge method, got %q", m.Method)
	}
	if m.Confidence != 0.95 {
		t.Fatalf("expected edge confidence, got %v", m.Confidence)
	}
	if m.Concept != "revenue" {
		t.Fatalf("expected revenue concept, got %q", m.Concept)
	}
	if m.Meta["mapped_system"] != "salesforce" || m.Meta["mapped_field"] != "total_revenue" {
		t.Fatalf("missing cross-system metadata: %+v", m.Meta)
	}
}

func TestPatternTierWinsBelowEdgeThreshold(t *testing.T) {
	cat := testCatalog(t)
	edge := common.SemanticEdge{
		SourceSystem: "netsuite", SourceObject: "fin_entries", SourceField: "net_revenue",
		TargetSystem: "salesforce", TargetObject: "opportunities", TargetField: "total_revenue",
		EdgeType: "same_metric", Confidence: 0.60, FabricPlane: "ipaas",
	}

	c := NewClassifier(ClassifierParams{Catalog: cat, Edges: NewEdgeIndex([]common.SemanticEdge{edge})})

	m, ok := c.ClassifyField("netsuite", "fin_entries", "net_revenue")
	if !ok {
		t.Fatal("expected a classification")
	}
	if m.Method != common.MethodHeuristic {
		t.Fatalf("expected heuristic method below edge threshold, got %q", m.Method)
	}
	if m.Confidence != 0.95 {
		t.Fatalf("expected pattern confidence 0.95, got %v", m.Confidence)
	}
	if m.Concept != "revenue" {
		t.Fatalf("expected revenue concept, got %q", m.Concept)
	}
}

func TestNegativePatternBlocksGenericAccount(t *testing.T) {
	cat := testCatalog(t)
	c := NewClassifier(ClassifierParams{Catalog: cat})

	m, ok := c.ClassifyField("netsuite", "gl_entries", "gl_account_id")
	if !ok {
		t.Fatal("expected a classification")
	}
	if m.Concept == "account" {
		t.Fatal("gl-prefixed field must never classify as the generic account concept")
	}
	if m.Concept != "gl_account" {
		t.Fatalf("expected gl_account concept, got %q", m.Concept)
	}
}

func TestSimilarityTier(t *testing.T) {
	cat := testCatalog(t)
	c := NewClassifier(ClassifierParams{Catalog: cat})

	tests := []struct {
		name        string
		table       string
		field       string
		wantConcept string
		wantConf    float64
	}{
		// Exact example match.
		{"ExampleExact", "metrics", "arr", "revenue", 0.95},
		// Concept id inside the field name, financial table adds the boost.
		{"ConceptIDBoosted", "billing_facts", "netrevenue_total", "revenue", 0.85},
		// Alias substring, no boost outside financial context.
		{"AliasSubstring", "dim_customers", "subscriber_key", "customer", 0.70},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := c.ClassifyField("warehouse", tc.table, tc.field)
			if !ok {
				t.Fatalf("expected a classification for %q", tc.field)
			}
			if m.Concept != tc.wantConcept {
				t.Fatalf("concept = %q, want %q", m.Concept, tc.wantConcept)
			}
			if m.Confidence != tc.wantConf {
				t.Fatalf("confidence = %v, want %v", m.Confidence, tc.wantConf)
			}
		})
	}
}

func TestHintTierFallback(t *testing.T) {
	cat := testCatalog(t)
	c := NewClassifier(ClassifierParams{Catalog: cat})

	m, ok := c.ClassifyField("netsuite", "journal_lines", "posted_amount")
	if !ok {
		t.Fatal("expected hint-tier classification for amount field in financial table")
	}
	if m.Concept != "revenue" || m.Confidence != hintConfidence {
		t.Fatalf("unexpected hint mapping: %+v", m)
	}

	m, ok = c.ClassifyField("netsuite", "journal_lines", "debit_amount")
	if !ok {
		t.Fatal("expected hint-tier classification")
	}
	if m.Concept != "cost" {
		t.Fatalf("debit amount should lean cost, got %q", m.Concept)
	}

	// Outside financial context the amount hint does not fire.
	if _, ok := c.ClassifyField("warehouse", "shipments", "posted_amount"); ok {
		t.Fatal("amount hint must not fire outside financial context")
	}
}

func TestUnclassifiableFieldEmitsNothing(t *testing.T) {
	cat := testCatalog(t)
	c := NewClassifier(ClassifierParams{Catalog: cat})

	if m, ok := c.ClassifyField("warehouse", "shipments", "zz_flag_7"); ok {
		t.Fatalf("expected no mapping, got %+v", m)
	}
}

func TestClassifySchemas(t *testing.T) {
	cat := testCatalog(t)
	c := NewClassifier(ClassifierParams{Catalog: cat})

	tables := []common.SchemaTable{
		{System: "netsuite", Table: "gl_entries", Fields: []string{"gl_account_id", "posted_amount", "zz_flag_7"}},
		{System: "salesforce", Table: "opportunities", Fields: []string{"customer_id", "total_revenue"}},
	}

	mappings, err := c.ClassifySchemas(context.Background(), tables)
	if err != nil {
		t.Fatalf("ClassifySchemas failed: %v", err)
	}

	// zz_flag_7 stays unclassified; everything else maps.
	if len(mappings) != 4 {
		t.Fatalf("expected 4 mappings, got %d: %+v", len(mappings), mappings)
	}
	for _, m := range mappings {
		if m.Concept == "" || m.Confidence <= 0 || m.Confidence > 1 {
			t.Fatalf("invalid mapping: %+v", m)
		}
	}
}

func TestTableContext(t *testing.T) {
	tests := []struct {
		table string
		want  TableContext
	}{
		{"gl_entries", ContextFinancial},
		{"invoice_lines", ContextFinancial},
		{"crm_contacts", ContextCRM},
		{"opportunities", ContextCRM},
		{"host_inventory", ContextInfrastructure},
		{"shipments", ContextGeneral},
	}
	for _, tc := range tests {
		t.Run(tc.table, func(t *testing.T) {
			if got := tableContext(tc.table); got != tc.want {
				t.Fatalf("tableContext(%q) = %q, want %q", tc.table, got, tc.want)
			}
		})
	}
}
