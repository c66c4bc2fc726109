package ontology

import (
	"testing"
)

func TestCatalogLexicographicOrder(t *testing.T) {
	cat, err := NewCatalog([]Concept{
		{ID: "revenue"},
		{ID: "account"},
		{ID: "cost"},
	}, nil)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	var got []string
	for _, c := range cat.Concepts() {
		got = append(got, c.ID)
	}
	want := []string{"account", "cost", "revenue"}
	if len(got) != len(want) {
		t.Fatalf("unexpected concept count: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order at %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCatalogInvalidPattern(t *testing.T) {
	_, err := NewCatalog([]Concept{
		{ID: "broken", Patterns: []string{"("}},
	}, nil)
	if err == nil {
		t.Fatal("expected error for invalid pattern, got nil")
	}
}

func TestConceptNegativePatternBlocks(t *testing.T) {
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog failed: %v", err)
	}
	account := cat.Concept("account")
	if account == nil {
		t.Fatal("default catalog has no account concept")
	}

	tests := []struct {
		name    string
		field   string
		matches bool
		blocked bool
	}{
		{"PlainAccountID", "account_id", true, false},
		{"GLPrefixed", "gl_account_id", true, true},
		{"LedgerField", "ledger_account_code", true, true},
		{"Unrelated", "shipment_date", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := account.MatchesPattern(tc.field); got != tc.matches {
				t.Fatalf("MatchesPattern(%q) = %v, want %v", tc.field, got, tc.matches)
			}
			if got := account.Blocked(tc.field); got != tc.blocked {
				t.Fatalf("Blocked(%q) = %v, want %v", tc.field, got, tc.blocked)
			}
		})
	}
}

func TestDimensionsFor(t *testing.T) {
	cat, err := NewCatalog(
		[]Concept{{ID: "revenue"}},
		map[string][]string{"revenue": {"region", "division"}},
	)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	dims := cat.DimensionsFor("revenue")
	if len(dims) != 2 || dims[0] != "region" || dims[1] != "division" {
		t.Fatalf("unexpected dimensions: %v", dims)
	}
	if got := cat.DimensionsFor("unknown"); got != nil {
		t.Fatalf("expected nil dimensions for unknown concept, got %v", got)
	}
}

func TestParseContourMapRepairsSloppyJSON(t *testing.T) {
	// Trailing comma and single quotes, typical of a hand-edited overlay file.
	data := []byte(`{
		'hierarchy': {'division': [{'name': 'Cloud', 'id': 'div:cloud', 'children': []},]},
		'sor_authority': {'division': {'system': 'workday', 'confidence': 0.9}},
		'management_overlay': [{'board_segment': 'Cloud', 'maps_to': ['Cloud East', 'Cloud West']}]
	}`)

	cm, err := ParseContourMap(data)
	if err != nil {
		t.Fatalf("ParseContourMap failed: %v", err)
	}
	if len(cm.Hierarchy["division"]) != 1 {
		t.Fatalf("unexpected hierarchy: %+v", cm.Hierarchy)
	}
	if cm.SORAuthority["division"].System != "workday" {
		t.Fatalf("unexpected authority: %+v", cm.SORAuthority)
	}
	if len(cm.ManagementOverlay) != 1 || len(cm.ManagementOverlay[0].MapsTo) != 2 {
		t.Fatalf("unexpected overlay: %+v", cm.ManagementOverlay)
	}
}

func TestLoadContourMapFileMissing(t *testing.T) {
	cm, err := LoadContourMapFile("testdata/does_not_exist.json")
	if err != nil {
		t.Fatalf("expected missing file to degrade, got error: %v", err)
	}
	if len(cm.Hierarchy) != 0 || len(cm.ManagementOverlay) != 0 {
		t.Fatalf("expected empty contour map, got %+v", cm)
	}
}
