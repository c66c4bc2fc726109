package source

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testRegistryServer(t *testing.T, sources []CanonicalSource, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path != "/sources" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(sources)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testNormalizer(t *testing.T, srv *httptest.Server) *Normalizer {
	t.Helper()
	var client *RegistryClient
	if srv != nil {
		client = NewRegistryClient(RegistryClientParams{BaseURL: srv.URL, Timeout: time.Second})
	}
	n, err := NewNormalizer(NormalizerParams{Client: client})
	if err != nil {
		t.Fatalf("NewNormalizer failed: %v", err)
	}
	return n
}

var registrySources = []CanonicalSource{
	{ID: "netsuite", Name: "NetSuite", Vendor: "Oracle", Category: "erp", TrustScore: 0.9},
	{ID: "salesforce", Name: "Salesforce", Vendor: "Salesforce", Category: "crm", TrustScore: 0.9},
	{ID: "workday", Name: "Workday", Vendor: "Workday", Category: "hcm", TrustScore: 0.9},
}

func TestNormalizeTiers(t *testing.T) {
	srv := testRegistryServer(t, registrySources, nil)
	n := testNormalizer(t, srv)
	ctx := context.Background()

	tests := []struct {
		name     string
		raw      string
		wantID   string
		wantTier string
		minConf  float64
		maxConf  float64
	}{
		{"ExactMatch", "netsuite", "netsuite", TierExact, 1.0, 1.0},
		{"ExactMatchCaseFolded", "NetSuite", "netsuite", TierExact, 1.0, 1.0},
		{"AliasMatch", "sfdc", "salesforce", TierAlias, 0.90, 0.95},
		{"PatternMatch", "netsuite-prod-01", "netsuite", TierPattern, 0.80, 0.85},
		{"FuzzyMatch", "salesforse", "salesforce", TierFuzzy, 0.7 * 0.9, 0.9},
		{"Discovered", "zyxxo_tracker", "discovered_zyxxo_tracker", TierDiscovered, 0.5, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := n.Normalize(ctx, tc.raw)
			if res.Source.ID != tc.wantID {
				t.Fatalf("Normalize(%q) id = %q, want %q", tc.raw, res.Source.ID, tc.wantID)
			}
			if res.Tier != tc.wantTier {
				t.Fatalf("Normalize(%q) tier = %q, want %q", tc.raw, res.Tier, tc.wantTier)
			}
			if res.Confidence < tc.minConf || res.Confidence > tc.maxConf {
				t.Fatalf("Normalize(%q) confidence = %v, want in [%v,%v]", tc.raw, res.Confidence, tc.minConf, tc.maxConf)
			}
		})
	}
}

func TestNormalizeIdempotentDiscovery(t *testing.T) {
	n := testNormalizer(t, nil)
	ctx := context.Background()

	first := n.Normalize(ctx, "Mystery System 9")
	second := n.Normalize(ctx, "Mystery System 9")

	if first.Source.ID != second.Source.ID {
		t.Fatalf("discovery not idempotent: %q vs %q", first.Source.ID, second.Source.ID)
	}
	if math.Abs(first.Confidence-second.Confidence) > 1e-9 {
		t.Fatalf("discovery confidence drifted: %v vs %v", first.Confidence, second.Confidence)
	}
	if first.Source.DiscoveryStatus != StatusPendingTriage {
		t.Fatalf("unexpected discovery status: %q", first.Source.DiscoveryStatus)
	}
	if first.Source.ID != "discovered_mystery_system_9" {
		t.Fatalf("unexpected sanitized id: %q", first.Source.ID)
	}
}

func TestNormalizeAliasToMissingRegistryEntry(t *testing.T) {
	// No registry at all: alias targets are synthesized at reduced trust.
	n := testNormalizer(t, nil)

	res := n.Normalize(context.Background(), "sfdc")
	if res.Tier != TierAlias {
		t.Fatalf("unexpected tier: %q", res.Tier)
	}
	if res.Source.ID != "salesforce" {
		t.Fatalf("unexpected id: %q", res.Source.ID)
	}
	if res.Source.DiscoveryStatus != StatusUnverified {
		t.Fatalf("expected unverified fallback entry, got %q", res.Source.DiscoveryStatus)
	}
	if res.Source.TrustScore != fallbackTrust {
		t.Fatalf("expected reduced trust %v, got %v", fallbackTrust, res.Source.TrustScore)
	}
}

func TestRegistryUnavailableTripsBreaker(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewRegistryClient(RegistryClientParams{BaseURL: srv.URL, Timeout: time.Second})
	n, err := NewNormalizer(NormalizerParams{Client: client, Cooldown: time.Minute})
	if err != nil {
		t.Fatalf("NewNormalizer failed: %v", err)
	}

	ctx := context.Background()
	for _, raw := range []string{"netsuite", "sfdc", "whatever_system"} {
		res := n.Normalize(ctx, raw)
		if res.Source.ID == "" {
			t.Fatalf("Normalize(%q) returned empty result with registry down", raw)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Fatalf("expected exactly one registry call within the cooldown window, got %d", got)
	}
	if !n.Breaker().Open() {
		t.Fatal("expected breaker to be open after a failed fetch")
	}
}

func TestBreakerCooldownAndReset(t *testing.T) {
	b := NewCircuitBreaker(time.Minute)
	base := time.Unix(1000, 0)
	b.now = func() time.Time { return base }

	if b.Open() {
		t.Fatal("new breaker must start closed")
	}
	b.Trip()
	if !b.Open() {
		t.Fatal("breaker must open after Trip")
	}

	b.now = func() time.Time { return base.Add(2 * time.Minute) }
	if b.Open() {
		t.Fatal("breaker must close after the cooldown elapses")
	}

	b.now = func() time.Time { return base }
	b.Trip()
	b.Reset()
	if b.Open() {
		t.Fatal("breaker must close after Reset")
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"Equal", "workday", "workday", 1, 1},
		{"OneEdit", "workdai", "workday", 0.85, 0.99},
		{"Disjoint", "abc", "xyz", 0, 0.01},
		{"BothEmpty", "", "", 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := similarity(tc.a, tc.b)
			if got < tc.min || got > tc.max {
				t.Fatalf("similarity(%q,%q) = %v, want in [%v,%v]", tc.a, tc.b, got, tc.min, tc.max)
			}
		})
	}
}
