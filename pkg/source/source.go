package source

// DiscoveryStatus tracks how a canonical source entered the catalog.
const (
	StatusRegistered    = "registered"
	StatusUnverified    = "unverified"
	StatusPendingTriage = "pending_triage"
)

// CanonicalSource is the normalized identity of a source system.
type CanonicalSource struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Vendor          string   `json:"vendor"`
	Category        string   `json:"category"`
	TrustScore      float64  `json:"trust_score"`
	DiscoveryStatus string   `json:"discovery_status"`
	Aliases         []string `json:"aliases,omitempty"`
}

// Result is the outcome of normalizing a raw source identifier. Tier names
// the matching mechanism for provenance.
type Result struct {
	Source     CanonicalSource `json:"source"`
	Confidence float64         `json:"confidence"`
	Tier       string          `json:"tier"`
}

// Normalization tiers, in resolution order.
const (
	TierExact      = "exact"
	TierAlias      = "alias"
	TierPattern    = "pattern"
	TierFuzzy      = "fuzzy"
	TierDiscovered = "discovered"
)
