package resolve

import (
	"strata/pkg/semgraph"
)

// Machine-checkable failure reasons. The human-readable detail goes in
// Reason and Warnings.
const (
	ReasonConceptNotRecognized = "concept_not_recognized"
	ReasonNoSources            = "no_sources"
	ReasonNoValidDimensions    = "no_valid_dimensions"
	ReasonNoJoinPath           = "no_join_path"
)

// WeakestLink is the minimum-confidence assertion used anywhere in a
// resolution, surfaced for diagnostics.
type WeakestLink struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// ConfidenceBreakdown decomposes the overall confidence into its weighted
// components.
type ConfidenceBreakdown struct {
	Overall           float64      `json:"overall"`
	ConceptMatch      float64      `json:"concept_match"`
	SourceProvenance  float64      `json:"source_provenance"`
	JoinPenalty       float64      `json:"join_penalty"`
	DimensionCoverage float64      `json:"dimension_coverage"`
	WeakestLink       *WeakestLink `json:"weakest_link,omitempty"`
}

// DataQueryHint tells the caller where to fetch: the preferred system, the
// candidate tables, the join keys to cross systems, and the fully expanded
// filter values. It is a hint, not an executable query.
type DataQueryHint struct {
	PrimarySystem string              `json:"primary_system"`
	Tables        []string            `json:"tables"`
	JoinKeys      []string            `json:"join_keys"`
	Filters       map[string][]string `json:"filters,omitempty"`
}

// QueryResolution is the resolver's answer. It is always returned as a
// value; semantic failures set CanAnswer=false with a reason code instead of
// becoming errors.
type QueryResolution struct {
	TraceID    string `json:"trace_id"`
	CanAnswer  bool   `json:"can_answer"`
	ReasonCode string `json:"reason_code,omitempty"`
	Reason     string `json:"reason,omitempty"`

	Confidence ConfidenceBreakdown `json:"confidence"`
	Provenance string              `json:"provenance"`
	Hint       *DataQueryHint      `json:"hint,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`

	ConceptSources       map[string][]semgraph.ConceptSource `json:"concept_sources,omitempty"`
	DimensionAuthorities map[string]semgraph.Authority       `json:"dimension_authorities,omitempty"`
	JoinPaths            []semgraph.JoinPath                 `json:"join_paths,omitempty"`
	ResolvedFilters      []semgraph.FilterResolution         `json:"resolved_filters,omitempty"`
}

// UnknownAuthority is recorded for dimensions with no system of record.
var UnknownAuthority = semgraph.Authority{System: "unknown", Confidence: 0}
