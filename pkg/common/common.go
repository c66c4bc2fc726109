package common

// MappingMethod identifies how a field-to-concept mapping was produced.
type MappingMethod string

const (
	MethodAAMEdge      MappingMethod = "aam_edge"
	MethodHeuristic    MappingMethod = "heuristic"
	MethodRAG          MappingMethod = "rag"
	MethodLLM          MappingMethod = "llm"
	MethodLLMValidated MappingMethod = "llm_validated"
)

// SchemaTable describes one table of a raw source-system schema as handed to
// the classifier. Fields are column names in source order.
type SchemaTable struct {
	System string   `json:"system"`
	Table  string   `json:"table"`
	Fields []string `json:"fields"`
}

// Mapping is a classified (source_system, table, field) → concept assignment.
//
// Confidence is in [0,1]. Meta carries tier-specific context, e.g. the
// cross-system counterpart recorded by an edge-based classification.
type Mapping struct {
	SourceSystem string            `json:"source_system"`
	Table        string            `json:"table"`
	Field        string            `json:"field"`
	Concept      string            `json:"concept"`
	Confidence   float64           `json:"confidence"`
	Method       MappingMethod     `json:"method"`
	Meta         map[string]string `json:"meta,omitempty"`
}

// SemanticEdge is an externally supplied cross-system field correspondence,
// produced by the integration-mesh service.
type SemanticEdge struct {
	SourceSystem     string  `json:"source_system"`
	SourceObject     string  `json:"source_object"`
	SourceField      string  `json:"source_field"`
	TargetSystem     string  `json:"target_system"`
	TargetObject     string  `json:"target_object"`
	TargetField      string  `json:"target_field"`
	EdgeType         string  `json:"edge_type"`
	Confidence       float64 `json:"confidence"`
	FabricPlane      string  `json:"fabric_plane"`
	ExtractionSource string  `json:"extraction_source"`
	Transformation   string  `json:"transformation,omitempty"`
}
