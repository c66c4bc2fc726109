package semgraph

// NodeKind is the closed set of node types in the semantic graph.
type NodeKind uint8

const (
	NodeConcept NodeKind = iota
	NodeDimension
	NodeSystem
	NodeField
	NodeDimensionValue
)

func (k NodeKind) String() string {
	switch k {
	case NodeConcept:
		return "concept"
	case NodeDimension:
		return "dimension"
	case NodeSystem:
		return "system"
	case NodeField:
		return "field"
	case NodeDimensionValue:
		return "dimension_value"
	default:
		return "unknown"
	}
}

// EdgeKind is the closed set of edge types in the semantic graph.
type EdgeKind uint8

const (
	// EdgeClassifiedAs links a field to its ontology concept.
	EdgeClassifiedAs EdgeKind = iota
	// EdgeLivesIn links a field to its source system.
	EdgeLivesIn
	// EdgeSliceableBy links a concept to a dimension it can be sliced by.
	EdgeSliceableBy
	// EdgeHierarchyParent links a dimension value to its parent value.
	EdgeHierarchyParent
	// EdgeAuthoritativeFor links a system to a dimension it is the system of
	// record for.
	EdgeAuthoritativeFor
	// EdgeReportsAs links a management-overlay segment to an underlying
	// dimension value.
	EdgeReportsAs
	// EdgeMapsTo links corresponding fields across systems.
	EdgeMapsTo
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeClassifiedAs:
		return "classified_as"
	case EdgeLivesIn:
		return "lives_in"
	case EdgeSliceableBy:
		return "sliceable_by"
	case EdgeHierarchyParent:
		return "hierarchy_parent"
	case EdgeAuthoritativeFor:
		return "authoritative_for"
	case EdgeReportsAs:
		return "reports_as"
	case EdgeMapsTo:
		return "maps_to"
	default:
		return "unknown"
	}
}
