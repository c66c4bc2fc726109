package semgraph

import "sort"

// ConceptSource is one field classified as a concept, with its location and
// classification confidence.
type ConceptSource struct {
	System     string  `json:"system"`
	Table      string  `json:"table"`
	Field      string  `json:"field"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
	Provenance string  `json:"provenance"`
}

// ConceptSources returns all fields classified as the concept, sorted by
// descending confidence. Ties order by field id for determinism.
func (g *Graph) ConceptSources(concept string) []ConceptSource {
	in := g.incoming(ConceptID(concept), EdgeClassifiedAs)
	if len(in) == 0 {
		return nil
	}

	type scored struct {
		src ConceptSource
		id  string
	}
	rows := make([]scored, 0, len(in))
	for _, e := range in {
		field := g.nodes[e.From]
		if field == nil {
			continue
		}
		rows = append(rows, scored{
			id: field.ID,
			src: ConceptSource{
				System:     field.Meta["system"],
				Table:      field.Meta["table"],
				Field:      field.Label,
				Confidence: e.Confidence,
				Method:     e.Meta["method"],
				Provenance: e.Provenance,
			},
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].src.Confidence != rows[j].src.Confidence {
			return rows[i].src.Confidence > rows[j].src.Confidence
		}
		return rows[i].id < rows[j].id
	})

	out := make([]ConceptSource, len(rows))
	for i, r := range rows {
		out[i] = r.src
	}
	return out
}

// DimensionValid reports whether a SLICEABLE_BY edge pairs the concept with
// the dimension.
func (g *Graph) DimensionValid(concept, dimension string) bool {
	dimID := DimensionID(dimension)
	for _, e := range g.outgoing(ConceptID(concept), EdgeSliceableBy) {
		if e.To == dimID {
			return true
		}
	}
	return false
}

// Authority is the system of record designated for a dimension.
type Authority struct {
	System     string  `json:"system"`
	Confidence float64 `json:"confidence"`
}

// DimensionAuthority returns the highest-confidence AUTHORITATIVE_FOR edge
// for the dimension, or false when none exists.
func (g *Graph) DimensionAuthority(dimension string) (Authority, bool) {
	in := g.incoming(DimensionID(dimension), EdgeAuthoritativeFor)
	if len(in) == 0 {
		return Authority{}, false
	}
	best := in[0]
	for _, e := range in[1:] {
		if e.Confidence > best.Confidence {
			best = e
		}
	}
	sys := g.nodes[best.From]
	label := ""
	if sys != nil {
		label = sys.Label
	}
	return Authority{System: label, Confidence: best.Confidence}, true
}

// HasOverlay reports whether any management-overlay segment attaches to the
// dimension. Overlay dimensions are structurally sliceable even without a
// SLICEABLE_BY pairing.
func (g *Graph) HasOverlay(dimension string) bool {
	dimID := DimensionID(dimension)
	for _, d := range g.overlayDims {
		if d == dimID {
			return true
		}
	}
	return false
}

// JoinHop is one system-to-system hop along a join path.
type JoinHop struct {
	FromSystem string  `json:"from_system"`
	ToSystem   string  `json:"to_system"`
	JoinKey    string  `json:"join_key"`
	Confidence float64 `json:"confidence"`
	Provenance string  `json:"provenance"`
}

// JoinPath is a system-level path discovered over MAPS_TO edges. Confidence
// is the product of hop confidences; a same-system path has zero hops and
// confidence 1.
type JoinPath struct {
	Systems    []string  `json:"systems"`
	Hops       []JoinHop `json:"hops"`
	Confidence float64   `json:"confidence"`
}

// DefaultMaxHops bounds join-path discovery.
const DefaultMaxHops = 3

// FindJoinPath runs a breadth-first search from one system to another over
// the system adjacency derived from MAPS_TO edges, traversed bidirectionally.
// It returns the first shortest path by edge insertion order, or false when
// the target is unreachable within maxHops.
func (g *Graph) FindJoinPath(systemA, systemB string, maxHops int) (JoinPath, bool) {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	start := SystemID(systemA)
	goal := SystemID(systemB)

	if start == goal {
		return JoinPath{Systems: []string{systemA}, Confidence: 1.0}, true
	}

	log := []visit{{system: start, depth: 0, parent: -1, link: -1}}
	seen := map[string]bool{start: true}

	for head := 0; head < len(log); head++ {
		cur := log[head]
		if cur.depth >= maxHops {
			continue
		}
		for _, linkIdx := range g.linksBySys[cur.system] {
			link := g.systemLinks[linkIdx]
			next := link.a
			if next == cur.system {
				next = link.b
			}
			if seen[next] {
				continue
			}
			seen[next] = true
			log = append(log, visit{system: next, depth: cur.depth + 1, parent: head, link: linkIdx})
			if next == goal {
				return g.buildJoinPath(log, len(log)-1), true
			}
		}
	}
	return JoinPath{}, false
}

// visit is one entry in the BFS log: parent indexes the log (-1 for the
// root), link indexes systemLinks for the hop taken.
type visit struct {
	system string
	depth  int
	parent int
	link   int
}

func (g *Graph) buildJoinPath(log []visit, end int) JoinPath {
	var systems []string
	var hops []JoinHop
	confidence := 1.0

	// Walk back to the root, then reverse.
	var chain []int
	for i := end; i != -1; i = log[i].parent {
		chain = append(chain, i)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		v := log[chain[i]]
		systems = append(systems, g.systemLabel(v.system))
		if v.link >= 0 {
			link := g.systemLinks[v.link]
			prev := log[v.parent]
			hops = append(hops, JoinHop{
				FromSystem: g.systemLabel(prev.system),
				ToSystem:   g.systemLabel(v.system),
				JoinKey:    link.edge.Meta["join_key"],
				Confidence: link.edge.Confidence,
				Provenance: link.edge.Provenance,
			})
			confidence *= link.edge.Confidence
		}
	}
	return JoinPath{Systems: systems, Hops: hops, Confidence: confidence}
}

func (g *Graph) systemLabel(systemID string) string {
	if n := g.nodes[systemID]; n != nil && n.Label != "" {
		return n.Label
	}
	return systemID
}

// Filter resolution mechanisms, in the order they are attempted.
const (
	FilterMechanismOverlay   = "management_overlay"
	FilterMechanismHierarchy = "hierarchy"
	FilterMechanismExact     = "exact"
)

// FilterResolution records how a filter value was expanded and into what.
type FilterResolution struct {
	Dimension string   `json:"dimension"`
	Value     string   `json:"value"`
	Mechanism string   `json:"mechanism"`
	Resolved  []string `json:"resolved"`
}

// ResolveDimensionFilter expands a filter value: management overlay first,
// then hierarchy children, else the literal value is taken as exact.
func (g *Graph) ResolveDimensionFilter(dimension, value string) FilterResolution {
	valueID := ValueID(value)

	if overlays := g.outgoing(valueID, EdgeReportsAs); len(overlays) > 0 {
		resolved := make([]string, 0, len(overlays))
		for _, e := range overlays {
			resolved = append(resolved, g.valueLabel(e.To))
		}
		return FilterResolution{
			Dimension: dimension,
			Value:     value,
			Mechanism: FilterMechanismOverlay,
			Resolved:  resolved,
		}
	}

	if children := g.incoming(valueID, EdgeHierarchyParent); len(children) > 0 {
		resolved := make([]string, 0, len(children)+1)
		resolved = append(resolved, g.valueLabel(valueID))
		for _, e := range children {
			resolved = append(resolved, g.valueLabel(e.From))
		}
		return FilterResolution{
			Dimension: dimension,
			Value:     value,
			Mechanism: FilterMechanismHierarchy,
			Resolved:  resolved,
		}
	}

	return FilterResolution{
		Dimension: dimension,
		Value:     value,
		Mechanism: FilterMechanismExact,
		Resolved:  []string{value},
	}
}

func (g *Graph) valueLabel(valueID string) string {
	if n := g.nodes[valueID]; n != nil && n.Label != "" {
		return n.Label
	}
	return valueID
}
