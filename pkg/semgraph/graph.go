package semgraph

import (
	"fmt"
	"regexp"
	"strings"
)

// Node is a typed graph node. IDs are content-derived ("prefix:key") so
// repeated loads update nodes instead of duplicating them.
type Node struct {
	ID    string            `json:"id"`
	Kind  NodeKind          `json:"kind"`
	Label string            `json:"label"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// Edge is a typed, directed graph edge with a confidence score and a
// provenance note.
type Edge struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	Kind       EdgeKind          `json:"kind"`
	Confidence float64           `json:"confidence"`
	Provenance string            `json:"provenance"`
	Meta       map[string]string `json:"meta,omitempty"`
}

// systemLink is one usable system-to-system hop derived from a MAPS_TO edge.
// Links keep insertion order so that equal-length join paths resolve
// deterministically.
type systemLink struct {
	a, b string
	edge *Edge
}

// Graph is the in-memory semantic multigraph. It is built fully by the
// loaders and then treated as an immutable snapshot: builders must not hand
// out a graph that is still being loaded, and readers must not mutate it.
type Graph struct {
	nodes map[string]*Node
	edges []*Edge

	// adjacency and reverse adjacency, keyed by node id
	adj  map[string][]*Edge
	radj map[string][]*Edge

	// upsert index on (from, to, kind)
	edgeIndex map[string]*Edge

	systemLinks []systemLink
	linksBySys  map[string][]int

	// overlay segment node id → dimension node id (may be empty when the
	// overlay targets values outside any loaded hierarchy)
	overlayDims map[string]string
}

// New creates an empty semantic graph.
func New() *Graph {
	return &Graph{
		nodes:       make(map[string]*Node),
		adj:         make(map[string][]*Edge),
		radj:        make(map[string][]*Edge),
		edgeIndex:   make(map[string]*Edge),
		linksBySys:  make(map[string][]int),
		overlayDims: make(map[string]string),
	}
}

// Node ID constructors. Keeping these together makes the id scheme auditable.

func ConceptID(concept string) string {
	return "concept:" + strings.ToLower(concept)
}

func DimensionID(dimension string) string {
	return "dimension:" + strings.ToLower(dimension)
}

func SystemID(system string) string {
	return "system:" + strings.ToLower(system)
}

func FieldID(system, table, field string) string {
	return fmt.Sprintf("field:%s.%s.%s", strings.ToLower(system), strings.ToLower(table), strings.ToLower(field))
}

var valueKeyRe = regexp.MustCompile(`[^a-z0-9]+`)

// ValueKey normalizes a dimension value for id derivation and filter lookup.
func ValueKey(value string) string {
	return strings.Trim(valueKeyRe.ReplaceAllString(strings.ToLower(value), "_"), "_")
}

func ValueID(value string) string {
	return "value:" + ValueKey(value)
}

// ensureNode creates or updates a node. Meta entries merge; an empty label
// never overwrites an existing one.
func (g *Graph) ensureNode(id string, kind NodeKind, label string, meta map[string]string) *Node {
	n, ok := g.nodes[id]
	if !ok {
		n = &Node{ID: id, Kind: kind, Label: label}
		g.nodes[id] = n
	} else if label != "" && n.Label == "" {
		n.Label = label
	}
	if len(meta) > 0 {
		if n.Meta == nil {
			n.Meta = make(map[string]string, len(meta))
		}
		for k, v := range meta {
			n.Meta[k] = v
		}
	}
	return n
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	return g.nodes[id]
}

func edgeIndexKey(from, to string, kind EdgeKind) string {
	return from + "|" + to + "|" + kind.String()
}

// addEdge inserts an edge or, when an edge with the same (from, to, kind)
// already exists, updates it in place. This keeps all loaders idempotent.
func (g *Graph) addEdge(e Edge) *Edge {
	key := edgeIndexKey(e.From, e.To, e.Kind)
	if existing, ok := g.edgeIndex[key]; ok {
		existing.Confidence = e.Confidence
		existing.Provenance = e.Provenance
		existing.Meta = e.Meta
		return existing
	}

	stored := &e
	g.edges = append(g.edges, stored)
	g.edgeIndex[key] = stored
	g.adj[e.From] = append(g.adj[e.From], stored)
	g.radj[e.To] = append(g.radj[e.To], stored)

	if e.Kind == EdgeMapsTo {
		g.registerSystemLink(stored)
	}
	return stored
}

// removeEdgesFrom drops all edges of the given kind leaving a node. Used to
// enforce the single-active-classification invariant.
func (g *Graph) removeEdgesFrom(from string, kind EdgeKind) {
	out := g.adj[from]
	kept := out[:0]
	for _, e := range out {
		if e.Kind != kind {
			kept = append(kept, e)
			continue
		}
		delete(g.edgeIndex, edgeIndexKey(e.From, e.To, e.Kind))
		g.radj[e.To] = removeEdge(g.radj[e.To], e)
		g.edges = removeEdge(g.edges, e)
	}
	g.adj[from] = kept
}

func removeEdge(edges []*Edge, target *Edge) []*Edge {
	for i, e := range edges {
		if e == target {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

func (g *Graph) registerSystemLink(e *Edge) {
	a := e.Meta["source_system"]
	b := e.Meta["target_system"]
	if a == "" || b == "" || a == b {
		return
	}
	idx := len(g.systemLinks)
	g.systemLinks = append(g.systemLinks, systemLink{a: a, b: b, edge: e})
	g.linksBySys[a] = append(g.linksBySys[a], idx)
	g.linksBySys[b] = append(g.linksBySys[b], idx)
}

// outgoing returns the edges of a kind leaving a node.
func (g *Graph) outgoing(id string, kind EdgeKind) []*Edge {
	var out []*Edge
	for _, e := range g.adj[id] {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// incoming returns the edges of a kind arriving at a node.
func (g *Graph) incoming(id string, kind EdgeKind) []*Edge {
	var out []*Edge
	for _, e := range g.radj[id] {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
