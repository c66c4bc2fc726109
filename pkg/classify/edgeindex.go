package classify

import (
	"strings"

	"strata/pkg/common"
)

// FieldRef identifies a field within a system's object (table).
type FieldRef struct {
	System string `json:"system"`
	Object string `json:"object"`
	Field  string `json:"field"`
}

// EdgeMatch is an indexed cross-system edge hit. Counterpart is the field on
// the other end of the correspondence, whichever direction matched.
type EdgeMatch struct {
	Edge        common.SemanticEdge
	Counterpart FieldRef
}

type edgeKey struct {
	system string
	object string
	field  string
}

// EdgeIndex provides O(1) lookup of cross-system field correspondences by
// lowercase (system, object, field), indexed in both the source and target
// direction.
type EdgeIndex struct {
	byKey map[edgeKey][]EdgeMatch
}

// NewEdgeIndex indexes the given edges in both directions.
func NewEdgeIndex(edges []common.SemanticEdge) *EdgeIndex {
	idx := &EdgeIndex{byKey: make(map[edgeKey][]EdgeMatch, len(edges)*2)}
	for _, e := range edges {
		src := edgeKey{lower(e.SourceSystem), lower(e.SourceObject), lower(e.SourceField)}
		tgt := edgeKey{lower(e.TargetSystem), lower(e.TargetObject), lower(e.TargetField)}
		idx.byKey[src] = append(idx.byKey[src], EdgeMatch{
			Edge:        e,
			Counterpart: FieldRef{System: e.TargetSystem, Object: e.TargetObject, Field: e.TargetField},
		})
		idx.byKey[tgt] = append(idx.byKey[tgt], EdgeMatch{
			Edge:        e,
			Counterpart: FieldRef{System: e.SourceSystem, Object: e.SourceObject, Field: e.SourceField},
		})
	}
	return idx
}

// Lookup returns the highest-confidence edge touching the given field in
// either direction.
func (idx *EdgeIndex) Lookup(system, object, field string) (EdgeMatch, bool) {
	matches := idx.byKey[edgeKey{lower(system), lower(object), lower(field)}]
	if len(matches) == 0 {
		return EdgeMatch{}, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Edge.Confidence > best.Edge.Confidence {
			best = m
		}
	}
	return best, true
}

// Len returns the number of indexed keys.
func (idx *EdgeIndex) Len() int {
	return len(idx.byKey)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
