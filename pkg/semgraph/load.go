package semgraph

import (
	"strata/pkg/common"
	"strata/pkg/logger"
	"strata/pkg/ontology"
)

// DefaultAuthorityConfidence applies when the contour map designates a system
// of record without an explicit confidence.
const DefaultAuthorityConfidence = 0.8

// LoadMappings adds field, system, and concept nodes plus CLASSIFIED_AS and
// LIVES_IN edges from classifier output. Re-classifying a field replaces its
// previous CLASSIFIED_AS edge; a field carries at most one at a time.
func (g *Graph) LoadMappings(mappings []common.Mapping) {
	for _, m := range mappings {
		sysID := SystemID(m.SourceSystem)
		fieldID := FieldID(m.SourceSystem, m.Table, m.Field)
		conceptID := ConceptID(m.Concept)

		g.ensureNode(sysID, NodeSystem, m.SourceSystem, nil)
		g.ensureNode(fieldID, NodeField, m.Field, map[string]string{
			"system": m.SourceSystem,
			"table":  m.Table,
		})
		g.ensureNode(conceptID, NodeConcept, m.Concept, nil)

		g.addEdge(Edge{
			From:       fieldID,
			To:         sysID,
			Kind:       EdgeLivesIn,
			Confidence: 1.0,
			Provenance: "schema",
		})

		meta := map[string]string{"method": string(m.Method)}
		for k, v := range m.Meta {
			meta[k] = v
		}
		g.removeEdgesFrom(fieldID, EdgeClassifiedAs)
		g.addEdge(Edge{
			From:       fieldID,
			To:         conceptID,
			Kind:       EdgeClassifiedAs,
			Confidence: clamp01(m.Confidence),
			Provenance: "classifier:" + string(m.Method),
			Meta:       meta,
		})
	}
	logger.Debug("[Graph] Loaded mappings", "count", len(mappings))
}

// LoadSemanticEdges adds field and system nodes plus MAPS_TO edges from the
// externally supplied cross-system correspondences.
func (g *Graph) LoadSemanticEdges(edges []common.SemanticEdge) {
	for _, e := range edges {
		srcSys := SystemID(e.SourceSystem)
		tgtSys := SystemID(e.TargetSystem)
		srcField := FieldID(e.SourceSystem, e.SourceObject, e.SourceField)
		tgtField := FieldID(e.TargetSystem, e.TargetObject, e.TargetField)

		g.ensureNode(srcSys, NodeSystem, e.SourceSystem, nil)
		g.ensureNode(tgtSys, NodeSystem, e.TargetSystem, nil)
		g.ensureNode(srcField, NodeField, e.SourceField, map[string]string{
			"system": e.SourceSystem,
			"table":  e.SourceObject,
		})
		g.ensureNode(tgtField, NodeField, e.TargetField, map[string]string{
			"system": e.TargetSystem,
			"table":  e.TargetObject,
		})

		meta := map[string]string{
			"edge_type":     e.EdgeType,
			"fabric_plane":  e.FabricPlane,
			"source_system": srcSys,
			"target_system": tgtSys,
			"join_key":      e.SourceField,
		}
		if e.ExtractionSource != "" {
			meta["extraction_source"] = e.ExtractionSource
		}
		if e.Transformation != "" {
			meta["transformation"] = e.Transformation
		}
		g.addEdge(Edge{
			From:       srcField,
			To:         tgtField,
			Kind:       EdgeMapsTo,
			Confidence: clamp01(e.Confidence),
			Provenance: "aam:" + e.FabricPlane,
			Meta:       meta,
		})
	}
	logger.Debug("[Graph] Loaded semantic edges", "count", len(edges))
}

// LoadPairings adds dimension nodes and SLICEABLE_BY edges from the ontology
// pairing table.
func (g *Graph) LoadPairings(pairings map[string][]string) {
	count := 0
	for concept, dims := range pairings {
		conceptID := ConceptID(concept)
		g.ensureNode(conceptID, NodeConcept, concept, nil)
		for _, dim := range dims {
			dimID := DimensionID(dim)
			g.ensureNode(dimID, NodeDimension, dim, nil)
			g.addEdge(Edge{
				From:       conceptID,
				To:         dimID,
				Kind:       EdgeSliceableBy,
				Confidence: 1.0,
				Provenance: "ontology",
			})
			count++
		}
	}
	logger.Debug("[Graph] Loaded pairings", "edges", count)
}

// LoadContourMap adds dimension-value hierarchies (HIERARCHY_PARENT), system
// authority (AUTHORITATIVE_FOR), and management overlays (REPORTS_AS).
//
// Hierarchies are walked with an explicit stack so arbitrarily deep contour
// maps cannot exhaust the call stack.
func (g *Graph) LoadContourMap(cm *ontology.ContourMap) {
	if cm == nil {
		return
	}

	type frame struct {
		node     ontology.HierarchyNode
		parentID string
		dimID    string
	}

	for dim, roots := range cm.Hierarchy {
		dimID := DimensionID(dim)
		g.ensureNode(dimID, NodeDimension, dim, nil)

		stack := make([]frame, 0, len(roots))
		for i := len(roots) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: roots[i], dimID: dimID})
		}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			valueID := ValueID(f.node.Name)
			meta := map[string]string{"dimension": f.dimID}
			if f.node.ID != "" {
				meta["hierarchy_id"] = f.node.ID
			}
			g.ensureNode(valueID, NodeDimensionValue, f.node.Name, meta)

			if f.parentID != "" {
				g.addEdge(Edge{
					From:       valueID,
					To:         f.parentID,
					Kind:       EdgeHierarchyParent,
					Confidence: 1.0,
					Provenance: "contour_map:hierarchy",
				})
			}
			for i := len(f.node.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: f.node.Children[i], parentID: valueID, dimID: f.dimID})
			}
		}
	}

	for dim, auth := range cm.SORAuthority {
		dimID := DimensionID(dim)
		sysID := SystemID(auth.System)
		g.ensureNode(dimID, NodeDimension, dim, nil)
		g.ensureNode(sysID, NodeSystem, auth.System, nil)

		conf := auth.Confidence
		if conf <= 0 {
			conf = DefaultAuthorityConfidence
		}
		g.addEdge(Edge{
			From:       sysID,
			To:         dimID,
			Kind:       EdgeAuthoritativeFor,
			Confidence: clamp01(conf),
			Provenance: "contour_map:sor",
		})
	}

	for _, overlay := range cm.ManagementOverlay {
		segID := ValueID(overlay.BoardSegment)
		g.ensureNode(segID, NodeDimensionValue, overlay.BoardSegment, map[string]string{
			"overlay": "true",
		})
		for _, target := range overlay.MapsTo {
			targetID := ValueID(target)
			g.ensureNode(targetID, NodeDimensionValue, target, nil)
			g.addEdge(Edge{
				From:       segID,
				To:         targetID,
				Kind:       EdgeReportsAs,
				Confidence: 1.0,
				Provenance: "contour_map:overlay",
			})
			// Adopt the dimension of the first underlying value that belongs
			// to a loaded hierarchy.
			if g.overlayDims[segID] == "" {
				if dim := g.nodes[targetID].Meta["dimension"]; dim != "" {
					g.overlayDims[segID] = dim
				}
			}
		}
	}

	logger.Debug("[Graph] Loaded contour map",
		"hierarchies", len(cm.Hierarchy),
		"authorities", len(cm.SORAuthority),
		"overlays", len(cm.ManagementOverlay),
	)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
