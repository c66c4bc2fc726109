package ontology

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// ContourMap is the approved configuration describing dimension hierarchies,
// per-dimension systems of record, and management-overlay groupings.
type ContourMap struct {
	Hierarchy         map[string][]HierarchyNode `json:"hierarchy"`
	SORAuthority      map[string]Authority       `json:"sor_authority"`
	ManagementOverlay []OverlayGroup             `json:"management_overlay"`
}

// HierarchyNode is one value in a dimension hierarchy. Children may nest to
// arbitrary depth.
type HierarchyNode struct {
	Name     string          `json:"name"`
	ID       string          `json:"id"`
	Children []HierarchyNode `json:"children,omitempty"`
}

// Authority designates the system of record for a dimension.
type Authority struct {
	System     string  `json:"system"`
	Confidence float64 `json:"confidence"`
}

// OverlayGroup maps a board-reporting segment onto one or more underlying
// dimension values.
type OverlayGroup struct {
	BoardSegment string   `json:"board_segment"`
	MapsTo       []string `json:"maps_to"`
}

// ParseContourMap decodes a contour map document. Contour maps are often
// hand-edited JSON, so malformed input gets a repair pass before decoding.
func ParseContourMap(data []byte) (*ContourMap, error) {
	var cm ContourMap
	if err := json.Unmarshal(data, &cm); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr != nil {
			return nil, fmt.Errorf("failed to parse contour map: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &cm); err != nil {
			return nil, fmt.Errorf("failed to parse repaired contour map: %w", err)
		}
	}
	return &cm, nil
}
