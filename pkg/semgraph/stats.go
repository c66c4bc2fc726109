package semgraph

// Stats summarizes the graph for health and debug endpoints.
type Stats struct {
	Nodes            int            `json:"nodes"`
	Edges            int            `json:"edges"`
	NodesByKind      map[string]int `json:"nodes_by_kind"`
	EdgesByKind      map[string]int `json:"edges_by_kind"`
	ConnectedSystems int            `json:"connected_systems"`
	MeanMapsToConf   float64        `json:"mean_maps_to_confidence"`
}

// Stats computes node and edge counts by kind, the number of systems touched
// by at least one MAPS_TO edge, and the mean MAPS_TO confidence.
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:       len(g.nodes),
		Edges:       len(g.edges),
		NodesByKind: make(map[string]int),
		EdgesByKind: make(map[string]int),
	}
	for _, n := range g.nodes {
		s.NodesByKind[n.Kind.String()]++
	}

	var mapsToSum float64
	mapsToCount := 0
	connected := make(map[string]struct{})
	for _, e := range g.edges {
		s.EdgesByKind[e.Kind.String()]++
		if e.Kind == EdgeMapsTo {
			mapsToSum += e.Confidence
			mapsToCount++
			if sys := e.Meta["source_system"]; sys != "" {
				connected[sys] = struct{}{}
			}
			if sys := e.Meta["target_system"]; sys != "" {
				connected[sys] = struct{}{}
			}
		}
	}
	s.ConnectedSystems = len(connected)
	if mapsToCount > 0 {
		s.MeanMapsToConf = mapsToSum / float64(mapsToCount)
	}
	return s
}
