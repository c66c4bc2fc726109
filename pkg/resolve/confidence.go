package resolve

import (
	"fmt"
	"strings"

	"strata/pkg/semgraph"
)

// composeConfidence blends the component scores into an overall confidence
// and records the weakest assertion the resolution rests on.
func composeConfidence(intent QueryIntent, res QueryResolution, validDims []string) ConfidenceBreakdown {
	var bd ConfidenceBreakdown

	// Concept match: mean of the best classification per concept. Concepts
	// with no sources contribute zero, dragging the score down.
	var conceptSum float64
	for _, concept := range intent.Concepts {
		if srcs := res.ConceptSources[concept]; len(srcs) > 0 {
			conceptSum += srcs[0].Confidence
		}
	}
	bd.ConceptMatch = conceptSum / float64(len(intent.Concepts))

	// Provenance: mean across every contributing source.
	var provSum float64
	provCount := 0
	for _, srcs := range res.ConceptSources {
		for _, s := range srcs {
			provSum += s.Confidence
			provCount++
		}
	}
	if provCount > 0 {
		bd.SourceProvenance = provSum / float64(provCount)
	}

	// Join penalty: each hop costs a fixed amount, floored so a long but
	// existent path still scores above zero.
	totalHops := 0
	for _, p := range res.JoinPaths {
		totalHops += len(p.Hops)
	}
	bd.JoinPenalty = 1.0 - hopPenalty*float64(totalHops)
	if bd.JoinPenalty < joinPenaltyFloor {
		bd.JoinPenalty = joinPenaltyFloor
	}

	// Coverage: share of requested dimensions that validated.
	if len(intent.Dimensions) == 0 {
		bd.DimensionCoverage = 1.0
	} else {
		bd.DimensionCoverage = float64(len(validDims)) / float64(len(intent.Dimensions))
	}

	bd.Overall = weightConceptMatch*bd.ConceptMatch +
		weightProvenance*bd.SourceProvenance +
		weightJoinPenalty*bd.JoinPenalty +
		weightCoverage*bd.DimensionCoverage

	bd.WeakestLink = weakestLink(res)
	return bd
}

// weakestLink scans every confidence-bearing assertion in the resolution and
// returns the lowest one.
func weakestLink(res QueryResolution) *WeakestLink {
	var weakest *WeakestLink
	consider := func(desc string, conf float64) {
		if weakest == nil || conf < weakest.Confidence {
			weakest = &WeakestLink{Description: desc, Confidence: conf}
		}
	}

	for concept, srcs := range res.ConceptSources {
		for _, s := range srcs {
			consider(fmt.Sprintf("classification of %s.%s.%s as %s (%s)",
				s.System, s.Table, s.Field, concept, s.Method), s.Confidence)
		}
	}
	for _, p := range res.JoinPaths {
		for _, h := range p.Hops {
			consider(fmt.Sprintf("join %s to %s on %s",
				h.FromSystem, h.ToSystem, h.JoinKey), h.Confidence)
		}
	}
	for dim, auth := range res.DimensionAuthorities {
		if auth.System == UnknownAuthority.System {
			continue
		}
		consider(fmt.Sprintf("%s as system of record for %s",
			auth.System, dim), auth.Confidence)
	}
	return weakest
}

// buildHint assembles the data-fetch hint from the resolved sources, join
// hops, and expanded filters.
func buildHint(concepts []string, res QueryResolution) *DataQueryHint {
	hint := &DataQueryHint{}

	// The primary system is the one behind the strongest classification.
	var bestConf float64
	for _, concept := range concepts {
		if srcs := res.ConceptSources[concept]; len(srcs) > 0 && srcs[0].Confidence > bestConf {
			bestConf = srcs[0].Confidence
			hint.PrimarySystem = srcs[0].System
		}
	}

	seenTables := make(map[string]bool)
	for _, concept := range concepts {
		for _, s := range res.ConceptSources[concept] {
			if !strings.EqualFold(s.System, hint.PrimarySystem) {
				continue
			}
			if !seenTables[s.Table] {
				seenTables[s.Table] = true
				hint.Tables = append(hint.Tables, s.Table)
			}
		}
	}

	seenKeys := make(map[string]bool)
	for _, p := range res.JoinPaths {
		for _, h := range p.Hops {
			if h.JoinKey != "" && !seenKeys[h.JoinKey] {
				seenKeys[h.JoinKey] = true
				hint.JoinKeys = append(hint.JoinKeys, h.JoinKey)
			}
		}
	}

	if len(res.ResolvedFilters) > 0 {
		hint.Filters = make(map[string][]string, len(res.ResolvedFilters))
		for _, f := range res.ResolvedFilters {
			hint.Filters[f.Dimension] = append(hint.Filters[f.Dimension], f.Resolved...)
		}
	}
	return hint
}

// narrate produces the human-readable provenance summary.
func narrate(intent QueryIntent, res QueryResolution, validDims []string) string {
	var b strings.Builder

	for _, concept := range intent.Concepts {
		srcs := res.ConceptSources[concept]
		if len(srcs) == 0 {
			continue
		}
		top := srcs[0]
		fmt.Fprintf(&b, "%q is sourced from %s.%s.%s (%s, confidence %.2f)",
			concept, top.System, top.Table, top.Field, top.Method, top.Confidence)
		if len(srcs) > 1 {
			fmt.Fprintf(&b, " with %d alternative source(s)", len(srcs)-1)
		}
		b.WriteString(". ")
	}

	for _, dim := range validDims {
		auth := res.DimensionAuthorities[dim]
		if auth.System == UnknownAuthority.System {
			fmt.Fprintf(&b, "No system of record is configured for %q. ", dim)
			continue
		}
		fmt.Fprintf(&b, "%s is the system of record for %q (confidence %.2f). ",
			auth.System, dim, auth.Confidence)
	}

	for _, p := range res.JoinPaths {
		if len(p.Hops) == 0 {
			continue
		}
		fmt.Fprintf(&b, "Systems are joined via %s (confidence %.2f). ",
			strings.Join(p.Systems, " -> "), p.Confidence)
	}

	for _, f := range res.ResolvedFilters {
		switch f.Mechanism {
		case semgraph.FilterMechanismOverlay:
			fmt.Fprintf(&b, "Filter %s=%q expands through the management overlay to %s. ",
				f.Dimension, f.Value, strings.Join(f.Resolved, ", "))
		case semgraph.FilterMechanismHierarchy:
			fmt.Fprintf(&b, "Filter %s=%q includes its hierarchy descendants: %s. ",
				f.Dimension, f.Value, strings.Join(f.Resolved, ", "))
		}
	}

	return strings.TrimSpace(b.String())
}
