package classify

import (
	"strings"

	"strata/pkg/common"
	"strata/pkg/ontology"
)

// edgeStrategy classifies through an externally supplied cross-system edge.
// The concept is derived from the counterpart field name; the mapping keeps
// the edge's confidence and records the correspondence as metadata.
type edgeStrategy struct {
	catalog   *ontology.Catalog
	edges     *EdgeIndex
	threshold float64
}

func (s *edgeStrategy) Name() string { return "aam_edge" }

func (s *edgeStrategy) Attempt(fc fieldContext) (common.Mapping, bool) {
	match, ok := s.edges.Lookup(fc.System, fc.Table, fc.Field)
	if !ok || match.Edge.Confidence < s.threshold {
		return common.Mapping{}, false
	}

	concept, ok := conceptFor(s.catalog, lower(match.Counterpart.Field), fc.tableCtx)
	if !ok {
		concept, ok = conceptFor(s.catalog, fc.field, fc.tableCtx)
	}
	if !ok {
		return common.Mapping{}, false
	}

	meta := map[string]string{
		"mapped_system": match.Counterpart.System,
		"mapped_object": match.Counterpart.Object,
		"mapped_field":  match.Counterpart.Field,
		"edge_type":     match.Edge.EdgeType,
		"fabric_plane":  match.Edge.FabricPlane,
	}
	if match.Edge.Transformation != "" {
		meta["transformation"] = match.Edge.Transformation
	}

	return common.Mapping{
		SourceSystem: fc.System,
		Table:        fc.Table,
		Field:        fc.Field,
		Concept:      concept,
		Confidence:   match.Edge.Confidence,
		Method:       common.MethodAAMEdge,
		Meta:         meta,
	}, true
}

// conceptFor derives a concept from a bare field name using the pattern and
// similarity logic, without re-running the full strategy chain.
func conceptFor(catalog *ontology.Catalog, field string, tc TableContext) (string, bool) {
	for _, c := range catalog.Concepts() {
		if c.Blocked(field) {
			continue
		}
		if c.MatchesPattern(field) {
			return c.ID, true
		}
	}
	if id, _, ok := bestSimilarity(catalog, field, tc); ok {
		return id, true
	}
	return "", false
}

// patternStrategy matches positive concept patterns at high confidence.
// Negative patterns veto a concept before any scoring.
type patternStrategy struct {
	catalog *ontology.Catalog
}

const patternConfidence = 0.95

func (s *patternStrategy) Name() string { return "pattern" }

func (s *patternStrategy) Attempt(fc fieldContext) (common.Mapping, bool) {
	for _, c := range s.catalog.Concepts() {
		if c.Blocked(fc.field) {
			continue
		}
		if c.MatchesPattern(fc.field) {
			return heuristicMapping(fc, c.ID, patternConfidence), true
		}
	}
	return common.Mapping{}, false
}

// similarityStrategy scores fields against concept examples, aliases, and
// ids. The highest-scoring concept wins; equal scores resolve to the
// lexicographically first concept id.
type similarityStrategy struct {
	catalog *ontology.Catalog
}

const (
	exampleExactScore     = 0.95
	exampleSubstringScore = 0.75
	aliasSubstringScore   = 0.70
	conceptIDScore        = 0.80
	financialBoost        = 0.05
	similarityCap         = 0.95
)

func (s *similarityStrategy) Name() string { return "similarity" }

func (s *similarityStrategy) Attempt(fc fieldContext) (common.Mapping, bool) {
	id, score, ok := bestSimilarity(s.catalog, fc.field, fc.tableCtx)
	if !ok {
		return common.Mapping{}, false
	}
	return heuristicMapping(fc, id, score), true
}

func bestSimilarity(catalog *ontology.Catalog, field string, tc TableContext) (string, float64, bool) {
	bestID := ""
	bestScore := 0.0
	for _, c := range catalog.Concepts() {
		if c.Blocked(field) {
			continue
		}
		score := similarityScore(c, field)
		if score <= 0 {
			continue
		}
		if tc == ContextFinancial && c.Financial {
			score = min(score+financialBoost, similarityCap)
		}
		if score > bestScore {
			bestScore = score
			bestID = c.ID
		}
	}
	if bestID == "" {
		return "", 0, false
	}
	return bestID, bestScore, true
}

func similarityScore(c *ontology.Concept, field string) float64 {
	score := 0.0
	for _, example := range c.Examples {
		ex := strings.ToLower(example)
		switch {
		case ex == field:
			return exampleExactScore
		case strings.Contains(field, ex) || strings.Contains(ex, field):
			score = max(score, exampleSubstringScore)
		}
	}
	if strings.Contains(field, strings.ToLower(c.ID)) {
		score = max(score, conceptIDScore)
	}
	for _, alias := range c.Aliases {
		if strings.Contains(field, strings.ToLower(alias)) {
			score = max(score, aliasSubstringScore)
		}
	}
	return score
}

// hintStrategy is the last-resort tier: coarse semantic hints on the field
// name combined with table context.
type hintStrategy struct {
	catalog *ontology.Catalog
}

const hintConfidence = 0.5

var costTokens = []string{"cost", "expense", "spend", "debit"}

func (s *hintStrategy) Name() string { return "hint" }

func (s *hintStrategy) Attempt(fc fieldContext) (common.Mapping, bool) {
	// Amount-like fields in a financial table default to revenue unless the
	// name leans toward cost.
	if strings.Contains(fc.field, "amount") && fc.tableCtx == ContextFinancial {
		concept := "revenue"
		for _, token := range costTokens {
			if strings.Contains(fc.field, token) {
				concept = "cost"
				break
			}
		}
		if s.catalog.Has(concept) {
			return heuristicMapping(fc, concept, hintConfidence), true
		}
	}

	// Identifier fields naming an account fall back to the account concept,
	// unless a negative pattern vetoes it.
	if strings.Contains(fc.field, "id") && strings.Contains(fc.field, "account") {
		if c := s.catalog.Concept("account"); c != nil && !c.Blocked(fc.field) {
			return heuristicMapping(fc, c.ID, hintConfidence), true
		}
	}

	return common.Mapping{}, false
}

func heuristicMapping(fc fieldContext, concept string, confidence float64) common.Mapping {
	return common.Mapping{
		SourceSystem: fc.System,
		Table:        fc.Table,
		Field:        fc.Field,
		Concept:      concept,
		Confidence:   confidence,
		Method:       common.MethodHeuristic,
	}
}
