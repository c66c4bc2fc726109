package resolve

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"strata/pkg/logger"
	"strata/pkg/semgraph"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Confidence composition weights and the per-hop join penalty.
const (
	weightConceptMatch = 0.4
	weightProvenance   = 0.3
	weightJoinPenalty  = 0.2
	weightCoverage     = 0.1

	hopPenalty       = 0.15
	joinPenaltyFloor = 0.3
)

// Resolver turns a QueryIntent into a QueryResolution against a semantic
// graph snapshot. It is stateless apart from its cache: the graph is passed
// per call so a rebuild can swap snapshots under it without coordination.
type Resolver struct {
	cache   *Cache
	maxHops int
}

// ResolverParams contains configuration for creating a Resolver.
type ResolverParams struct {
	CacheTTL time.Duration
	MaxHops  int
}

// NewResolver creates a resolver with its own resolution cache.
func NewResolver(params ResolverParams) *Resolver {
	maxHops := params.MaxHops
	if maxHops <= 0 {
		maxHops = semgraph.DefaultMaxHops
	}
	return &Resolver{
		cache:   NewCache(params.CacheTTL),
		maxHops: maxHops,
	}
}

// InvalidateCache drops all cached resolutions. Called on graph rebuild.
func (r *Resolver) InvalidateCache() {
	r.cache.InvalidateAll()
}

// Resolve answers an intent against the given graph snapshot. It never
// returns an error: semantic failures come back as CanAnswer=false with a
// reason code.
func (r *Resolver) Resolve(g *semgraph.Graph, intent QueryIntent) QueryResolution {
	key := intent.Fingerprint()
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}

	res := r.resolve(g, intent)
	r.cache.Put(key, res)
	return res
}

func (r *Resolver) resolve(g *semgraph.Graph, intent QueryIntent) QueryResolution {
	res := QueryResolution{
		TraceID:              newTraceID(),
		ConceptSources:       make(map[string][]semgraph.ConceptSource),
		DimensionAuthorities: make(map[string]semgraph.Authority),
	}

	// Step 2: locate concept sources.
	totalSources := 0
	for _, concept := range intent.Concepts {
		if g.NodeByID(semgraph.ConceptID(concept)) == nil {
			return fail(res, ReasonConceptNotRecognized,
				fmt.Sprintf("concept %q not recognized", concept))
		}
		srcs := g.ConceptSources(concept)
		if len(srcs) == 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("no sources classified for concept %q", concept))
			continue
		}
		res.ConceptSources[concept] = srcs
		totalSources += len(srcs)
	}
	if totalSources == 0 {
		return fail(res, ReasonNoSources, "no sources found for the requested concepts")
	}

	// Step 3: dimension validity. A dimension with a management overlay is
	// structurally sliceable even without an explicit pairing. When only a
	// subset validates, resolution proceeds on that subset with a warning;
	// it fails closed only when nothing validates.
	var validDims []string
	for _, dim := range intent.Dimensions {
		valid := g.HasOverlay(dim)
		if !valid {
			for _, concept := range intent.Concepts {
				if g.DimensionValid(concept, dim) {
					valid = true
					break
				}
			}
		}
		if valid {
			validDims = append(validDims, dim)
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"dimension %q is not valid for concepts %s; proceeding without it",
				dim, strings.Join(intent.Concepts, ", ")))
		}
	}
	if len(intent.Dimensions) > 0 && len(validDims) == 0 {
		return fail(res, ReasonNoValidDimensions,
			"none of the requested dimensions are valid for the requested concepts")
	}

	// Step 4: dimension authority.
	for _, dim := range validDims {
		auth, ok := g.DimensionAuthority(dim)
		if !ok {
			auth = UnknownAuthority
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("no system of record configured for dimension %q", dim))
		}
		res.DimensionAuthorities[dim] = auth
	}

	// Step 5: join paths from source systems to authority systems that
	// differ from every source system.
	sourceSystems := orderedSourceSystems(intent.Concepts, res.ConceptSources)
	for _, dim := range validDims {
		auth := res.DimensionAuthorities[dim]
		if auth.System == UnknownAuthority.System {
			continue
		}
		if containsFold(sourceSystems, auth.System) {
			continue
		}
		found := false
		for _, sys := range sourceSystems {
			if path, ok := g.FindJoinPath(sys, auth.System, r.maxHops); ok {
				res.JoinPaths = append(res.JoinPaths, path)
				found = true
				break
			}
		}
		if !found {
			return fail(res, ReasonNoJoinPath, fmt.Sprintf(
				"no join path from concept sources to %q, the system of record for %q",
				auth.System, dim))
		}
	}

	// Step 6: filter resolution.
	for _, clause := range intent.Filters {
		res.ResolvedFilters = append(res.ResolvedFilters,
			g.ResolveDimensionFilter(clause.Dimension, clause.Value))
	}

	// Step 7: confidence composition.
	res.Confidence = composeConfidence(intent, res, validDims)

	// Step 8: response assembly.
	res.CanAnswer = true
	res.Hint = buildHint(intent.Concepts, res)
	res.Provenance = narrate(intent, res, validDims)

	logger.Debug("[Resolver] Resolved intent",
		"trace_id", res.TraceID,
		"confidence", res.Confidence.Overall,
		"warnings", len(res.Warnings),
	)
	return res
}

func fail(res QueryResolution, code, reason string) QueryResolution {
	res.CanAnswer = false
	res.ReasonCode = code
	res.Reason = reason
	res.Warnings = append(res.Warnings, reason)
	return res
}

func newTraceID() string {
	id, err := gonanoid.New()
	if err != nil {
		return "trace_unavailable"
	}
	return id
}

// orderedSourceSystems lists the distinct systems providing concept sources,
// strongest classification first. Ties order by system name for determinism.
func orderedSourceSystems(concepts []string, sources map[string][]semgraph.ConceptSource) []string {
	best := make(map[string]float64)
	for _, concept := range concepts {
		for _, s := range sources[concept] {
			if s.Confidence > best[s.System] {
				best[s.System] = s.Confidence
			}
		}
	}
	out := make([]string, 0, len(best))
	for sys := range best {
		out = append(out, sys)
	}
	sort.Slice(out, func(i, j int) bool {
		if best[out[i]] != best[out[j]] {
			return best[out[i]] > best[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
