package source

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"strata/pkg/logger"
)

// AliasRule points a known shorthand at a canonical source id.
type AliasRule struct {
	Canonical  string
	Confidence float64
}

// PatternRule maps identifiers matching a regex onto a canonical source id.
type PatternRule struct {
	Pattern    string
	Canonical  string
	Confidence float64

	re *regexp.Regexp
}

// CategoryRule infers a category for discovered sources from the raw id.
type CategoryRule struct {
	Pattern  string
	Category string

	re *regexp.Regexp
}

const (
	fuzzyThreshold  = 0.7
	fuzzyScale      = 0.9
	discoveredConf  = 0.5
	fallbackTrust   = 0.5
	defaultCooldown = 60 * time.Second
)

// Normalizer resolves raw source-system identifiers to canonical sources
// through ordered tiers: exact registry match, alias map, pattern rules,
// fuzzy similarity, and finally synthesis of a discovered entry.
//
// One normalizer owns one circuit breaker; the registry is fetched lazily on
// first use and refreshed only after the breaker's cooldown allows it.
type Normalizer struct {
	client  *RegistryClient
	breaker *CircuitBreaker

	aliases       map[string]AliasRule
	patternRules  []PatternRule
	categoryRules []CategoryRule

	mu         sync.RWMutex
	registry   map[string]CanonicalSource
	loaded     bool
	discovered map[string]Result
}

// NormalizerParams contains configuration for creating a Normalizer.
type NormalizerParams struct {
	Client   *RegistryClient
	Cooldown time.Duration

	// Aliases, PatternRules, and CategoryRules extend the built-in tables.
	Aliases       map[string]AliasRule
	PatternRules  []PatternRule
	CategoryRules []CategoryRule
}

// NewNormalizer creates a normalizer with the built-in alias, pattern, and
// category tables merged with any configured extensions.
func NewNormalizer(params NormalizerParams) (*Normalizer, error) {
	cooldown := params.Cooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}

	n := &Normalizer{
		client:     params.Client,
		breaker:    NewCircuitBreaker(cooldown),
		aliases:    make(map[string]AliasRule),
		registry:   make(map[string]CanonicalSource),
		discovered: make(map[string]Result),
	}

	for raw, rule := range builtinAliases {
		n.aliases[raw] = rule
	}
	for raw, rule := range params.Aliases {
		n.aliases[raw] = rule
	}

	for _, rule := range append(append([]PatternRule(nil), builtinPatternRules...), params.PatternRules...) {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		rule.re = re
		n.patternRules = append(n.patternRules, rule)
	}
	for _, rule := range append(append([]CategoryRule(nil), builtinCategoryRules...), params.CategoryRules...) {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		rule.re = re
		n.categoryRules = append(n.categoryRules, rule)
	}

	return n, nil
}

// Breaker exposes the normalizer's circuit breaker for health reporting.
func (n *Normalizer) Breaker() *CircuitBreaker {
	return n.breaker
}

// LoadRegistry fetches the canonical source catalog. A failed fetch trips the
// circuit breaker and leaves the previous registry (possibly empty) in place;
// normalization then runs on built-in aliases alone. A successful fetch
// resets the breaker.
func (n *Normalizer) LoadRegistry(ctx context.Context) {
	if n.client == nil {
		return
	}
	sources, err := n.client.FetchSources(ctx)
	if err != nil {
		n.breaker.Trip()
		logger.Warn("[Registry] Fetch failed, breaker tripped", "err", err)
		return
	}
	n.breaker.Reset()

	registry := make(map[string]CanonicalSource, len(sources))
	for _, s := range sources {
		if s.DiscoveryStatus == "" {
			s.DiscoveryStatus = StatusRegistered
		}
		registry[strings.ToLower(s.ID)] = s
	}

	n.mu.Lock()
	n.registry = registry
	n.loaded = true
	n.mu.Unlock()

	logger.Info("[Registry] Loaded canonical sources", "count", len(sources))
}

func (n *Normalizer) ensureRegistry(ctx context.Context) {
	n.mu.RLock()
	loaded := n.loaded
	n.mu.RUnlock()
	if loaded || n.breaker.Open() {
		return
	}
	n.LoadRegistry(ctx)
}

// Normalize resolves a raw source identifier, returning the first tier that
// produces a hit. It never fails: unknown identifiers synthesize a discovered
// entry, and repeated calls with the same raw id reuse it.
func (n *Normalizer) Normalize(ctx context.Context, rawID string) Result {
	n.ensureRegistry(ctx)

	key := strings.ToLower(strings.TrimSpace(rawID))

	n.mu.RLock()
	if src, ok := n.registry[key]; ok {
		n.mu.RUnlock()
		return Result{Source: src, Confidence: 1.0, Tier: TierExact}
	}
	n.mu.RUnlock()

	if rule, ok := n.aliases[key]; ok {
		return Result{
			Source:     n.canonicalOrFallback(rule.Canonical),
			Confidence: rule.Confidence,
			Tier:       TierAlias,
		}
	}

	for _, rule := range n.patternRules {
		if rule.re.MatchString(key) {
			return Result{
				Source:     n.canonicalOrFallback(rule.Canonical),
				Confidence: rule.Confidence,
				Tier:       TierPattern,
			}
		}
	}

	if res, ok := n.fuzzyMatch(key); ok {
		return res
	}

	return n.discover(key)
}

// canonicalOrFallback resolves a canonical id from the registry, or
// synthesizes a reduced-trust entry when an alias or pattern rule points at
// an id the registry does not know.
func (n *Normalizer) canonicalOrFallback(canonicalID string) CanonicalSource {
	key := strings.ToLower(canonicalID)
	n.mu.RLock()
	src, ok := n.registry[key]
	n.mu.RUnlock()
	if ok {
		return src
	}
	return CanonicalSource{
		ID:              key,
		Name:            canonicalID,
		Category:        n.inferCategory(key),
		TrustScore:      fallbackTrust,
		DiscoveryStatus: StatusUnverified,
	}
}

func (n *Normalizer) fuzzyMatch(key string) (Result, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var best CanonicalSource
	bestSim := 0.0
	for _, src := range n.registry {
		sim := similarity(key, strings.ToLower(src.ID))
		if s := similarity(key, strings.ToLower(src.Name)); s > sim {
			sim = s
		}
		if src.Vendor != "" {
			if s := similarity(key, strings.ToLower(src.Vendor)); s > sim {
				sim = s
			}
		}
		if sim > bestSim {
			bestSim = sim
			best = src
		}
	}
	if bestSim < fuzzyThreshold {
		return Result{}, false
	}
	return Result{Source: best, Confidence: bestSim * fuzzyScale, Tier: TierFuzzy}, true
}

// discover synthesizes a pending-triage entry for an id no tier recognized.
// The entry is cached for the process lifetime so repeated calls are
// idempotent.
func (n *Normalizer) discover(key string) Result {
	n.mu.Lock()
	defer n.mu.Unlock()

	if res, ok := n.discovered[key]; ok {
		return res
	}

	id := "discovered_" + sanitizeID(key)
	res := Result{
		Source: CanonicalSource{
			ID:              id,
			Name:            key,
			Category:        n.inferCategory(key),
			TrustScore:      discoveredConf,
			DiscoveryStatus: StatusPendingTriage,
		},
		Confidence: discoveredConf,
		Tier:       TierDiscovered,
	}
	n.discovered[key] = res
	logger.Info("[Registry] Discovered unknown source", "raw", key, "id", id)
	return res
}

func (n *Normalizer) inferCategory(key string) string {
	for _, rule := range n.categoryRules {
		if rule.re.MatchString(key) {
			return rule.Category
		}
	}
	return "unknown"
}

var sanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)

func sanitizeID(raw string) string {
	return strings.Trim(sanitizeRe.ReplaceAllString(strings.ToLower(raw), "_"), "_")
}
