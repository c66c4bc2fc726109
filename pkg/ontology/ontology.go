package ontology

import (
	"fmt"
	"regexp"
	"sort"
)

// Concept is a canonical business metric or entity in the ontology.
//
// Patterns and NegativePatterns are regular expressions matched against raw
// field names during classification. NegativePatterns block an otherwise
// matching field from classifying as this concept.
type Concept struct {
	ID               string   `yaml:"id"`
	Label            string   `yaml:"label"`
	Aliases          []string `yaml:"aliases"`
	Examples         []string `yaml:"examples"`
	Patterns         []string `yaml:"patterns"`
	NegativePatterns []string `yaml:"negative_patterns"`
	Hints            []string `yaml:"hints"`
	Financial        bool     `yaml:"financial"`

	patterns         []*regexp.Regexp
	negativePatterns []*regexp.Regexp
}

// MatchesPattern reports whether the field name matches one of the concept's
// positive patterns.
func (c *Concept) MatchesPattern(field string) bool {
	for _, re := range c.patterns {
		if re.MatchString(field) {
			return true
		}
	}
	return false
}

// Blocked reports whether the field name hits one of the concept's negative
// patterns.
func (c *Concept) Blocked(field string) bool {
	for _, re := range c.negativePatterns {
		if re.MatchString(field) {
			return true
		}
	}
	return false
}

func (c *Concept) compile() error {
	c.patterns = c.patterns[:0]
	for _, p := range c.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("failed to compile pattern %q for concept %q: %w", p, c.ID, err)
		}
		c.patterns = append(c.patterns, re)
	}
	c.negativePatterns = c.negativePatterns[:0]
	for _, p := range c.NegativePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("failed to compile negative pattern %q for concept %q: %w", p, c.ID, err)
		}
		c.negativePatterns = append(c.negativePatterns, re)
	}
	return nil
}

// Catalog holds the concept list and the concept↔dimension pairing table.
//
// Concepts are exposed in lexicographic id order so that confidence ties
// downstream break deterministically and documentably, rather than by
// registration order.
type Catalog struct {
	concepts map[string]*Concept
	ids      []string
	pairings map[string][]string
}

// NewCatalog builds a catalog from a concept list and a concept→dimensions
// pairing table. Concept patterns are compiled eagerly; an invalid pattern
// fails the whole load.
func NewCatalog(concepts []Concept, pairings map[string][]string) (*Catalog, error) {
	cat := &Catalog{
		concepts: make(map[string]*Concept, len(concepts)),
		pairings: make(map[string][]string, len(pairings)),
	}
	for i := range concepts {
		c := concepts[i]
		if c.ID == "" {
			return nil, fmt.Errorf("concept at index %d has no id", i)
		}
		if err := c.compile(); err != nil {
			return nil, err
		}
		if _, exists := cat.concepts[c.ID]; !exists {
			cat.ids = append(cat.ids, c.ID)
		}
		cat.concepts[c.ID] = &c
	}
	sort.Strings(cat.ids)
	for concept, dims := range pairings {
		cat.pairings[concept] = append([]string(nil), dims...)
	}
	return cat, nil
}

// Concept returns the concept with the given id, or nil.
func (cat *Catalog) Concept(id string) *Concept {
	return cat.concepts[id]
}

// Concepts returns all concepts in lexicographic id order.
func (cat *Catalog) Concepts() []*Concept {
	out := make([]*Concept, 0, len(cat.ids))
	for _, id := range cat.ids {
		out = append(out, cat.concepts[id])
	}
	return out
}

// Has reports whether a concept with the given id is registered.
func (cat *Catalog) Has(id string) bool {
	_, ok := cat.concepts[id]
	return ok
}

// DimensionsFor returns the dimensions paired with a concept.
func (cat *Catalog) DimensionsFor(concept string) []string {
	return cat.pairings[concept]
}

// Pairings returns the full concept→dimensions pairing table.
func (cat *Catalog) Pairings() map[string][]string {
	return cat.pairings
}

// Len returns the number of registered concepts.
func (cat *Catalog) Len() int {
	return len(cat.concepts)
}
