package classify

import (
	"context"
	"sync"

	"strata/pkg/common"
	"strata/pkg/logger"
	"strata/pkg/ontology"

	"golang.org/x/sync/errgroup"
)

// DefaultEdgeThreshold is the minimum cross-system edge confidence accepted
// by the edge tier.
const DefaultEdgeThreshold = 0.70

// fieldContext carries one field plus its precomputed table context through
// the classification tiers.
type fieldContext struct {
	System string
	Table  string
	Field  string

	field    string // lowercased Field
	tableCtx TableContext
}

// strategy is one classification tier. Tiers are attempted in order and the
// first hit short-circuits the rest.
type strategy interface {
	Name() string
	Attempt(fc fieldContext) (common.Mapping, bool)
}

// Classifier assigns ontology concepts to raw schema fields through ordered,
// short-circuiting tiers: cross-system edge lookup, positive patterns,
// example/alias similarity, and semantic-hint fallback.
type Classifier struct {
	catalog    *ontology.Catalog
	strategies []strategy
}

// ClassifierParams contains configuration for creating a Classifier.
type ClassifierParams struct {
	Catalog *ontology.Catalog
	Edges   *EdgeIndex

	// EdgeThreshold overrides DefaultEdgeThreshold when > 0.
	EdgeThreshold float64
}

// NewClassifier creates a classifier with the standard tier order.
func NewClassifier(params ClassifierParams) *Classifier {
	threshold := params.EdgeThreshold
	if threshold <= 0 {
		threshold = DefaultEdgeThreshold
	}
	edges := params.Edges
	if edges == nil {
		edges = NewEdgeIndex(nil)
	}
	return &Classifier{
		catalog: params.Catalog,
		strategies: []strategy{
			&edgeStrategy{catalog: params.Catalog, edges: edges, threshold: threshold},
			&patternStrategy{catalog: params.Catalog},
			&similarityStrategy{catalog: params.Catalog},
			&hintStrategy{catalog: params.Catalog},
		},
	}
}

// ClassifyField classifies a single field. The second return is false when no
// tier produced a mapping; such fields stay unclassified.
func (c *Classifier) ClassifyField(system, table, field string) (common.Mapping, bool) {
	return c.classify(fieldContext{
		System:   system,
		Table:    table,
		Field:    field,
		field:    lower(field),
		tableCtx: tableContext(table),
	})
}

// ClassifyTable classifies every field of a table. The table context is
// computed once and shared by all fields.
func (c *Classifier) ClassifyTable(table common.SchemaTable) []common.Mapping {
	tc := tableContext(table.Table)
	mappings := make([]common.Mapping, 0, len(table.Fields))
	for _, field := range table.Fields {
		m, ok := c.classify(fieldContext{
			System:   table.System,
			Table:    table.Table,
			Field:    field,
			field:    lower(field),
			tableCtx: tc,
		})
		if ok {
			mappings = append(mappings, m)
		}
	}
	return mappings
}

// ClassifySchemas classifies all tables concurrently, one goroutine per
// table. Result order follows the input table order.
func (c *Classifier) ClassifySchemas(ctx context.Context, tables []common.SchemaTable) ([]common.Mapping, error) {
	perTable := make([][]common.Mapping, len(tables))
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, table := range tables {
		g.Go(func() error {
			result := c.ClassifyTable(table)
			mu.Lock()
			perTable[i] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []common.Mapping
	for _, ms := range perTable {
		all = append(all, ms...)
	}
	logger.Debug("[Classifier] Classified schemas", "tables", len(tables), "mappings", len(all))
	return all, nil
}

func (c *Classifier) classify(fc fieldContext) (common.Mapping, bool) {
	for _, s := range c.strategies {
		if m, ok := s.Attempt(fc); ok {
			return m, true
		}
	}
	return common.Mapping{}, false
}
