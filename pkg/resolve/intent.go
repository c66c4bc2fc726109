package resolve

import (
	"sort"
	"strings"
)

// FilterClause is one filter in a query intent.
type FilterClause struct {
	Dimension string `json:"dimension" validate:"required"`
	Operator  string `json:"operator"`
	Value     string `json:"value" validate:"required"`
}

// QueryIntent is the parsed analytic question handed to the resolver:
// which concepts, sliced by which dimensions, under which filters.
// Natural-language parsing happens upstream.
type QueryIntent struct {
	Concepts   []string       `json:"concepts" validate:"required,min=1"`
	Dimensions []string       `json:"dimensions"`
	Filters    []FilterClause `json:"filters"`
	Persona    string         `json:"persona,omitempty"`
}

// Fingerprint returns a canonical cache key for the intent: lowercased,
// sorted, and order-insensitive, so semantically equal intents share a key.
func (qi QueryIntent) Fingerprint() string {
	concepts := lowerSorted(qi.Concepts)
	dims := lowerSorted(qi.Dimensions)

	filters := make([]string, 0, len(qi.Filters))
	for _, f := range qi.Filters {
		op := f.Operator
		if op == "" {
			op = "eq"
		}
		filters = append(filters, strings.ToLower(f.Dimension)+" "+strings.ToLower(op)+" "+strings.ToLower(f.Value))
	}
	sort.Strings(filters)

	var b strings.Builder
	b.WriteString("c=")
	b.WriteString(strings.Join(concepts, ","))
	b.WriteString("|d=")
	b.WriteString(strings.Join(dims, ","))
	b.WriteString("|f=")
	b.WriteString(strings.Join(filters, ";"))
	b.WriteString("|p=")
	b.WriteString(strings.ToLower(qi.Persona))
	return b.String()
}

func lowerSorted(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	sort.Strings(out)
	return out
}
