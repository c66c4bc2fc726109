package ontology

// DefaultCatalog returns the built-in concept set used when no catalog file is
// configured. Pattern sets are intentionally conservative; site-specific
// concepts belong in the catalog file.
func DefaultCatalog() (*Catalog, error) {
	concepts := []Concept{
		{
			ID:        "revenue",
			Label:     "Revenue",
			Aliases:   []string{"sales", "turnover", "income", "bookings"},
			Examples:  []string{"total_revenue", "net_revenue", "gross_sales", "arr"},
			Patterns:  []string{`(?i)(^|_)revenue(_|$)`, `(?i)(^|_)(net|gross)_sales(_|$)`},
			Hints:     []string{"amount"},
			Financial: true,
		},
		{
			ID:        "cost",
			Label:     "Cost",
			Aliases:   []string{"expense", "spend", "cogs", "opex"},
			Examples:  []string{"total_cost", "unit_cost", "operating_expense"},
			Patterns:  []string{`(?i)(^|_)cost(s)?(_|$)`, `(?i)(^|_)expense(s)?(_|$)`},
			Hints:     []string{"amount"},
			Financial: true,
		},
		{
			ID:      "account",
			Label:   "Account",
			Aliases: []string{"acct", "client_account"},
			Examples: []string{
				"account_id", "account_name", "acct_number",
			},
			Patterns: []string{`(?i)(^|_)acc(oun)?t(_|$)`},
			// General-ledger fields belong to the gl_account concept, never
			// to the generic account.
			NegativePatterns: []string{`(?i)^gl_`, `(?i)(^|_)ledger(_|$)`},
			Hints:            []string{"account"},
			Financial:        true,
		},
		{
			ID:       "gl_account",
			Label:    "General Ledger Account",
			Aliases:  []string{"ledger_account", "chart_of_accounts"},
			Examples: []string{"gl_account_id", "gl_code", "ledger_account_number"},
			Patterns: []string{`(?i)^gl_`, `(?i)(^|_)ledger_acc(oun)?t(_|$)`},

			Financial: true,
		},
		{
			ID:       "customer",
			Label:    "Customer",
			Aliases:  []string{"client", "buyer", "subscriber"},
			Examples: []string{"customer_id", "customer_name", "client_ref"},
			Patterns: []string{`(?i)(^|_)customer(_|$)`, `(?i)(^|_)client(_|$)`},
		},
		{
			ID:       "product",
			Label:    "Product",
			Aliases:  []string{"sku", "item", "offering"},
			Examples: []string{"product_id", "product_name", "sku_code"},
			Patterns: []string{`(?i)(^|_)product(_|$)`, `(?i)(^|_)sku(_|$)`},
		},
		{
			ID:       "order",
			Label:    "Order",
			Aliases:  []string{"purchase", "sales_order"},
			Examples: []string{"order_id", "order_number", "po_number"},
			Patterns: []string{`(?i)(^|_)order(_|$)`},
		},
		{
			ID:        "invoice",
			Label:     "Invoice",
			Aliases:   []string{"bill", "billing_document"},
			Examples:  []string{"invoice_id", "invoice_number", "bill_ref"},
			Patterns:  []string{`(?i)(^|_)invoice(_|$)`},
			Financial: true,
		},
		{
			ID:       "employee",
			Label:    "Employee",
			Aliases:  []string{"worker", "staff", "headcount"},
			Examples: []string{"employee_id", "worker_id", "staff_number"},
			Patterns: []string{`(?i)(^|_)employee(_|$)`, `(?i)(^|_)worker(_|$)`},
		},
	}

	pairings := map[string][]string{
		"revenue":    {"region", "division", "product_line", "period", "customer_segment"},
		"cost":       {"region", "division", "cost_center", "period"},
		"account":    {"region", "customer_segment"},
		"gl_account": {"cost_center", "period"},
		"customer":   {"region", "customer_segment", "division"},
		"product":    {"product_line", "region"},
		"order":      {"region", "period", "product_line"},
		"invoice":    {"region", "period"},
		"employee":   {"division", "region", "cost_center"},
	}

	return NewCatalog(concepts, pairings)
}
