package source

// Built-in alias, pattern, and category tables. These cover the common
// shorthands seen in schema exports and keep normalization useful when the
// registry is unreachable.

var builtinAliases = map[string]AliasRule{
	"ns":          {Canonical: "netsuite", Confidence: 0.95},
	"netsuite_us": {Canonical: "netsuite", Confidence: 0.92},
	"sfdc":        {Canonical: "salesforce", Confidence: 0.95},
	"sf":          {Canonical: "salesforce", Confidence: 0.90},
	"wd":          {Canonical: "workday", Confidence: 0.90},
	"wday":        {Canonical: "workday", Confidence: 0.92},
	"sap_erp":     {Canonical: "sap", Confidence: 0.95},
	"dyn365":      {Canonical: "dynamics365", Confidence: 0.92},
	"gsheets":     {Canonical: "google_sheets", Confidence: 0.90},
}

var builtinPatternRules = []PatternRule{
	{Pattern: `^netsuite[-_.]`, Canonical: "netsuite", Confidence: 0.85},
	{Pattern: `^salesforce[-_.]`, Canonical: "salesforce", Confidence: 0.85},
	{Pattern: `^(workday|wd)[-_.]`, Canonical: "workday", Confidence: 0.85},
	{Pattern: `^sap[-_.]`, Canonical: "sap", Confidence: 0.85},
	{Pattern: `^dynamics`, Canonical: "dynamics365", Confidence: 0.80},
}

var builtinCategoryRules = []CategoryRule{
	{Pattern: `crm|sales|pipeline|lead`, Category: "crm"},
	{Pattern: `erp|ledger|finan|netsuite|sap|invoice|billing`, Category: "erp"},
	{Pattern: `hr|people|workday|payroll|talent`, Category: "hcm"},
	{Pattern: `warehouse|lake|snowflake|bigquery|redshift|dbt`, Category: "data_platform"},
	{Pattern: `jira|ticket|servicedesk|pagerduty`, Category: "operations"},
}
