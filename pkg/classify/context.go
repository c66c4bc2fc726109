package classify

import "regexp"

// TableContext is the broad domain of a table, inferred once from its name
// and reused for every field in it.
type TableContext string

const (
	ContextFinancial      TableContext = "financial"
	ContextCRM            TableContext = "crm"
	ContextInfrastructure TableContext = "infrastructure"
	ContextGeneral        TableContext = "general"
)

var (
	financialTableRe = regexp.MustCompile(`(?i)(^|_)(gl|ledger|journal|finance|fin|revenue|invoice|billing|ar|ap|payment)(_|$)`)
	crmTableRe       = regexp.MustCompile(`(?i)(^|_)(crm|opportunit\w*|lead|leads|contact\w*|campaign\w*|pipeline)(_|$)`)
	infraTableRe     = regexp.MustCompile(`(?i)(^|_)(host|server|node|instance|cluster|deploy\w*|infra\w*)(_|$)`)
)

// tableContext infers the domain of a table from its name.
func tableContext(table string) TableContext {
	switch {
	case financialTableRe.MatchString(table):
		return ContextFinancial
	case crmTableRe.MatchString(table):
		return ContextCRM
	case infraTableRe.MatchString(table):
		return ContextInfrastructure
	default:
		return ContextGeneral
	}
}
