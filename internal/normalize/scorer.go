package normalize

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer rates the similarity of two strings, returning a score in [0,1].
type Scorer func(a, b string) float64

// DefaultScorer returns a Jaro-Winkler scorer, which favors strings sharing
// a common prefix — a good fit for column headers like "Debit Amount".
func DefaultScorer() Scorer {
	jw := metrics.NewJaroWinkler()
	return func(a, b string) float64 {
		return strutil.Similarity(a, b, jw)
	}
}

// DefaultAliases lists header spellings seen across common accounting
// systems, keyed by canonical column name.
var DefaultAliases = map[string][]string{
	"EntityCode":   {"Entity", "Company", "CompanyCode", "CoCode", "LegalEntity", "LE"},
	"AccountCode":  {"GL", "GLCode", "Account", "Acct", "GL Account", "Account Number"},
	"AccountName":  {"AccountDesc", "Account Description", "GL Name"},
	"Debit":        {"Dr", "Debits", "Debit Amount"},
	"Credit":       {"Cr", "Credits", "Credit Amount"},
	"Period":       {"FiscalPeriod", "PeriodId", "YYYYMM", "PostingPeriod"},
	"CurrencyCode": {"Currency", "Curr", "ISO Currency", "LCY"},
	"FXRate":       {"Rate", "FX", "ExchangeRate"},
}
