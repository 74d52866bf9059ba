// Package ledger merges normalized trial-balance tables into a master
// ledger and validates the accounting balance invariant.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/closekit-dev/closekit/internal/model"
	"github.com/closekit-dev/closekit/internal/table"
)

// MergePolicy controls what happens when two rows share a ledger key.
type MergePolicy string

const (
	// PolicyAggregate sums Debit and Credit on duplicate keys.
	PolicyAggregate MergePolicy = "aggregate"
	// PolicyStrict rejects duplicate keys.
	PolicyStrict MergePolicy = "strict"
)

// Options controls merging and validation.
type Options struct {
	Policy    MergePolicy
	Tolerance decimal.Decimal // max allowed |total debit - total credit|
}

// Merge aggregates normalized tables into one master ledger for period and
// validates that debits equal credits within the tolerance. Aggregation is
// commutative, so the order of tables does not affect the result.
func Merge(tables []table.NormalizedTable, period string, opts Options) (*model.MasterLedger, error) {
	ml := model.NewMasterLedger()
	for _, t := range tables {
		for _, row := range t.Rows {
			entry := entryFromRow(row, period)
			if opts.Policy == PolicyStrict && ml.Has(entry.Key()) {
				return nil, &DuplicateKeyConflictError{Key: entry.Key(), Source: t.Source}
			}
			ml.Add(entry)
		}
	}
	if err := Validate(ml, opts.Tolerance); err != nil {
		return nil, err
	}
	return ml, nil
}

func entryFromRow(row table.Row, period string) model.LedgerEntry {
	p := row.Cells["Period"]
	if p == "" {
		p = period
	}
	return model.LedgerEntry{
		Entity:      row.Cells["EntityCode"],
		Account:     row.Cells["AccountCode"],
		AccountName: row.Cells["AccountName"],
		Debit:       row.Amount("Debit"),
		Credit:      row.Amount("Credit"),
		Currency:    row.Cells["CurrencyCode"],
		Period:      p,
	}
}

// Validate checks that total Debit equals total Credit within tolerance.
// On violation it reports the delta and each entity's contribution, largest
// first, so the offending source file can be found quickly.
func Validate(ml *model.MasterLedger, tolerance decimal.Decimal) error {
	totalDebit := ml.TotalDebit()
	totalCredit := ml.TotalCredit()
	delta := totalDebit.Sub(totalCredit)
	if delta.Abs().LessThanOrEqual(tolerance) {
		return nil
	}

	byEntity := make(map[string]decimal.Decimal)
	for _, e := range ml.Entries() {
		byEntity[e.Entity] = byEntity[e.Entity].Add(e.Debit).Sub(e.Credit)
	}
	contributions := make([]EntityContribution, 0, len(byEntity))
	for entity, d := range byEntity {
		contributions = append(contributions, EntityContribution{Entity: entity, Delta: d})
	}
	sort.Slice(contributions, func(i, j int) bool {
		a, b := contributions[i].Delta.Abs(), contributions[j].Delta.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return contributions[i].Entity < contributions[j].Entity
	})

	return &BalanceValidationError{
		TotalDebit:    totalDebit,
		TotalCredit:   totalCredit,
		Delta:         delta,
		Tolerance:     tolerance,
		Contributions: contributions,
	}
}
