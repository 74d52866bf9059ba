// Package fx converts a master ledger into a single reporting currency and
// makes the rounding residue explicit as per-entity adjustment entries.
package fx

import (
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/closekit-dev/closekit/internal/model"
)

// RoundingMode selects how translated amounts are rounded to the reporting
// currency's minor unit.
type RoundingMode string

const (
	// RoundBank is banker's rounding (half to even), avoiding the
	// systematic bias of always rounding halves up.
	RoundBank RoundingMode = "bank"
	// RoundHalfUp rounds halves away from zero.
	RoundHalfUp RoundingMode = "half-up"
)

// Options controls translation.
type Options struct {
	Rounding RoundingMode
}

// Translate converts every ledger entry into reportingCurrency using the
// rate for its currency and period, then emits one adjustment entry per
// entity absorbing the rounding residue so each entity's translated books
// balance exactly. Entities with zero residue get no adjustment.
func Translate(ml *model.MasterLedger, rates *model.FxRateTable, reportingCurrency string, opts Options) (*model.TranslatedLedger, error) {
	places := MinorUnits(reportingCurrency)
	round := roundFunc(opts.Rounding)

	out := &model.TranslatedLedger{ReportingCurrency: reportingCurrency}
	residuals := make(map[string]decimal.Decimal) // entity -> debit - credit
	periods := make(map[string]string)
	currencies := make(map[string]string)

	for _, entry := range ml.Entries() {
		rate, ok := rates.Lookup(entry.Currency, entry.Period)
		if !ok {
			return nil, &MissingRateError{Currency: entry.Currency, Period: entry.Period}
		}

		debit := round(entry.Debit.Mul(rate), places)
		credit := round(entry.Credit.Mul(rate), places)

		translated := model.TranslatedEntry{
			LedgerEntry: entry,
			Rate:        rate,
			LocalDebit:  entry.Debit,
			LocalCredit: entry.Credit,
		}
		translated.Debit = debit
		translated.Credit = credit
		translated.Currency = reportingCurrency
		out.Entries = append(out.Entries, translated)

		residuals[entry.Entity] = residuals[entry.Entity].Add(debit).Sub(credit)
		if _, ok := periods[entry.Entity]; !ok {
			periods[entry.Entity] = entry.Period
		}
		if _, ok := currencies[entry.Entity]; !ok {
			currencies[entry.Entity] = entry.Currency
		}
	}

	entities := make([]string, 0, len(residuals))
	for entity := range residuals {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	for _, entity := range entities {
		residual := residuals[entity]
		if residual.IsZero() {
			continue
		}
		adj := model.AdjustmentEntry{
			Entity:   entity,
			Period:   periods[entity],
			Currency: reportingCurrency,
		}
		// Excess debit is absorbed on the credit side and vice versa.
		if residual.IsPositive() {
			adj.Credit = residual
		} else {
			adj.Debit = residual.Neg()
		}
		out.Adjustments = append(out.Adjustments, adj)
	}

	return out, nil
}

func roundFunc(mode RoundingMode) func(decimal.Decimal, int32) decimal.Decimal {
	if mode == RoundHalfUp {
		return func(d decimal.Decimal, places int32) decimal.Decimal {
			return d.Round(places)
		}
	}
	return func(d decimal.Decimal, places int32) decimal.Decimal {
		return d.RoundBank(places)
	}
}

// MinorUnits returns the number of fraction digits of an ISO currency,
// defaulting to 2 when the code is unknown.
func MinorUnits(code string) int32 {
	if c := money.GetCurrency(code); c != nil {
		return int32(c.Fraction)
	}
	return 2
}
