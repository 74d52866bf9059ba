package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RateKey identifies one FX rate: a currency for a period.
type RateKey struct {
	Currency string
	Period   string
}

// FxRateTable maps (currency, period) to the rate into the reporting
// currency. Read-only to the translator.
type FxRateTable struct {
	rates map[RateKey]decimal.Decimal
}

// NewFxRateTable creates an empty rate table.
func NewFxRateTable() *FxRateTable {
	return &FxRateTable{rates: make(map[RateKey]decimal.Decimal)}
}

// Set stores the rate for currency and period.
func (t *FxRateTable) Set(currency, period string, rate decimal.Decimal) {
	t.rates[RateKey{Currency: currency, Period: period}] = rate
}

// Lookup returns the rate for currency and period.
func (t *FxRateTable) Lookup(currency, period string) (decimal.Decimal, bool) {
	rate, ok := t.rates[RateKey{Currency: currency, Period: period}]
	return rate, ok
}

// Len returns the number of rates.
func (t *FxRateTable) Len() int { return len(t.rates) }

// Keys returns all rate keys sorted by currency then period.
func (t *FxRateTable) Keys() []RateKey {
	keys := make([]RateKey, 0, len(t.rates))
	for k := range t.rates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Currency != keys[j].Currency {
			return keys[i].Currency < keys[j].Currency
		}
		return keys[i].Period < keys[j].Period
	})
	return keys
}
