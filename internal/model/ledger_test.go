package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMasterLedger_AddAggregates(t *testing.T) {
	ml := NewMasterLedger()
	ml.Add(LedgerEntry{Entity: "E1", Account: "A1", Period: "202301", Debit: dec("100"), Currency: "USD"})
	ml.Add(LedgerEntry{Entity: "E1", Account: "A1", Period: "202301", Credit: dec("40"), Currency: "USD"})

	assert.Equal(t, 1, ml.Len())
	entry, ok := ml.Get(EntryKey{Entity: "E1", Account: "A1", Period: "202301"})
	require.True(t, ok)
	assert.Equal(t, "100", entry.Debit.String())
	assert.Equal(t, "40", entry.Credit.String())
	assert.Equal(t, "USD", entry.Currency)
}

func TestMasterLedger_DistinctKeys(t *testing.T) {
	ml := NewMasterLedger()
	ml.Add(LedgerEntry{Entity: "E1", Account: "A1", Period: "202301", Debit: dec("1")})
	ml.Add(LedgerEntry{Entity: "E1", Account: "A1", Period: "202302", Debit: dec("2")})
	ml.Add(LedgerEntry{Entity: "E2", Account: "A1", Period: "202301", Debit: dec("3")})

	assert.Equal(t, 3, ml.Len())
}

func TestMasterLedger_EntriesSorted(t *testing.T) {
	ml := NewMasterLedger()
	ml.Add(LedgerEntry{Entity: "E2", Account: "A1", Period: "202301"})
	ml.Add(LedgerEntry{Entity: "E1", Account: "A2", Period: "202301"})
	ml.Add(LedgerEntry{Entity: "E1", Account: "A1", Period: "202301"})

	entries := ml.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "E1", entries[0].Entity)
	assert.Equal(t, "A1", entries[0].Account)
	assert.Equal(t, "A2", entries[1].Account)
	assert.Equal(t, "E2", entries[2].Entity)
}

func TestMasterLedger_Totals(t *testing.T) {
	ml := NewMasterLedger()
	ml.Add(LedgerEntry{Entity: "E1", Account: "A1", Period: "202301", Debit: dec("10.50")})
	ml.Add(LedgerEntry{Entity: "E1", Account: "A2", Period: "202301", Credit: dec("10.50")})

	assert.True(t, ml.TotalDebit().Equal(ml.TotalCredit()))
}

func TestFxRateTable(t *testing.T) {
	rates := NewFxRateTable()
	rates.Set("EUR", "202301", dec("1.08"))
	rates.Set("EUR", "202302", dec("1.09"))

	rate, ok := rates.Lookup("EUR", "202301")
	require.True(t, ok)
	assert.Equal(t, "1.08", rate.String())

	_, ok = rates.Lookup("GBP", "202301")
	assert.False(t, ok)

	keys := rates.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, "202301", keys[0].Period)
}

func TestTranslatedLedger_TotalsIncludeAdjustments(t *testing.T) {
	tl := &TranslatedLedger{
		ReportingCurrency: "USD",
		Entries: []TranslatedEntry{
			{LedgerEntry: LedgerEntry{Debit: dec("1.00")}},
			{LedgerEntry: LedgerEntry{Credit: dec("1.01")}},
		},
		Adjustments: []AdjustmentEntry{
			{Entity: "E1", Debit: dec("0.01")},
		},
	}
	assert.True(t, tl.TotalDebit().Equal(tl.TotalCredit()))
}
