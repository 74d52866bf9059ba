package model

import "github.com/shopspring/decimal"

// TranslatedEntry is a ledger entry converted into the reporting currency.
// LocalDebit and LocalCredit keep the pre-translation amounts for the
// adjustment report.
type TranslatedEntry struct {
	LedgerEntry
	Rate        decimal.Decimal
	LocalDebit  decimal.Decimal
	LocalCredit decimal.Decimal
}

// AdjustmentEntry is a synthetic row absorbing the rounding residue of one
// entity so its translated debits equal its translated credits.
type AdjustmentEntry struct {
	Entity   string
	Period   string
	Currency string
	Debit    decimal.Decimal
	Credit   decimal.Decimal
}

// TranslatedLedger is a master ledger in a single reporting currency plus
// the per-entity rounding adjustments.
type TranslatedLedger struct {
	ReportingCurrency string
	Entries           []TranslatedEntry
	Adjustments       []AdjustmentEntry
}

// TotalDebit sums translated Debit including adjustments.
func (t *TranslatedLedger) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.Debit)
	}
	for _, a := range t.Adjustments {
		total = total.Add(a.Debit)
	}
	return total
}

// TotalCredit sums translated Credit including adjustments.
func (t *TranslatedLedger) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.Credit)
	}
	for _, a := range t.Adjustments {
		total = total.Add(a.Credit)
	}
	return total
}
