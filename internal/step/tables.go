package step

import (
	"github.com/closekit-dev/closekit/internal/model"
	"github.com/closekit-dev/closekit/internal/normalize"
	"github.com/closekit-dev/closekit/internal/table"
)

// masterColumns is the column layout of the master and translated ledger
// tables.
var masterColumns = []string{
	"EntityCode", "AccountCode", "AccountName",
	"Debit", "Credit", "CurrencyCode", "Period",
}

// masterSchema reads a master table back; headers are already canonical so
// matching is exact.
var masterSchema = normalize.Schema{
	Required: []string{"EntityCode", "AccountCode", "Debit", "Credit", "CurrencyCode"},
	Optional: []string{"AccountName", "Period"},
	Numeric:  []string{"Debit", "Credit"},
}

func ledgerRows(ml *model.MasterLedger) [][]string {
	entries := ml.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Entity, e.Account, e.AccountName,
			e.Debit.StringFixed(2), e.Credit.StringFixed(2),
			e.Currency, e.Period,
		})
	}
	return rows
}

// readMasterLedger loads a previously written master table.
func readMasterLedger(path, period string, opts normalize.Options) (*model.MasterLedger, error) {
	raw, err := table.Read(path)
	if err != nil {
		return nil, err
	}
	normalized, _, err := normalize.Normalize(raw, masterSchema, opts)
	if err != nil {
		return nil, err
	}

	ml := model.NewMasterLedger()
	for _, row := range normalized.Rows {
		p := row.Cells["Period"]
		if p == "" {
			p = period
		}
		ml.Add(model.LedgerEntry{
			Entity:      row.Cells["EntityCode"],
			Account:     row.Cells["AccountCode"],
			AccountName: row.Cells["AccountName"],
			Debit:       row.Amount("Debit"),
			Credit:      row.Amount("Credit"),
			Currency:    row.Cells["CurrencyCode"],
			Period:      p,
		})
	}
	return ml, nil
}
