package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// EntryKey identifies one master-ledger row.
type EntryKey struct {
	Entity  string
	Account string
	Period  string
}

// LedgerEntry is one aggregated trial-balance row. Both Debit and Credit may
// be populated; source systems differ on whether rows carry one side or both.
type LedgerEntry struct {
	Entity      string
	Account     string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Currency    string
	Period      string
}

// Key returns the unique key of the entry.
func (e LedgerEntry) Key() EntryKey {
	return EntryKey{Entity: e.Entity, Account: e.Account, Period: e.Period}
}

// MasterLedger is the deduplicated, aggregated trial balance across all
// entities for a period.
type MasterLedger struct {
	entries map[EntryKey]LedgerEntry
}

// NewMasterLedger creates an empty master ledger.
func NewMasterLedger() *MasterLedger {
	return &MasterLedger{entries: make(map[EntryKey]LedgerEntry)}
}

// Get returns the entry for key, if present.
func (m *MasterLedger) Get(key EntryKey) (LedgerEntry, bool) {
	e, ok := m.entries[key]
	return e, ok
}

// Has reports whether key is present.
func (m *MasterLedger) Has(key EntryKey) bool {
	_, ok := m.entries[key]
	return ok
}

// Put stores entry, replacing any existing entry with the same key.
func (m *MasterLedger) Put(entry LedgerEntry) {
	m.entries[entry.Key()] = entry
}

// Add sums entry's Debit and Credit into the existing entry with the same
// key, or inserts it. Name and currency of the first entry win.
func (m *MasterLedger) Add(entry LedgerEntry) {
	key := entry.Key()
	cur, ok := m.entries[key]
	if !ok {
		m.entries[key] = entry
		return
	}
	cur.Debit = cur.Debit.Add(entry.Debit)
	cur.Credit = cur.Credit.Add(entry.Credit)
	m.entries[key] = cur
}

// Len returns the number of entries.
func (m *MasterLedger) Len() int { return len(m.entries) }

// Entries returns all entries sorted by entity, account and period, so a
// ledger's serialized form does not depend on insertion order.
func (m *MasterLedger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity != out[j].Entity {
			return out[i].Entity < out[j].Entity
		}
		if out[i].Account != out[j].Account {
			return out[i].Account < out[j].Account
		}
		return out[i].Period < out[j].Period
	})
	return out
}

// TotalDebit sums Debit across the ledger.
func (m *MasterLedger) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range m.entries {
		total = total.Add(e.Debit)
	}
	return total
}

// TotalCredit sums Credit across the ledger.
func (m *MasterLedger) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range m.entries {
		total = total.Add(e.Credit)
	}
	return total
}
