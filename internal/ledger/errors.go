package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/closekit-dev/closekit/internal/model"
)

// EntityContribution is one entity's share of a balance delta.
type EntityContribution struct {
	Entity string
	Delta  decimal.Decimal
}

// BalanceValidationError reports a master ledger whose debits and credits
// diverge beyond the configured tolerance.
type BalanceValidationError struct {
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	Delta         decimal.Decimal
	Tolerance     decimal.Decimal
	Contributions []EntityContribution // sorted by |delta|, largest first
}

func (e *BalanceValidationError) Error() string {
	parts := make([]string, len(e.Contributions))
	for i, c := range e.Contributions {
		parts[i] = fmt.Sprintf("%s %s", c.Entity, c.Delta.StringFixed(2))
	}
	return fmt.Sprintf("ledger out of balance: debits %s != credits %s (delta %s, tolerance %s; by entity: %s)",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2),
		e.Delta.StringFixed(2), e.Tolerance.String(), strings.Join(parts, ", "))
}

// DuplicateKeyConflictError reports a repeated ledger key under the strict
// merge policy.
type DuplicateKeyConflictError struct {
	Key    model.EntryKey
	Source string
}

func (e *DuplicateKeyConflictError) Error() string {
	return fmt.Sprintf("%s: duplicate ledger key entity=%s account=%s period=%s",
		e.Source, e.Key.Entity, e.Key.Account, e.Key.Period)
}
