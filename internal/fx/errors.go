package fx

import "fmt"

// MissingRateError reports a currency/period pair absent from the rate
// table. There is no implicit default rate; that would mis-state financials
// silently.
type MissingRateError struct {
	Currency string
	Period   string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no FX rate for currency %q period %q", e.Currency, e.Period)
}
