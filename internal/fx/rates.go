package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/closekit-dev/closekit/internal/model"
	"github.com/closekit-dev/closekit/internal/normalize"
	"github.com/closekit-dev/closekit/internal/table"
)

// RatesSchema is the canonical schema of a rate file. Rows without a Period
// column apply to whatever period the caller passes to LoadRatesFile.
var RatesSchema = normalize.Schema{
	Required: []string{"CurrencyCode", "FXRate"},
	Optional: []string{"Period"},
	Numeric:  []string{"FXRate"},
}

// LoadRatesFile reads an XLSX or CSV rate table, normalizing its headers the
// same way trial-balance files are normalized.
func LoadRatesFile(path, period string, opts normalize.Options) (*model.FxRateTable, []string, error) {
	raw, err := table.Read(path)
	if err != nil {
		return nil, nil, err
	}
	normalized, diags, err := normalize.Normalize(raw, RatesSchema, opts)
	if err != nil {
		return nil, nil, err
	}

	rates := model.NewFxRateTable()
	for _, row := range normalized.Rows {
		p := row.Cells["Period"]
		if p == "" {
			p = period
		}
		currency := strings.ToUpper(row.Cells["CurrencyCode"])
		rates.Set(currency, p, row.Amount("FXRate"))
	}
	return rates, diags, nil
}

// FetchRates retrieves rates for one period from a JSON endpoint shaped like
// {"rates": {"EUR": 1.08}}.
func FetchRates(ctx context.Context, client *http.Client, url, period string) (*model.FxRateTable, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building rate request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching rates: unexpected status %s", resp.Status)
	}

	var payload struct {
		Rates map[string]json.Number `json:"rates"`
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding rates: %w", err)
	}

	rates := model.NewFxRateTable()
	for currency, num := range payload.Rates {
		rate, err := decimal.NewFromString(num.String())
		if err != nil {
			return nil, fmt.Errorf("parsing rate for %s: %w", currency, err)
		}
		rates.Set(strings.ToUpper(currency), period, rate)
	}
	return rates, nil
}
