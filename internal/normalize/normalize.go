// Package normalize maps arbitrary source column headers onto a canonical
// schema and coerces numeric columns, producing tables the merger can trust.
package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/closekit-dev/closekit/internal/table"
)

// Schema is the canonical column set a normalized table must expose.
type Schema struct {
	Required []string
	Optional []string
	Numeric  []string // subset of Required/Optional coerced to decimal
}

// Columns returns required then optional column names.
func (s Schema) Columns() []string {
	return append(append([]string{}, s.Required...), s.Optional...)
}

func (s Schema) isNumeric(column string) bool {
	for _, n := range s.Numeric {
		if n == column {
			return true
		}
	}
	return false
}

// Options controls header matching.
type Options struct {
	// Threshold is the minimum similarity score for a fuzzy header match.
	Threshold float64
	// Scorer rates the similarity of two strings in [0,1]. Defaults to
	// Jaro-Winkler.
	Scorer Scorer
	// Aliases lists known alternative spellings per canonical column,
	// checked after exact matching and before fuzzy scoring.
	Aliases map[string][]string
}

// Normalize maps raw's headers onto schema and coerces numeric columns.
// It returns the normalized table plus diagnostics for raw columns that were
// dropped because nothing in the schema claimed them.
func Normalize(raw table.RawTable, schema Schema, opts Options) (table.NormalizedTable, []string, error) {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = DefaultScorer()
	}

	consumed := make([]bool, len(raw.Headers))
	mapping := make(map[string]int) // canonical column -> raw header index

	match := func(column string, required bool) error {
		// Exact match, case-insensitive.
		for i, h := range raw.Headers {
			if !consumed[i] && strings.EqualFold(h, column) {
				mapping[column] = i
				consumed[i] = true
				return nil
			}
		}
		// Alias match.
		for _, alias := range opts.Aliases[column] {
			for i, h := range raw.Headers {
				if !consumed[i] && strings.EqualFold(h, alias) {
					mapping[column] = i
					consumed[i] = true
					return nil
				}
			}
		}
		// Fuzzy match over the headers no other column consumed.
		best := -1.0
		bestIdx := -1
		ties := []string{}
		for i, h := range raw.Headers {
			if consumed[i] {
				continue
			}
			score := scorer(column, h)
			switch {
			case score > best:
				best = score
				bestIdx = i
				ties = []string{h}
			case score == best:
				ties = append(ties, h)
			}
		}
		if bestIdx < 0 || best < opts.Threshold {
			if !required {
				return nil
			}
			return &SchemaResolutionError{
				Source: raw.Source,
				Column: column,
				Reason: fmt.Sprintf("no header scored at or above %.2f (best %.2f)", opts.Threshold, best),
			}
		}
		if len(ties) > 1 {
			// An ambiguous mapping is an error, not a guess.
			return &SchemaResolutionError{
				Source:     raw.Source,
				Column:     column,
				Reason:     fmt.Sprintf("headers tie at score %.2f", best),
				Candidates: ties,
			}
		}
		mapping[column] = bestIdx
		consumed[bestIdx] = true
		return nil
	}

	for _, column := range schema.Required {
		if err := match(column, true); err != nil {
			return table.NormalizedTable{}, nil, err
		}
	}
	for _, column := range schema.Optional {
		if err := match(column, false); err != nil {
			return table.NormalizedTable{}, nil, err
		}
	}

	var diags []string
	for i, h := range raw.Headers {
		if !consumed[i] {
			diags = append(diags, fmt.Sprintf("%s: dropped unmapped column %q", raw.Source, h))
		}
	}

	columns := make([]string, 0, len(mapping))
	for _, c := range schema.Columns() {
		if _, ok := mapping[c]; ok {
			columns = append(columns, c)
		}
	}

	out := table.NormalizedTable{Source: raw.Source, Columns: columns}
	for rowIdx, rawRow := range raw.Rows {
		row := table.Row{
			Cells:   make(map[string]string, len(columns)),
			Amounts: make(map[string]decimal.Decimal),
		}
		for _, column := range columns {
			cell := coerceCell(column, strings.TrimSpace(rawRow[mapping[column]]))
			row.Cells[column] = cell
			if !schema.isNumeric(column) {
				continue
			}
			amount := decimal.Zero
			if cell != "" {
				var err error
				amount, err = decimal.NewFromString(cell)
				if err != nil {
					// One bad cell fails the whole table; a partial
					// ledger would silently understate totals.
					return table.NormalizedTable{}, nil, &CoercionError{
						Source: raw.Source,
						Column: column,
						Row:    rowIdx + 1,
						Value:  cell,
					}
				}
			}
			row.Amounts[column] = amount
		}
		out.Rows = append(out.Rows, row)
	}
	return out, diags, nil
}

// coerceCell applies per-column cleanup beyond whitespace trimming. Currency
// codes are uppercased so ledger keys match rate-table keys regardless of
// source-file casing; periods keep digits only, truncated to YYYYMM.
func coerceCell(column, cell string) string {
	switch column {
	case "CurrencyCode":
		return strings.ToUpper(cell)
	case "Period":
		var digits strings.Builder
		for _, r := range cell {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		p := digits.String()
		if len(p) > 6 {
			p = p[:6]
		}
		return p
	}
	return cell
}
