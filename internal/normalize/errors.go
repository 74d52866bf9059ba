package normalize

import (
	"fmt"
	"strings"
)

// SchemaResolutionError reports a canonical column that could not be mapped
// confidently onto a raw header.
type SchemaResolutionError struct {
	Source     string
	Column     string
	Reason     string
	Candidates []string
}

func (e *SchemaResolutionError) Error() string {
	msg := fmt.Sprintf("%s: cannot resolve column %q: %s", e.Source, e.Column, e.Reason)
	if len(e.Candidates) > 0 {
		msg += " (candidates: " + strings.Join(e.Candidates, ", ") + ")"
	}
	return msg
}

// CoercionError reports a cell that could not be parsed as a decimal.
type CoercionError struct {
	Source string
	Column string
	Row    int // 1-based data row, excluding the header
	Value  string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s: row %d: cannot parse %s value %q as decimal", e.Source, e.Row, e.Column, e.Value)
}
