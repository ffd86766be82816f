// Package recon implements the reconciliation engine: it partitions locally
// collected observation rows against the windowed remote result set into
// rows to create, rows to patch and no-ops, and keeps station identity
// records on the remote store in line with local metadata.
package recon

import (
	"math"
	"time"

	"d2wsync/table"
)

// Decimal places used when comparing numbers across the two systems
const DefaultRoundFigs = 5

// Normalize canonicalizes a scalar value for cross-system equality checks.
// Missing numbers, the textual "nan" left behind by CSV round trips and the
// "None" the server renders JSON nulls as all collapse into the empty-string
// sentinel the remote store uses for "no value". Must be applied to both
// sides of a comparison or false diffs result. Idempotent, no side effects.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return x
	case string:
		if x == "nan" || x == "None" {
			return ""
		}
		return x
	default:
		return v
	}
}

// Round rounds numeric values to the given number of decimal places, leaving
// everything else untouched. Used on comparison copies only, stored values
// keep their full precision.
func Round(v any, figs int) any {
	if x, ok := v.(float64); ok {
		return roundFloat(x, figs)
	}
	return v
}

func roundFloat(x float64, figs int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	pow := math.Pow(10, float64(figs))
	return math.Round(x*pow) / pow
}

// Returns a comparison copy of the table with every cell rounded and
// null-normalized
func normalizeTable(t table.Table, figs int) table.Table {
	out := table.Table{Cols: t.Cols}
	for _, row := range t.Rows {
		newRow := make(table.Row, len(row))
		for col, v := range row {
			newRow[col] = Normalize(Round(v, figs))
		}
		out.Append(newRow)
	}
	return out
}

// Equality after normalization. Dates compare by instant, everything else by
// its canonical value.
func valuesEqual(a, b any) bool {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Equal(bt)
	}
	return a == b
}
