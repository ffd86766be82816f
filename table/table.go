// Package table implements a minimal column-typed table used to carry local
// batches and flattened remote result sets through the reconciliation
// pipeline. Cell values are dynamically typed: string, float64, bool,
// time.Time, or nil for a missing value.
package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"d2wsync/utils"
)

type Kind int

const (
	String Kind = iota
	Float
	Bool
	Date
)

// Column name to declared type, the equivalent of a dtype table
type Types map[string]Kind

type Row map[string]any

func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type Table struct {
	Cols []string
	Rows []Row
}

func New(cols ...string) Table {
	return Table{Cols: cols}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// A table flattened from an empty remote page set has no columns at all,
// callers check this before indexing
func (t *Table) Empty() bool {
	return len(t.Cols) == 0 || len(t.Rows) == 0
}

func (t *Table) HasCol(name string) bool {
	for _, c := range t.Cols {
		if c == name {
			return true
		}
	}
	return false
}

func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Returns a copy of the table restricted to the given columns, in the given
// order. Errors if any requested column is absent.
func (t *Table) Select(cols []string) (Table, error) {
	for _, c := range cols {
		if !t.HasCol(c) {
			return Table{}, fmt.Errorf("column '%s' not present in table", c)
		}
	}

	out := Table{Cols: append([]string(nil), cols...)}
	for _, row := range t.Rows {
		newRow := make(Row, len(cols))
		for _, c := range cols {
			newRow[c] = row[c]
		}
		out.Append(newRow)
	}
	return out, nil
}

// Filters rows in place order-preservingly, keeping those for which keep
// returns true
func (t *Table) Filter(keep func(Row) bool) Table {
	out := Table{Cols: t.Cols}
	for _, row := range t.Rows {
		if keep(row) {
			out.Append(row)
		}
	}
	return out
}

// Coerces every cell to its declared type. Columns without a declared type
// are left untouched. Date columns accept time.Time values directly or
// strings in a handful of common layouts; either way the result is truncated
// to a calendar day.
func (t *Table) Coerce(types Types) error {
	for _, row := range t.Rows {
		for _, col := range t.Cols {
			kind, ok := types[col]
			if !ok {
				continue
			}
			v, err := CoerceValue(row[col], kind)
			if err != nil {
				return fmt.Errorf("column '%s': %w", col, err)
			}
			row[col] = v
		}
	}
	return nil
}

func CoerceValue(v any, kind Kind) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch kind {
	case Float:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case string:
			if x == "" || x == "NA" {
				return nil, nil
			}
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot coerce '%s' to float", x)
			}
			return f, nil
		}
		return nil, fmt.Errorf("cannot coerce %T to float", v)
	case Bool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			if x == "" {
				return nil, nil
			}
			b, err := strconv.ParseBool(strings.ToLower(x))
			if err != nil {
				return nil, fmt.Errorf("cannot coerce '%s' to bool", x)
			}
			return b, nil
		}
		return nil, fmt.Errorf("cannot coerce %T to bool", v)
	case Date:
		switch x := v.(type) {
		case time.Time:
			return utils.TruncateToDay(x), nil
		case string:
			if x == "" {
				return nil, nil
			}
			d, err := ParseDate(x)
			if err != nil {
				return nil, err
			}
			return d, nil
		}
		return nil, fmt.Errorf("cannot coerce %T to date", v)
	default:
		switch x := v.(type) {
		case string:
			return x, nil
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(x), nil
		case time.Time:
			return x.Format(time.DateOnly), nil
		}
		return fmt.Sprint(v), nil
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Parses a timestamp string in one of the known layouts and truncates it to
// its calendar date
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return utils.TruncateToDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date '%s'", s)
}
