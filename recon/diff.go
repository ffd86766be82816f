package recon

import (
	"errors"
	"fmt"
	"slices"

	"d2wsync/table"
)

// Duplicate composite keys within one batch are a data-quality problem that
// has to be surfaced, never resolved by silently picking a row
var ErrDuplicateKey = errors.New("duplicate (station, date) key")

type DiffSpec struct {
	StationCol  string
	DateCol     string
	CompareCols []string
	// Columns taking part in the key join but excluded from change
	// detection, e.g. a display name the server derives from the station
	// entity
	ExcludeFromMatch []string
	RoundFigs        int
}

func (s DiffSpec) roundFigs() int {
	if s.RoundFigs == 0 {
		return DefaultRoundFigs
	}
	return s.RoundFigs
}

// Columns whose values decide changed-vs-unchanged for rows present on both
// sides: every compare column minus the key and the excluded ones
func (s DiffSpec) valueCols() []string {
	out := make([]string, 0, len(s.CompareCols))
	for _, col := range s.CompareCols {
		if col == s.StationCol || col == s.DateCol {
			continue
		}
		if slices.Contains(s.ExcludeFromMatch, col) {
			continue
		}
		out = append(out, col)
	}
	return out
}

// Reconcile partitions the local batch against the flattened remote set.
// Rows whose key is absent from the remote set are additions; rows present
// on both sides whose value columns differ after rounding and
// null-normalization are updates; the rest are no-ops and dropped. Emitted
// rows are the original local rows with their full column set and
// unrounded values, rounding only ever applies to comparison copies.
//
// Pure and deterministic: re-running against a remote set that already
// reflects the local batch yields two empty tables.
func Reconcile(local, remote table.Table, spec DiffSpec) (add, update table.Table, err error) {
	add = table.Table{Cols: local.Cols}
	update = table.Table{Cols: local.Cols}

	localCmp, err := local.Select(spec.CompareCols)
	if err != nil {
		return add, update, fmt.Errorf("local batch: %w", err)
	}
	localCmp = normalizeTable(localCmp, spec.roundFigs())

	// Uniqueness of the local keys is checked even when the remote side is
	// empty
	if _, err := indexRows(localCmp, spec, "local batch"); err != nil {
		return add, update, err
	}

	// No remote columns at all means nothing in the window: every local row
	// is an addition
	if remote.Empty() {
		add.Rows = append(add.Rows, local.Rows...)
		return add, update, nil
	}

	remoteCmp, err := remote.Select(spec.CompareCols)
	if err != nil {
		return add, update, fmt.Errorf("remote set: %w", err)
	}
	remoteCmp = normalizeTable(remoteCmp, spec.roundFigs())

	remoteIdx, err := indexRows(remoteCmp, spec, "remote set")
	if err != nil {
		return add, update, err
	}

	valueCols := spec.valueCols()
	for i, cmpRow := range localCmp.Rows {
		key, err := rowKey(cmpRow, spec.StationCol, spec.DateCol)
		if err != nil {
			return add, update, err
		}

		remoteRow, ok := remoteIdx[key]
		if !ok {
			add.Append(local.Rows[i])
			continue
		}

		for _, col := range valueCols {
			if !valuesEqual(cmpRow[col], remoteRow[col]) {
				update.Append(local.Rows[i])
				break
			}
		}
	}

	return add, update, nil
}

// Indexes normalized comparison rows by composite key, erroring on
// collisions
func indexRows(t table.Table, spec DiffSpec, side string) (map[Key]table.Row, error) {
	idx := make(map[Key]table.Row, t.Len())
	for _, row := range t.Rows {
		key, err := rowKey(row, spec.StationCol, spec.DateCol)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", side, err)
		}
		if _, dup := idx[key]; dup {
			return nil, fmt.Errorf("%s: %w: %s", side, ErrDuplicateKey, key)
		}
		idx[key] = row
	}
	return idx, nil
}
