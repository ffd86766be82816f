package recon

import (
	"fmt"
	"time"

	"d2wsync/table"
)

// Composite key identifying one observation: station business id plus
// calendar date. Dates carry no time component, sources report daily
// aggregates.
type Key struct {
	Station string
	Date    string
}

func (k Key) String() string {
	return k.Station + " @ " + k.Date
}

func rowKey(row table.Row, stationCol, dateCol string) (Key, error) {
	station, ok := row[stationCol].(string)
	if !ok || station == "" {
		return Key{}, fmt.Errorf("row has no station id in column '%s'", stationCol)
	}

	switch d := row[dateCol].(type) {
	case time.Time:
		return Key{Station: station, Date: d.Format(time.DateOnly)}, nil
	case string:
		t, err := table.ParseDate(d)
		if err != nil {
			return Key{}, err
		}
		return Key{Station: station, Date: t.Format(time.DateOnly)}, nil
	default:
		return Key{}, fmt.Errorf("row has no usable date in column '%s'", dateCol)
	}
}
