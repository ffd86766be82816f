package recon

import (
	"context"
	"fmt"

	"d2wsync/utils"
)

// The record listing capability of the remote store, one page at a time
type Lister interface {
	ListRecords(ctx context.Context, monitoringType, stationID string, span utils.TimeSpan, cursor string) (records []map[string]any, next string, err error)
}

// FetchAll retrieves every remote record for one station and window, walking
// the cursor chain until the listing is exhausted. Page order is whatever the
// server returns, callers must not rely on it. A failure on any page fails
// the whole fetch; one station's fetch failure is independent of the others.
func FetchAll(ctx context.Context, lister Lister, monitoringType, stationID string, span utils.TimeSpan) ([]map[string]any, error) {
	var out []map[string]any

	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, next, err := lister.ListRecords(ctx, monitoringType, stationID, span, cursor)
		if err != nil {
			return nil, fmt.Errorf("listing records for station %s: %w", stationID, err)
		}
		out = append(out, records...)

		if next == "" {
			return out, nil
		}
		cursor = next
	}
}
