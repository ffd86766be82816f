package d2w

import (
	"context"
	"fmt"
	"net/url"

	"d2wsync/utils"
)

// Timestamp format the server expects in range filters
const queryTimeLayout = "2006-01-02T00:00:00-00:00"

// ListRecords fetches one page of observation records for a station within
// the given window. Pass an empty cursor for the first page and the returned
// cursor for subsequent ones; an empty returned cursor means the listing is
// exhausted.
func (c *Client) ListRecords(ctx context.Context, monitoringType, stationID string, span utils.TimeSpan, cursor string) ([]map[string]any, string, error) {
	rawURL := cursor
	if rawURL == "" {
		path, ok := recordPaths[monitoringType]
		if !ok {
			return nil, "", fmt.Errorf("unknown monitoring type '%s'", monitoringType)
		}

		query := url.Values{"station_id": {stationID}}
		if span.From != nil {
			query.Set("start_date", span.From.Format(queryTimeLayout))
		}
		if span.To != nil {
			query.Set("end_date", span.To.Format(queryTimeLayout))
		}
		rawURL = c.base + "/api/v1/" + path + "/?" + query.Encode()
	}

	var page Page
	if err := c.doJSON(ctx, "GET", rawURL, nil, &page); err != nil {
		return nil, "", err
	}

	next := ""
	if page.Next != nil {
		next = *page.Next
	}
	return page.Results, next, nil
}

// CreateRecord posts a single observation record
func (c *Client) CreateRecord(ctx context.Context, monitoringType string, payload map[string]any) (map[string]any, error) {
	path, ok := recordPaths[monitoringType]
	if !ok {
		return nil, fmt.Errorf("unknown monitoring type '%s'", monitoringType)
	}

	var out map[string]any
	err := c.doJSON(ctx, "POST", c.base+"/api/v1/"+path+"/", payload, &out)
	return out, err
}

// UpdateRecord patches a stored observation record by id. Merge semantics:
// fields absent from the payload are left unchanged server-side.
func (c *Client) UpdateRecord(ctx context.Context, monitoringType string, id int64, payload map[string]any) (map[string]any, error) {
	path, ok := recordPaths[monitoringType]
	if !ok {
		return nil, fmt.Errorf("unknown monitoring type '%s'", monitoringType)
	}

	var out map[string]any
	err := c.doJSON(ctx, "PATCH", fmt.Sprintf("%s/api/v1/%s/%d/", c.base, path, id), payload, &out)
	return out, err
}
