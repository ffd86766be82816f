package d2w

import (
	"context"
	"fmt"
	"net/url"
)

// FindStationByBusinessID looks up the station entity carrying the given
// business identifier for one monitoring type. Returns nil without error
// when no such station exists.
func (c *Client) FindStationByBusinessID(ctx context.Context, stationID, monitoringType string) (*Station, error) {
	query := url.Values{
		"station_id":      {stationID},
		"monitoring_type": {monitoringType},
	}

	var page stationPage
	err := c.doJSON(ctx, "GET", c.base+"/api/v1/stations/?"+query.Encode(), nil, &page)
	if err != nil {
		return nil, err
	}

	// Older server versions ignore the monitoring_type filter, so it is
	// applied again here
	for _, station := range page.Results {
		if station.MonitoringType == monitoringType {
			return station, nil
		}
	}
	return nil, nil
}

func (c *Client) CreateStation(ctx context.Context, payload map[string]any) (*Station, error) {
	var out Station
	if err := c.doJSON(ctx, "POST", c.base+"/api/v1/stations/", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStation patches a station entity by its remote id
func (c *Client) UpdateStation(ctx context.Context, id int64, payload map[string]any) (*Station, error) {
	var out Station
	if err := c.doJSON(ctx, "PATCH", fmt.Sprintf("%s/api/v1/stations/%d/", c.base, id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
