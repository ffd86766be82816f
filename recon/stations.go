package recon

import (
	"context"
	"fmt"
	"time"

	"d2wsync/d2w"
	"d2wsync/source"
	"d2wsync/table"
)

type StationStore interface {
	FindStationByBusinessID(ctx context.Context, stationID, monitoringType string) (*d2w.Station, error)
	CreateStation(ctx context.Context, payload map[string]any) (*d2w.Station, error)
	UpdateStation(ctx context.Context, id int64, payload map[string]any) (*d2w.Station, error)
}

type StationAction int

const (
	StationUnchanged StationAction = iota
	StationCreated
	StationPatched
)

func (a StationAction) String() string {
	switch a {
	case StationCreated:
		return "created"
	case StationPatched:
		return "patched"
	default:
		return "unchanged"
	}
}

// ReconcileStation ensures a remote station entity exists for the metadata
// row and matches it on status and coordinates. Two states only: absent
// leads to a create, present to a compare-and-maybe-patch. Entities are
// never deleted, and the operation is idempotent per station.
func ReconcileStation(ctx context.Context, store StationStore, spec *source.Spec, meta table.Row, now time.Time) (StationAction, error) {
	stationID, ok := meta[spec.MetaStationCol].(string)
	if !ok || stationID == "" {
		return StationUnchanged, fmt.Errorf("metadata row has no station id in column '%s'", spec.MetaStationCol)
	}

	found, err := store.FindStationByBusinessID(ctx, stationID, spec.MonitoringType)
	if err != nil {
		return StationUnchanged, fmt.Errorf("looking up station %s: %w", stationID, err)
	}

	lat := Normalize(Round(meta[spec.MetaLatCol], DefaultRoundFigs))
	long := Normalize(Round(meta[spec.MetaLongCol], DefaultRoundFigs))

	if found == nil {
		payload := map[string]any{
			"station_id":         stationID,
			"owner":              spec.OwnerID,
			"monitoring_type":    spec.MonitoringType,
			"location_name":      Normalize(meta[spec.MetaNameCol]),
			"latitude":           lat,
			"longitude":          long,
			"prov_terr_state_lc": spec.RegionCode,
		}
		if _, err := store.CreateStation(ctx, payload); err != nil {
			return StationUnchanged, fmt.Errorf("creating station %s: %w", stationID, err)
		}
		return StationCreated, nil
	}

	status, err := spec.ExpectedStatus(meta, now)
	if err != nil {
		return StationUnchanged, fmt.Errorf("station %s: %w", stationID, err)
	}

	discrepant := status != found.MonitoringStatus ||
		!valuesEqual(lat, roundFloat(found.Latitude, DefaultRoundFigs)) ||
		!valuesEqual(long, roundFloat(found.Longitude, DefaultRoundFigs))
	if !discrepant {
		return StationUnchanged, nil
	}

	payload := map[string]any{
		"monitoring_status": status,
		"latitude":          lat,
		"longitude":         long,
	}
	if _, err := store.UpdateStation(ctx, found.ID, payload); err != nil {
		return StationUnchanged, fmt.Errorf("updating station %s: %w", stationID, err)
	}
	return StationPatched, nil
}
