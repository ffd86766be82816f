package recon

import (
	"testing"
	"time"

	"d2wsync/source"
)

func hydatRecord(station string, datetime string, flow any, id float64) map[string]any {
	return map[string]any{
		"id":       id,
		"datetime": datetime,
		"water_flow_calibrated_mps":          flow,
		"water_level_staff_gauge_calibrated": "None",
		"published":                          "True",
		"station": map[string]any{
			"id":            55.0,
			"station_id":    station,
			"location_name": "Fraser River",
			"monitoring_type": "SURFACE_WATER",
		},
	}
}

func TestFlattenEmptyInput(t *testing.T) {
	out, err := Flatten(nil, &source.Hydat)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Cols) != 0 {
		t.Errorf("Got %d columns for empty input, wanted none", len(out.Cols))
	}
}

func TestFlattenLiftsStationFields(t *testing.T) {
	raw := []map[string]any{hydatRecord("08MF005", "2023-01-01T00:00:00Z", 12.3, 77)}

	out, err := Flatten(raw, &source.Hydat)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 1 {
		t.Fatalf("Got %d rows, wanted 1", out.Len())
	}

	row := out.Rows[0]
	if got := row["STATION_NUMBER"]; got != "08MF005" {
		t.Errorf("STATION_NUMBER = %v, wanted 08MF005", got)
	}
	// Only the mapped columns survive, the nested station sub-object is gone
	if out.HasCol("station") || out.HasCol("monitoring_type") {
		t.Error("nested station fields leaked into the flattened table")
	}
	if len(out.Cols) != source.Hydat.Mapping.Len() {
		t.Errorf("Got %d columns, wanted %d", len(out.Cols), source.Hydat.Mapping.Len())
	}
}

func TestFlattenCoercesTypes(t *testing.T) {
	raw := []map[string]any{hydatRecord("08MF005", "2023-01-01T18:30:00Z", 12.3, 77)}

	out, err := Flatten(raw, &source.Hydat)
	if err != nil {
		t.Fatal(err)
	}
	row := out.Rows[0]

	date, ok := row["Date"].(time.Time)
	if !ok {
		t.Fatalf("Date = %T, wanted time.Time", row["Date"])
	}
	// Timestamps truncate to the calendar day
	expected := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	if !date.Equal(expected) {
		t.Errorf("Date = %v, wanted %v", date, expected)
	}

	if flow, ok := row["flow"].(float64); !ok || flow != 12.3 {
		t.Errorf("flow = %v, wanted 12.3", row["flow"])
	}
	// Server-side nulls come through as "None" and become the empty sentinel
	if row["level"] != nil && row["level"] != "" {
		t.Errorf("level = %v, wanted empty", row["level"])
	}
}

func TestFlattenMissingFields(t *testing.T) {
	// A record without one of the mapped fields still flattens, the value is
	// just missing
	raw := []map[string]any{{
		"datetime": "2023-01-01T00:00:00Z",
		"station":  map[string]any{"station_id": "08MF005", "location_name": "Fraser River"},
	}}

	out, err := Flatten(raw, &source.Hydat)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows[0]["flow"] != nil {
		t.Errorf("flow = %v, wanted nil", out.Rows[0]["flow"])
	}
}
