package source

import (
	"errors"
	"fmt"
	"time"

	"d2wsync/table"
)

// Pacfish hydrometric stations. Metadata comes from the pacfish postgres
// schema, with the reporting range recorded as slash-formatted timestamps.
var Pacfish = Spec{
	Name:           "pacfish",
	MonitoringType: "SURFACE_WATER",
	OwnerID:        9,
	RegionCode:     "BC",

	MetaStationCol: "station_id",
	MetaNameCol:    "station_name",
	MetaLatCol:     "lat",
	MetaLongCol:    "long",
	MetaTypes: table.Types{
		"station_id":   table.String,
		"station_name": table.String,
		"lat":          table.Float,
		"long":         table.Float,
		"start_date":   table.String,
		"end_date":     table.String,
	},

	DailyStationCol: "station_number",
	DailyDateCol:    "datetime",
	DailyTypes: table.Types{
		"station_number":    table.String,
		"station_name":      table.String,
		"datetime":          table.Date,
		"pressure":          table.Float,
		"sensor_depth":      table.Float,
		"water_level":       table.Float,
		"water_temperature": table.Float,
	},

	Mapping: NewFieldMapping(
		FieldPair{"station_id", "station_number"},
		FieldPair{"datetime", "datetime"},
		FieldPair{"location_name", "station_name"},
		FieldPair{"barometric_pressure_m", "pressure"},
		FieldPair{"water_level_compensated_m", "sensor_depth"},
		FieldPair{"water_level_staff_gauge_calibrated", "water_level"},
		FieldPair{"temperature_c", "water_temperature"},
	),

	ServerAssignedName: true,

	ExpectedStatus: func(meta table.Row, now time.Time) (string, error) {
		raw, ok := meta["end_date"].(string)
		if !ok || raw == "" {
			return "", errors.New("metadata row has no end_date value")
		}
		last, err := time.Parse("2006/01/02 15:04", raw)
		if err != nil {
			return "", fmt.Errorf("unparseable end_date '%s'", raw)
		}
		if last.Year() >= now.Year()-1 {
			return "ACTIVE", nil
		}
		return "DISCONTINUED", nil
	},

	FileMappingExtras: map[string]any{
		"comments":  "",
		"published": true,
	},
}
