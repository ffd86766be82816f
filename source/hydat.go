package source

import (
	"errors"
	"time"

	"d2wsync/table"
)

// HYDAT surface water stations. Status is maintained upstream, so the
// expected status is read straight from the metadata file.
var Hydat = Spec{
	Name:           "hydat",
	MonitoringType: "SURFACE_WATER",
	OwnerID:        7,
	RegionCode:     "BC",

	MetaStationCol: "STATION_NUMBER",
	MetaNameCol:    "STATION_NAME",
	MetaLatCol:     "LATITUDE",
	MetaLongCol:    "LONGITUDE",
	MetaTypes: table.Types{
		"STATION_NUMBER":       table.String,
		"STATION_NAME":         table.String,
		"STATION_STATUS":       table.String,
		"DRAINAGE_AREA_GROSS":  table.Float,
		"DRAINAGE_AREA_EFFECT": table.Float,
		"RHBN":                 table.String,
		"REAL_TIME":            table.String,
		"LATITUDE":             table.Float,
		"LONGITUDE":            table.Float,
		"DATUM_ID":             table.Float,
	},

	DailyStationCol: "STATION_NUMBER",
	DailyDateCol:    "Date",
	DailyTypes: table.Types{
		"STATION_NUMBER": table.String,
		"Date":           table.Date,
		"flow":           table.Float,
		"level":          table.Float,
		"pub_status":     table.String,
	},

	Mapping: NewFieldMapping(
		FieldPair{"station_id", "STATION_NUMBER"},
		FieldPair{"datetime", "Date"},
		FieldPair{"water_flow_calibrated_mps", "flow"},
		FieldPair{"water_level_staff_gauge_calibrated", "level"},
		FieldPair{"published", "pub_status"},
	),

	ExpectedStatus: func(meta table.Row, _ time.Time) (string, error) {
		status, ok := meta["STATION_STATUS"].(string)
		if !ok {
			return "", errors.New("metadata row has no STATION_STATUS value")
		}
		return status, nil
	},

	FileMappingExtras: map[string]any{
		"comments": "",
	},
}
