package source

import (
	"time"

	"d2wsync/table"
)

// Environment Canada climate stations. The daily file reports a station name
// column, but the server derives location_name from the station entity, so
// it is excluded from change detection. A station counts as active when its
// daily or hourly record reaches into last year, which ignores long stretches
// of missing data.
var EcClimate = Spec{
	Name:           "ecclimate",
	MonitoringType: "CLIMATE",
	OwnerID:        8,
	RegionCode:     "BC",

	MetaStationCol: "Station ID",
	MetaNameCol:    "Name",
	MetaLatCol:     "Latitude (Decimal Degrees)",
	MetaLongCol:    "Longitude (Decimal Degrees)",
	MetaTypes: table.Types{
		"Name":                        table.String,
		"Province":                    table.String,
		"Climate ID":                  table.String,
		"Station ID":                  table.String,
		"WMO ID":                      table.String,
		"TC ID":                       table.String,
		"Latitude (Decimal Degrees)":  table.Float,
		"Longitude (Decimal Degrees)": table.Float,
		"Latitude":                    table.Float,
		"Longitude":                   table.Float,
		"Elevation (m)":               table.Float,
		"First Year":                  table.Float,
		"Last Year":                   table.Float,
		"HLY First Year":              table.Float,
		"HLY Last Year":               table.Float,
		"DLY First Year":              table.Float,
		"DLY Last Year":               table.Float,
		"MLY First Year":              table.Float,
		"MLY Last Year":               table.Float,
	},

	DailyStationCol: "ec_station_id",
	DailyDateCol:    "datetime",
	DailyTypes: table.Types{
		"ec_station_id":     table.String,
		"station_name":      table.String,
		"datetime":          table.Date,
		"max_temp":          table.Float,
		"max_temp_flag":     table.String,
		"min_temp":          table.Float,
		"min_temp_flag":     table.String,
		"mean_temp":         table.Float,
		"mean_temp_flag":    table.String,
		"heat_deg_days":     table.Float,
		"heat_deg_days_flag": table.String,
		"cool_deg_days":     table.Float,
		"cool_deg_days_flag": table.String,
		"total_rain":        table.Float,
		"total_rain_flag":   table.String,
		"total_snow":        table.Float,
		"total_snow_flag":   table.String,
		"total_precip":      table.Float,
		"total_precip_flag": table.String,
		"snow_on_grnd":      table.Float,
		"snow_on_grnd_flag": table.String,
		"dir_of_max_gust":   table.Float,
		"dir_of_max_gust_flag": table.String,
		"spd_of_max_gust":   table.Float,
		"spd_of_max_gust_flag": table.String,
	},

	Mapping: NewFieldMapping(
		FieldPair{"station_id", "ec_station_id"},
		FieldPair{"datetime", "datetime"},
		FieldPair{"location_name", "station_name"},
		FieldPair{"max_temperature_c", "max_temp"},
		FieldPair{"max_temp_flag", "max_temp_flag"},
		FieldPair{"min_temperature_c", "min_temp"},
		FieldPair{"min_temperature_flag", "min_temp_flag"},
		FieldPair{"mean_temperature_c", "mean_temp"},
		FieldPair{"mean_temperature_flag", "mean_temp_flag"},
		FieldPair{"heat_degree_days_c", "heat_deg_days"},
		FieldPair{"heat_degree_days_flag", "heat_deg_days_flag"},
		FieldPair{"cool_degree_days_c", "cool_deg_days"},
		FieldPair{"cool_degree_days_flag", "cool_deg_days_flag"},
		FieldPair{"total_rain_mm", "total_rain"},
		FieldPair{"total_rain_flag", "total_rain_flag"},
		FieldPair{"total_snow_cm", "total_snow"},
		FieldPair{"total_snow_flag", "total_snow_flag"},
		FieldPair{"total_precipitation_mm", "total_precip"},
		FieldPair{"total_precipitation_flag", "total_precip_flag"},
		FieldPair{"snow_on_ground_cm", "snow_on_grnd"},
		FieldPair{"snow_on_ground_flag", "snow_on_grnd_flag"},
		FieldPair{"direction_max_gust_tens_degree", "dir_of_max_gust"},
		FieldPair{"direction_max_gust_flag", "dir_of_max_gust_flag"},
		FieldPair{"speed_max_gust_kmh", "spd_of_max_gust"},
		FieldPair{"speed_max_gust_flag", "spd_of_max_gust_flag"},
	),

	ServerAssignedName: true,

	ExpectedStatus: func(meta table.Row, now time.Time) (string, error) {
		cutoff := float64(now.Year() - 1)
		for _, col := range []string{"DLY Last Year", "HLY Last Year"} {
			if yr, ok := meta[col].(float64); ok && yr >= cutoff {
				return "ACTIVE", nil
			}
		}
		return "DISCONTINUED", nil
	},

	FileMappingExtras: map[string]any{
		"comments":  "",
		"published": true,
	},
}
