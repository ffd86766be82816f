package d2w

// One page of a record listing. Next carries the cursor URL of the following
// page, empty when this is the last one.
type Page struct {
	Count   int              `json:"count"`
	Next    *string          `json:"next"`
	Results []map[string]any `json:"results"`
}

// Remote station entity, limited to the fields the engine tracks
type Station struct {
	ID               int64   `json:"id"`
	StationID        string  `json:"station_id"`
	MonitoringType   string  `json:"monitoring_type"`
	MonitoringStatus string  `json:"monitoring_status"`
	LocationName     string  `json:"location_name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Owner            int64   `json:"owner"`
	ProvTerrStateLc  string  `json:"prov_terr_state_lc"`
}

type stationPage struct {
	Count   int        `json:"count"`
	Next    *string    `json:"next"`
	Results []*Station `json:"results"`
}

// API paths per monitoring type
var recordPaths = map[string]string{
	"SURFACE_WATER": "surfacewater",
	"CLIMATE":       "climate",
}
