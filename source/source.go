// Package source holds the per-source configuration data driving the
// reconciliation engine: dtype tables, remote/local field mappings, key
// columns, owner ids and status rules. These are data, not behavior; adding
// a source means adding a Spec, not touching the engine.
package source

import (
	"fmt"
	"path/filepath"
	"time"

	"d2wsync/table"
)

// The remote field name carrying the station business identifier and the
// display name lifted out of the nested station sub-object
const (
	RemoteStationIDField    = "station_id"
	RemoteLocationNameField = "location_name"
	RemoteDatetimeField     = "datetime"
)

type Spec struct {
	Name           string
	MonitoringType string
	OwnerID        int64
	RegionCode     string

	// Station metadata file schema
	MetaStationCol string
	MetaNameCol    string
	MetaLatCol     string
	MetaLongCol    string
	MetaTypes      table.Types

	// Daily readings file schema
	DailyStationCol string
	DailyDateCol    string
	DailyTypes      table.Types

	// Remote field name <-> daily column name; defines the compare set.
	// Whether server-side flags like `published` take part in change
	// detection is decided per source by including or omitting them here.
	Mapping FieldMapping

	// The display name column is derived from the station entity on the
	// server side for some sources; when set it never triggers an update
	ServerAssignedName bool

	// Source-specific rule deriving the expected operational status of a
	// station from its metadata row
	ExpectedStatus func(meta table.Row, now time.Time) (string, error)

	// Extra constant fields sent alongside a bulk CSV submission
	FileMappingExtras map[string]any
}

// Compare columns in local naming: key columns first, then every mapped
// value/flag column
func (s *Spec) CompareCols() []string {
	return s.Mapping.Locals()
}

func (s *Spec) MetadataPath(dir string) string {
	return filepath.Join(dir, s.Name+"-metadata.csv")
}

func (s *Spec) DailyPath(dir string) string {
	return filepath.Join(dir, s.Name+"-daily.csv")
}

func (s *Spec) TempDir(base string) string {
	return filepath.Join(base, s.Name)
}

// FileMapping builds the column mapping submitted with a staged CSV:
// the field mapping plus the constant extras and the owner id.
func (s *Spec) FileMapping() map[string]any {
	out := make(map[string]any, s.Mapping.Len()+len(s.FileMappingExtras)+1)
	for _, p := range s.Mapping.Pairs() {
		out[p.Remote] = p.Local
	}
	out["owner"] = s.OwnerID
	for k, v := range s.FileMappingExtras {
		out[k] = v
	}
	return out
}

var registry = map[string]*Spec{
	"hydat":     &Hydat,
	"ecclimate": &EcClimate,
	"pacfish":   &Pacfish,
}

func Get(name string) (*Spec, error) {
	spec, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown source '%s'", name)
	}
	return spec, nil
}
