package recon

import (
	"fmt"

	"d2wsync/source"
	"d2wsync/table"
)

// Fields lifted out of the nested station sub-object; the rest of it is
// dropped, the local schema has no nested representation
var liftedStationFields = []string{source.RemoteStationIDField, source.RemoteLocationNameField}

// Flatten converts raw remote records into a table using local column names,
// as declared by the source's field mapping. Station identity fields are
// lifted from the nested "station" sub-object to the top level. Values are
// null-normalized and coerced to the source's declared types, with datetimes
// truncated to calendar dates. An empty input yields a table with no columns
// at all; downstream code checks for that before indexing.
func Flatten(raw []map[string]any, spec *source.Spec) (table.Table, error) {
	if len(raw) == 0 {
		return table.Table{}, nil
	}

	out := table.New(spec.Mapping.Locals()...)
	for _, record := range raw {
		flat := liftStation(record)

		row := make(table.Row, spec.Mapping.Len())
		for _, p := range spec.Mapping.Pairs() {
			value := flat[p.Remote]
			// The server renders nulls as "None" in textual fields
			if s, ok := value.(string); ok && s == "None" {
				value = ""
			}
			row[p.Local] = value
		}
		out.Append(row)
	}

	if err := out.Coerce(spec.DailyTypes); err != nil {
		return table.Table{}, fmt.Errorf("flattening remote records: %w", err)
	}
	return out, nil
}

func liftStation(record map[string]any) map[string]any {
	nested, ok := record["station"].(map[string]any)
	if !ok {
		return record
	}

	flat := make(map[string]any, len(record)+len(liftedStationFields))
	for k, v := range record {
		if k == "station" {
			continue
		}
		flat[k] = v
	}
	for _, field := range liftedStationFields {
		flat[field] = nested[field]
	}
	return flat
}
