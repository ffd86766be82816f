package recon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"d2wsync/source"
	"d2wsync/table"
)

type Updater interface {
	UpdateRecord(ctx context.Context, monitoringType string, id int64, payload map[string]any) (map[string]any, error)
}

type CSVPoster interface {
	PostCSVFile(ctx context.Context, path string, mapping map[string]any) error
}

// IndexRemote builds a lookup of the raw remote records by composite key.
// Built once per station so update application is a hash lookup per row
// instead of a scan over the whole remote list.
func IndexRemote(raw []map[string]any, spec *source.Spec) (map[Key]map[string]any, error) {
	idx := make(map[Key]map[string]any, len(raw))
	for _, record := range raw {
		flat := liftStation(record)

		station, _ := flat[source.RemoteStationIDField].(string)
		rawDate, _ := flat[source.RemoteDatetimeField].(string)
		if station == "" || rawDate == "" {
			return nil, fmt.Errorf("remote record is missing station id or datetime")
		}
		date, err := table.ParseDate(rawDate)
		if err != nil {
			return nil, err
		}

		key := Key{Station: station, Date: date.Format(time.DateOnly)}
		if _, dup := idx[key]; dup {
			return nil, fmt.Errorf("remote set: %w: %s", ErrDuplicateKey, key)
		}
		idx[key] = record
	}
	return idx, nil
}

// ApplyUpdates issues one patch call per update row. The patch carries only
// the remote-named fields backed by a mapped local column, minus the key
// columns and the server-assigned display name; values go through the
// null-sentinel normalization on the way out. A failing row is logged with
// its key and skipped, it never aborts the remaining rows.
func ApplyUpdates(ctx context.Context, store Updater, spec *source.Spec, updates table.Table, remoteIdx map[Key]map[string]any) (updated, failed int) {
	for _, row := range updates.Rows {
		key, err := rowKey(row, spec.DailyStationCol, spec.DailyDateCol)
		if err != nil {
			slog.Error("skipping update row: " + err.Error())
			failed++
			continue
		}

		record, ok := remoteIdx[key]
		if !ok {
			slog.Error("no stored remote record for update row " + key.String())
			failed++
			continue
		}
		id, ok := recordID(record)
		if !ok {
			slog.Error("remote record for " + key.String() + " has no id")
			failed++
			continue
		}

		payload := buildPatch(row, spec)
		if _, err := store.UpdateRecord(ctx, spec.MonitoringType, id, payload); err != nil {
			slog.Error(fmt.Sprintf("failed updating %s: %s", key, err))
			failed++
			continue
		}
		updated++
	}
	return updated, failed
}

func buildPatch(row table.Row, spec *source.Spec) map[string]any {
	payload := make(map[string]any, spec.Mapping.Len())
	for _, p := range spec.Mapping.Pairs() {
		// Key columns never change through this path, and the display name
		// is owned by the station entity
		if p.Local == spec.DailyStationCol || p.Local == spec.DailyDateCol {
			continue
		}
		if p.Remote == source.RemoteLocationNameField {
			continue
		}
		payload[p.Remote] = Normalize(row[p.Local])
	}
	return payload
}

func recordID(record map[string]any) (int64, bool) {
	switch id := record["id"].(type) {
	case float64:
		return int64(id), true
	case int64:
		return id, true
	}
	return 0, false
}

// StageAdditions writes the addition rows for one station to a CSV staged
// for bulk submission, named <station>_<date>.csv under the source's temp
// directory
func StageAdditions(tempDir string, spec *source.Spec, stationID string, add table.Table) (string, error) {
	dir := spec.TempDir(tempDir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", stationID, time.Now().Format(time.DateOnly)))
	if err := table.WriteCSV(path, add, ""); err != nil {
		return "", err
	}
	return path, nil
}

// PostStaged submits every staged CSV under the source's temp directory as a
// bulk-create request. Files are deleted on success and retained on failure
// so the next run can retry them.
func PostStaged(ctx context.Context, store CSVPoster, spec *source.Spec, tempDir string) (posted, failed int) {
	dir := spec.TempDir(tempDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("could not read staging directory: " + err.Error())
		}
		return 0, 0
	}

	mapping := spec.FileMapping()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := store.PostCSVFile(ctx, path, mapping); err != nil {
			slog.Error(fmt.Sprintf("failed posting '%s', keeping for next run: %s", entry.Name(), err))
			failed++
			continue
		}

		slog.Info("Uploaded new data from file: " + entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("could not clean staged file: " + err.Error())
		}
		posted++
	}
	return posted, failed
}
