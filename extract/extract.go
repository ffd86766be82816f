// Package extract copies station metadata and windowed daily readings from
// the local postgres mirror into the CSV files the sync step consumes.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"d2wsync/source"
	"d2wsync/table"
	"d2wsync/utils"
)

const ConnEnvVar = "DBASE_CONN_STRING"

// Where each source's data lives in the mirror database
type schemaTables struct {
	metaTable  string
	dailyTable string
	dateCol    string
}

var tables = map[string]schemaTables{
	"hydat":     {"hydat.station_metadata", "hydat.daily", "Date"},
	"ecclimate": {"ecclimate.station_metadata", "ecclimate.daily", "datetime"},
	"pacfish":   {"pacfish.station_metadata", "pacfish.daily", "datetime"},
}

type Config struct {
	Schemas   []string         `arg:"positional" help:"Source schemas to export, all by default"`
	StartDate *utils.Timestamp `arg:"--start-date" help:"Export daily readings starting from this date"`
	EndDate   *utils.Timestamp `arg:"--end-date" help:"Export daily readings up to this date"`
	MetaDir   string           `arg:"--meta-dir" default:"./data/metadata" help:"Directory the station metadata files are written to"`
	DataDir   string           `arg:"--data-dir" default:"./data/update" help:"Directory the daily update files are written to"`
	SkipDaily bool             `help:"Only export station metadata"`
}

func (Config) Description() string {
	return `Export station metadata and daily readings from postgres to CSV.
The "DBASE_CONN_STRING" environment variable needs to be set.`
}

func (config *Config) Execute() int {
	if err := godotenv.Load(); err != nil {
		fmt.Println(err)
		return 1
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	schemas := utils.FilterSlice(config.Schemas, names, "Schema '%s' is not a known source, skipping")

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, os.Getenv(ConnEnvVar))
	if err != nil {
		fmt.Println("Could not connect to the mirror database:", err)
		return 1
	}
	defer pool.Close()

	status := 0
	for _, schema := range schemas {
		if err := config.exportSchema(ctx, pool, schema); err != nil {
			slog.Error(schema + ": " + err.Error())
			status = 1
		}
	}
	return status
}

func (config *Config) exportSchema(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	spec, err := source.Get(schema)
	if err != nil {
		return err
	}
	layout := tables[schema]

	if err := os.MkdirAll(config.MetaDir, os.ModePerm); err != nil {
		return err
	}

	meta, err := queryTable(ctx, pool, "select * from "+layout.metaTable, nil)
	if err != nil {
		return fmt.Errorf("exporting metadata: %w", err)
	}
	// Stations without coordinates cannot be created on the remote store
	meta = meta.Filter(func(row table.Row) bool {
		return row[spec.MetaLatCol] != nil && row[spec.MetaLongCol] != nil
	})
	if err := table.WriteCSV(spec.MetadataPath(config.MetaDir), meta, ""); err != nil {
		return err
	}
	slog.Info(fmt.Sprintf("%s: %d metadata rows exported", schema, meta.Len()))

	if config.SkipDaily {
		return nil
	}
	if err := os.MkdirAll(config.DataDir, os.ModePerm); err != nil {
		return err
	}

	query, args := dailyQuery(layout, config.StartDate, config.EndDate)
	daily, err := queryTable(ctx, pool, query, args)
	if err != nil {
		return fmt.Errorf("exporting daily readings: %w", err)
	}
	if err := table.WriteCSV(spec.DailyPath(config.DataDir), daily, ""); err != nil {
		return err
	}
	slog.Info(fmt.Sprintf("%s: %d daily rows exported", schema, daily.Len()))
	return nil
}

func dailyQuery(layout schemaTables, start, end *utils.Timestamp) (string, []any) {
	query := "select * from " + layout.dailyTable
	var args []any

	if start != nil {
		args = append(args, *start.Inner())
		query += fmt.Sprintf(" where %q >= $%d", layout.dateCol, len(args))
	}
	if end != nil {
		args = append(args, *end.Inner())
		if len(args) == 1 {
			query += fmt.Sprintf(" where %q <= $%d", layout.dateCol, len(args))
		} else {
			query += fmt.Sprintf(" and %q <= $%d", layout.dateCol, len(args))
		}
	}
	return query, args
}

// Runs a query and collects the result into a table, with column names taken
// from the row description
func queryTable(ctx context.Context, pool *pgxpool.Pool, query string, args []any) (table.Table, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return table.Table{}, err
	}
	defer rows.Close()

	cols := make([]string, 0, len(rows.FieldDescriptions()))
	for _, fd := range rows.FieldDescriptions() {
		cols = append(cols, string(fd.Name))
	}

	out := table.New(cols...)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return table.Table{}, err
		}
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[col] = normalizeDBValue(values[i])
		}
		out.Append(row)
	}
	return out, rows.Err()
}

// pgx returns driver-specific numeric widths; the engine only deals in
// float64, string, bool and time.Time
func normalizeDBValue(v any) any {
	switch x := v.(type) {
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x
	default:
		return v
	}
}
