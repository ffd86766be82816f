package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ReadCSV loads a CSV file into a table, coercing each column per the given
// type declarations. The header row provides the column names. Empty cells
// and the literal "NA" become nil in typed columns.
func ReadCSV(path string, types Types) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("'%s' has no header row", path)
	}

	out := Table{Cols: records[0]}
	for _, record := range records[1:] {
		row := make(Row, len(out.Cols))
		for i, col := range out.Cols {
			row[col] = record[i]
		}
		out.Append(row)
	}

	if err := out.Coerce(types); err != nil {
		return Table{}, fmt.Errorf("'%s': %w", path, err)
	}
	return out, nil
}

// WriteCSV writes the table with its column names as the header row. Nil
// cells are rendered with the given na string, dates in date-only format.
func WriteCSV(path string, t Table, na string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Cols); err != nil {
		return err
	}

	record := make([]string, len(t.Cols))
	for _, row := range t.Rows {
		for i, col := range t.Cols {
			record[i] = formatCell(row[col], na)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(v any, na string) string {
	switch x := v.(type) {
	case nil:
		return na
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return fmt.Sprint(v)
	}
}
