package recon

import (
	"os"
	"path/filepath"
	"testing"

	"d2wsync/source"
)

func TestLoadDaily(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "hydat-daily.csv")
	content := "STATION_NUMBER,Date,flow,level,pub_status\n" +
		"08MF005,2023-01-01,12.3,,nan\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	daily := loadDaily(path, source.Hydat.DailyTypes)
	if daily == nil {
		t.Fatal("Expected a table for a readable daily file")
	}
	if daily.Len() != 1 {
		t.Fatalf("Got %d rows, wanted 1", daily.Len())
	}
	// Textual "nan" leftovers are scrubbed on load
	if got := daily.Rows[0]["pub_status"]; got != "" {
		t.Errorf("pub_status = %v, wanted empty", got)
	}
}

func TestLoadDailyAbsentFile(t *testing.T) {
	if daily := loadDaily(filepath.Join(t.TempDir(), "absent.csv"), source.Hydat.DailyTypes); daily != nil {
		t.Error("Expected nil for a missing daily file")
	}
}

func TestLoadDailyMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hydat-daily.csv")
	content := "STATION_NUMBER,Date,flow,level,pub_status\n" +
		"08MF005,not-a-date,12.3,,True\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	// A file that cannot be parsed skips the observation pass like an absent
	// one, it never aborts the run
	if daily := loadDaily(path, source.Hydat.DailyTypes); daily != nil {
		t.Error("Expected nil for an unparseable daily file")
	}
}
