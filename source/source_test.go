package source

import (
	"testing"
	"time"

	"d2wsync/table"
)

func TestGet(t *testing.T) {
	for _, name := range []string{"hydat", "ecclimate", "pacfish"} {
		spec, err := Get(name)
		if err != nil {
			t.Fatal(err)
		}
		if spec.Name != name {
			t.Errorf("Got spec %s for %s", spec.Name, name)
		}
	}

	if _, err := Get("weatherfarm"); err == nil {
		t.Error("Expected error for an unknown source")
	}
}

func TestFieldMappingLookups(t *testing.T) {
	m := NewFieldMapping(
		FieldPair{"station_id", "STATION_NUMBER"},
		FieldPair{"datetime", "Date"},
	)

	if local, ok := m.LocalFor("datetime"); !ok || local != "Date" {
		t.Errorf("LocalFor(datetime) = %s, %v", local, ok)
	}
	if remote, ok := m.RemoteFor("STATION_NUMBER"); !ok || remote != "station_id" {
		t.Errorf("RemoteFor(STATION_NUMBER) = %s, %v", remote, ok)
	}
	if _, ok := m.LocalFor("published"); ok {
		t.Error("Unexpected hit for an unmapped remote field")
	}

	// Order is declaration order, the diff depends on it
	locals := m.Locals()
	if locals[0] != "STATION_NUMBER" || locals[1] != "Date" {
		t.Errorf("Locals() = %v", locals)
	}
}

func TestFileMapping(t *testing.T) {
	fm := Hydat.FileMapping()

	if fm["owner"] != int64(7) {
		t.Errorf("owner = %v, expected 7", fm["owner"])
	}
	if fm["datetime"] != "Date" {
		t.Errorf("datetime = %v, expected Date", fm["datetime"])
	}
	if v, ok := fm["comments"]; !ok || v != "" {
		t.Errorf("comments = %v (present=%v)", v, ok)
	}

	// Pacfish bulk submissions force the published flag on
	if Pacfish.FileMapping()["published"] != true {
		t.Error("pacfish file mapping should carry published=true")
	}
}

func TestHydatExpectedStatus(t *testing.T) {
	status, err := Hydat.ExpectedStatus(table.Row{"STATION_STATUS": "DISCONTINUED"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if status != "DISCONTINUED" {
		t.Errorf("Got %s, expected the metadata value verbatim", status)
	}

	if _, err := Hydat.ExpectedStatus(table.Row{}, time.Now()); err == nil {
		t.Error("Expected error for a row without STATION_STATUS")
	}
}

func TestPacfishExpectedStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		tag      string
		endDate  string
		expected string
		fails    bool
	}

	cases := []testCase{
		{tag: "still reporting", endDate: "2024/05/30 08:00", expected: "ACTIVE"},
		{tag: "one year grace", endDate: "2023/01/15 00:00", expected: "ACTIVE"},
		{tag: "gone quiet", endDate: "2019/11/02 12:00", expected: "DISCONTINUED"},
		{tag: "missing end date", endDate: "", fails: true},
		{tag: "wrong layout", endDate: "2024-05-30", fails: true},
	}

	for _, c := range cases {
		t.Log(c.tag)
		got, err := Pacfish.ExpectedStatus(table.Row{"end_date": c.endDate}, now)
		if c.fails {
			if err == nil {
				t.Errorf("Expected error, got %s", got)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		if got != c.expected {
			t.Errorf("Got %s, expected %s", got, c.expected)
		}
	}
}

func TestSpecPaths(t *testing.T) {
	if got := Hydat.MetadataPath("/data"); got != "/data/hydat-metadata.csv" {
		t.Errorf("MetadataPath = %s", got)
	}
	if got := EcClimate.DailyPath("/data"); got != "/data/ecclimate-daily.csv" {
		t.Errorf("DailyPath = %s", got)
	}
	if got := Pacfish.TempDir("/tmp/stage"); got != "/tmp/stage/pacfish" {
		t.Errorf("TempDir = %s", got)
	}
}
