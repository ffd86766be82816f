package recon

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
)

// Per-station outcome counts for one run
type StationSummary struct {
	Station   string `csv:"station"`
	Created   int    `csv:"created"`
	Updated   int    `csv:"updated"`
	Unchanged int    `csv:"unchanged"`
	Failed    int    `csv:"failed"`
	Error     string `csv:"error"`
}

type Summary struct {
	Schema   string
	Stations []*StationSummary

	StationsCreated int
	StationsPatched int
	StationsFailed  int

	FilesPosted int
	FilesFailed int
}

// Worker completion order is arbitrary, the report is not
func (s *Summary) sort() {
	sort.Slice(s.Stations, func(i, j int) bool {
		return s.Stations[i].Station < s.Stations[j].Station
	})
}

func (s *Summary) totals() (created, updated, unchanged, failed int) {
	for _, st := range s.Stations {
		created += st.Created
		updated += st.Updated
		unchanged += st.Unchanged
		failed += st.Failed
		if st.Error != "" {
			failed++
		}
	}
	return
}

func (s *Summary) Print() {
	created, updated, unchanged, failed := s.totals()
	fmt.Printf("%s: %d station entities created, %d patched, %d failed\n",
		s.Schema, s.StationsCreated, s.StationsPatched, s.StationsFailed)
	fmt.Printf("%s: %d rows staged for creation, %d updated, %d unchanged, %d failed\n",
		s.Schema, created, updated, unchanged, failed)
	fmt.Printf("%s: %d staged files posted, %d kept for retry\n", s.Schema, s.FilesPosted, s.FilesFailed)
}

// WriteCSV writes the per-station report next to the working directory as
// summary_<schema>_<date>.csv
func (s *Summary) WriteCSV() error {
	if len(s.Stations) == 0 {
		return nil
	}

	filename := fmt.Sprintf("summary_%s_%s.csv", s.Schema, time.Now().Format(time.DateOnly))
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return gocsv.Marshal(s.Stations, file)
}
