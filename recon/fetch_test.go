package recon

import (
	"context"
	"errors"
	"testing"

	"d2wsync/utils"
)

type fakeLister struct {
	pages [][]map[string]any
	calls int
	err   error
}

func (f *fakeLister) ListRecords(_ context.Context, _, _ string, _ utils.TimeSpan, cursor string) ([]map[string]any, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}

	page := 0
	if cursor != "" {
		page = int(cursor[len(cursor)-1] - '0')
	}
	records := f.pages[page]
	if page+1 < len(f.pages) {
		return records, "page" + string(rune('0'+page+1)), nil
	}
	return records, "", nil
}

func TestFetchAllWalksPages(t *testing.T) {
	lister := &fakeLister{pages: [][]map[string]any{
		{{"id": 1.0}, {"id": 2.0}},
		{{"id": 3.0}},
	}}

	records, err := FetchAll(context.Background(), lister, "SURFACE_WATER", "08MF005", utils.TimeSpan{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("Got %d records, wanted 3", len(records))
	}
	if lister.calls != 2 {
		t.Errorf("Got %d listing calls, wanted exactly 2", lister.calls)
	}
}

func TestFetchAllRestartable(t *testing.T) {
	lister := &fakeLister{pages: [][]map[string]any{{{"id": 1.0}}}}

	for i := 0; i < 2; i++ {
		records, err := FetchAll(context.Background(), lister, "SURFACE_WATER", "08MF005", utils.TimeSpan{})
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Errorf("Run %d: got %d records, wanted 1", i, len(records))
		}
	}
}

func TestFetchAllPropagatesFailure(t *testing.T) {
	boom := errors.New("listing blew up")
	lister := &fakeLister{err: boom}

	_, err := FetchAll(context.Background(), lister, "SURFACE_WATER", "08MF005", utils.TimeSpan{})
	if !errors.Is(err, boom) {
		t.Errorf("Got %v, wanted wrapped listing error", err)
	}
}

func TestFetchAllCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lister := &fakeLister{pages: [][]map[string]any{{{"id": 1.0}}}}
	_, err := FetchAll(ctx, lister, "SURFACE_WATER", "08MF005", utils.TimeSpan{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Got %v, wanted context.Canceled", err)
	}
	if lister.calls != 0 {
		t.Errorf("Got %d calls after cancellation, wanted 0", lister.calls)
	}
}
