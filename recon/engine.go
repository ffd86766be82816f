package recon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"d2wsync/source"
	"d2wsync/table"
	"d2wsync/utils"
)

// Store is the full set of remote collaborator capabilities the engine
// consumes
type Store interface {
	Lister
	Updater
	CSVPoster
	StationStore
}

type Options struct {
	Span      utils.TimeSpan
	TempDir   string
	Workers   int
	DryRun    bool
	RoundFigs int
	// Optional subset of station ids to process
	Stations []string
}

// Engine drives the full reconciliation for one source: the station
// identity pass first, then the per-station observation pipeline
// (fetch, flatten, diff, apply, stage), then submission of staged files.
type Engine struct {
	store Store
	spec  *source.Spec
	opts  Options

	meta    table.Table
	metaIdx map[string]table.Row
	// Nil when no daily dataset was found for this run
	daily *table.Table
}

func NewEngine(store Store, spec *source.Spec, meta table.Table, daily *table.Table, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.RoundFigs == 0 {
		opts.RoundFigs = DefaultRoundFigs
	}

	metaIdx := make(map[string]table.Row, meta.Len())
	for _, row := range meta.Rows {
		id, ok := row[spec.MetaStationCol].(string)
		if !ok || id == "" {
			continue
		}
		// First occurrence wins, like the metadata lookups always did
		if _, seen := metaIdx[id]; !seen {
			metaIdx[id] = row
		}
	}

	if daily != nil {
		// Rows referencing stations absent from the metadata file are
		// intentionally excluded
		filtered := daily.Filter(func(row table.Row) bool {
			id, _ := row[spec.DailyStationCol].(string)
			_, known := metaIdx[id]
			return known
		})
		daily = &filtered
	}

	return &Engine{store: store, spec: spec, opts: opts, meta: meta, metaIdx: metaIdx, daily: daily}
}

// Run executes the reconciliation. Per-station failures end up in the
// summary, never abort the run; the returned error is reserved for
// cancellation.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Schema: e.spec.Name}

	runErr := e.reconcileStations(ctx, &summary)
	if runErr == nil {
		if e.daily == nil {
			fmt.Println("No daily data available in this time range. Skipping data update...")
		} else {
			runErr = e.syncObservations(ctx, &summary)
		}
	}

	// Staged files from completed stations are flushed even when the run was
	// cut short in the station loop, so the flush runs on a context that
	// survives cancellation
	if !e.opts.DryRun {
		posted, failed := PostStaged(context.WithoutCancel(ctx), e.store, e.spec, e.opts.TempDir)
		summary.FilesPosted = posted
		summary.FilesFailed = failed
	}

	if runErr != nil {
		return summary, runErr
	}
	return summary, ctx.Err()
}

func (e *Engine) stationIDs(t *table.Table, col string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		id, _ := row[col].(string)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return utils.FilterSlice(e.opts.Stations, out, "Station '%s' not present in this source, skipping")
}

// The identity pass is idempotent and order-independent across stations, so
// a simple sequential loop with a progressbar is enough
func (e *Engine) reconcileStations(ctx context.Context, summary *Summary) error {
	ids := e.stationIDs(&e.meta, e.spec.MetaStationCol)
	now := time.Now()

	bar := utils.NewBar(len(ids), "stations")
	bar.RenderBlank()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.opts.DryRun {
			bar.Add(1)
			continue
		}

		action, err := ReconcileStation(ctx, e.store, e.spec, e.metaIdx[id], now)
		if err != nil {
			slog.Error(err.Error())
			summary.StationsFailed++
		} else {
			switch action {
			case StationCreated:
				slog.Info("Creating station " + id)
				summary.StationsCreated++
			case StationPatched:
				slog.Info("Station " + id + " has changed - updating...")
				summary.StationsPatched++
			default:
				slog.Info("No changes made to station " + id)
			}
		}
		bar.Add(1)
	}

	slog.Info("Station updates complete")
	return nil
}

// Station pipelines share no mutable state, so the observation pass runs
// them on a bounded worker pool, sized to what the remote API tolerates
func (e *Engine) syncObservations(ctx context.Context, summary *Summary) error {
	ids := e.stationIDs(e.daily, e.spec.DailyStationCol)

	bar := utils.NewBar(len(ids), e.spec.Name)
	bar.RenderBlank()

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.opts.Workers)
	results := make(chan *StationSummary, len(ids))

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()
			results <- e.syncStation(ctx, id)
			bar.Add(1)
		}(id)
	}

	wg.Wait()
	close(results)
	for res := range results {
		summary.Stations = append(summary.Stations, res)
	}
	summary.sort()

	slog.Info("Time series updates complete")
	return ctx.Err()
}

// The pipeline for one station: fetch the remote window, flatten it, diff,
// patch changed rows, stage additions. Any failure here is isolated to this
// station.
func (e *Engine) syncStation(ctx context.Context, id string) *StationSummary {
	res := &StationSummary{Station: id}
	fail := func(err error) *StationSummary {
		slog.Error("station " + id + ": " + err.Error())
		res.Error = err.Error()
		return res
	}

	local := e.daily.Filter(func(row table.Row) bool {
		station, _ := row[e.spec.DailyStationCol].(string)
		return station == id
	})
	if local.Len() == 0 {
		return res
	}

	raw, err := FetchAll(ctx, e.store, e.spec.MonitoringType, id, e.opts.Span.Padded(1))
	if err != nil {
		// Fetch failures skip the station for this run, the next scheduled
		// run picks it up again
		return fail(err)
	}

	// Nothing stored in this window: the whole batch goes to a staged file
	if len(raw) == 0 {
		slog.Info("No existing data in this time period for station " + id + ". Writing all new data to post...")
		if !e.opts.DryRun {
			if _, err := StageAdditions(e.opts.TempDir, e.spec, id, local); err != nil {
				return fail(err)
			}
		}
		res.Created = local.Len()
		return res
	}

	remote, err := Flatten(raw, e.spec)
	if err != nil {
		return fail(err)
	}

	diffSpec := DiffSpec{
		StationCol:  e.spec.DailyStationCol,
		DateCol:     e.spec.DailyDateCol,
		CompareCols: e.spec.CompareCols(),
		RoundFigs:   e.opts.RoundFigs,
	}
	if e.spec.ServerAssignedName {
		if nameCol, ok := e.spec.Mapping.LocalFor(source.RemoteLocationNameField); ok {
			diffSpec.ExcludeFromMatch = []string{nameCol}
		}
	}

	add, update, err := Reconcile(local, remote, diffSpec)
	if err != nil {
		return fail(err)
	}

	if e.opts.DryRun {
		res.Updated = update.Len()
	} else if update.Len() > 0 {
		remoteIdx, err := IndexRemote(raw, e.spec)
		if err != nil {
			return fail(err)
		}
		res.Updated, res.Failed = ApplyUpdates(ctx, e.store, e.spec, update, remoteIdx)
	}
	slog.Info(fmt.Sprintf("%d rows updated for station %s", res.Updated, id))

	if add.Len() > 0 {
		if !e.opts.DryRun {
			if _, err := StageAdditions(e.opts.TempDir, e.spec, id, add); err != nil {
				return fail(err)
			}
		}
		res.Created = add.Len()
	}
	slog.Info(fmt.Sprintf("%d rows to post for station %s", res.Created, id))

	res.Unchanged = local.Len() - add.Len() - update.Len()
	return res
}
