package recon

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
	"github.com/rickb777/period"

	"d2wsync/d2w"
	"d2wsync/source"
	"d2wsync/table"
	"d2wsync/utils"
)

// Command line arguments for reconciliation runs, one subcommand per source
type Cmd struct {
	Hydat     *Config `arg:"subcommand:hydat" help:"Reconcile HYDAT surface water data"`
	Ecclimate *Config `arg:"subcommand:ecclimate" help:"Reconcile EC climate data"`
	Pacfish   *Config `arg:"subcommand:pacfish" help:"Reconcile Pacfish hydrometric data"`
}

func (c *Cmd) Execute(parser *arg.Parser) int {
	switch {
	case c.Hydat != nil:
		return c.Hydat.run(&source.Hydat)
	case c.Ecclimate != nil:
		return c.Ecclimate.run(&source.EcClimate)
	case c.Pacfish != nil:
		return c.Pacfish.run(&source.Pacfish)
	default:
		fmt.Println("Error: passing a subcommand is required.")
		fmt.Println()
		parser.WriteHelpForSubcommand(os.Stdout, "sync")
		return 1
	}
}

type Config struct {
	StartDate *utils.Timestamp `arg:"--start-date" help:"Start of the date range being posted. Defaults to the end date minus the window"`
	EndDate   *utils.Timestamp `arg:"--end-date" help:"End of the date range being posted. Defaults to today"`
	Window    string           `arg:"--window" default:"P31D" help:"ISO-8601 period used for the rolling default window"`
	MetaDir   string           `arg:"--meta-dir" default:"./data/metadata" help:"Directory holding the station metadata files"`
	DataDir   string           `arg:"--data-dir" default:"./data/update" help:"Directory holding the daily update files"`
	TempDir   string           `arg:"--temp-dir" default:"./data/temp" help:"Directory where posting files are staged"`
	Workers   int              `arg:"-w,--workers" default:"4" help:"Number of stations processed concurrently"`
	Stations  []string         `arg:"-s,--stations" help:"Optional space separated list of station ids"`
	DryRun    bool             `arg:"--dry-run" help:"Compute diffs without writing anything to the remote store"`
}

// Resolves the explicit date flags and the rolling window into the fetch
// span
func (config *Config) timeSpan() (utils.TimeSpan, error) {
	end := utils.TruncateToDay(time.Now().UTC())
	if config.EndDate != nil {
		end = *config.EndDate.Inner()
	}

	start := end
	if config.StartDate != nil {
		start = *config.StartDate.Inner()
	} else {
		window, err := period.Parse(config.Window)
		if err != nil {
			return utils.TimeSpan{}, fmt.Errorf("invalid window '%s': %w", config.Window, err)
		}
		start, _ = window.Negate().AddTo(end)
	}

	if start.After(end) {
		return utils.TimeSpan{}, fmt.Errorf("start date %s is after end date %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return utils.TimeSpan{From: &start, To: &end}, nil
}

func (config *Config) run(spec *source.Spec) int {
	if err := godotenv.Load(); err != nil {
		fmt.Println(err)
		return 1
	}

	span, err := config.timeSpan()
	if err != nil {
		fmt.Println(err)
		return 1
	}
	fmt.Println("Start Date: " + span.From.Format(time.DateOnly))
	fmt.Println("End Date: " + span.To.Format(time.DateOnly))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := d2w.CredentialsFromEnv()
	if err != nil {
		fmt.Println(err)
		return 1
	}
	client := d2w.NewClient(creds)
	// Nothing works without a token, so this is the one fatal network call
	if err := client.Authenticate(ctx); err != nil {
		fmt.Println(err)
		return 1
	}

	meta, err := table.ReadCSV(spec.MetadataPath(config.MetaDir), spec.MetaTypes)
	if err != nil {
		fmt.Println("Could not read station metadata:", err)
		return 1
	}

	daily := loadDaily(spec.DailyPath(config.DataDir), spec.DailyTypes)

	utils.SetLogFile(spec.Name, "sync")
	defer log.SetOutput(os.Stdout)

	engine := NewEngine(client, spec, meta, daily, Options{
		Span:     span,
		TempDir:  config.TempDir,
		Workers:  config.Workers,
		DryRun:   config.DryRun,
		Stations: config.Stations,
	})

	summary, runErr := engine.Run(ctx)

	log.SetOutput(os.Stdout)
	summary.Print()
	if err := summary.WriteCSV(); err != nil {
		slog.Error("could not write summary report: " + err.Error())
	}

	if runErr != nil {
		fmt.Println("Run aborted:", runErr)
		return 1
	}
	return 0
}

// A missing or unreadable daily file only skips the observation pass, it is
// not an error. The cause still goes to the log so a malformed file can be
// told apart from an absent one.
func loadDaily(path string, types table.Types) *table.Table {
	d, err := table.ReadCSV(path, types)
	if err != nil {
		fmt.Println("No daily dataset found")
		slog.Debug("daily dataset unavailable: " + err.Error())
		return nil
	}
	cleanLocal(&d)
	return &d
}

// Strips the literal "nan" strings that numeric columns leave behind when
// they round trip through text
func cleanLocal(t *table.Table) {
	for _, row := range t.Rows {
		for col, v := range row {
			if s, ok := v.(string); ok && s == "nan" {
				row[col] = ""
			}
		}
	}
}

// Command line arguments for resubmitting staged files without recomputing
// diffs
type PostCmd struct {
	Source  string `arg:"positional,required" help:"Source schema: hydat, ecclimate or pacfish"`
	TempDir string `arg:"--temp-dir" default:"./data/temp" help:"Directory where posting files are staged"`
}

func (c *PostCmd) Execute(parser *arg.Parser) int {
	spec, err := source.Get(c.Source)
	if err != nil {
		fmt.Println(err)
		parser.WriteHelpForSubcommand(os.Stdout, "post")
		return 1
	}

	if err := godotenv.Load(); err != nil {
		fmt.Println(err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := d2w.CredentialsFromEnv()
	if err != nil {
		fmt.Println(err)
		return 1
	}
	client := d2w.NewClient(creds)
	if err := client.Authenticate(ctx); err != nil {
		fmt.Println(err)
		return 1
	}

	posted, failed := PostStaged(ctx, client, spec, c.TempDir)
	if posted == 0 && failed == 0 {
		fmt.Println("No new data files to post. Process complete.")
		return 0
	}
	fmt.Printf("%d staged files posted, %d kept for retry\n", posted, failed)
	return 0
}
