package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	devenv "ssl-dataset/dev/env"
	"ssl-dataset/lib/dataset"
	"ssl-dataset/lib/datastore"
	"ssl-dataset/lib/restyutil"
	"ssl-dataset/lib/scrapers/fetch"
	"ssl-dataset/lib/seasons"
	"ssl-dataset/lib/serviceutil"
	"ssl-dataset/lib/telemetry"
	"time"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

type scrapeFlags struct {
	seasons *string
	output  *string
	db      *string
}

func addScrapeFlags(cmd *cobra.Command, outputKey string) scrapeFlags {
	return scrapeFlags{
		seasons: cmd.Flags().StringP("seasons", "s", seasons.SelectAll, `The seasons to scrape, "all" or a comma separated list like "2019-2020,2020-2021".`),
		output:  cmd.Flags().StringP("output", "o", "", fmt.Sprintf("The csv file to write, defaults to %s in the config.", outputKey)),
		db:      cmd.Flags().String("db", "", "A sqlite database to mirror the dataset into, overrides db in the config."),
	}
}

type scrapeOptions struct {
	Seasons string
	Output  string
	Db      datastore.Config
	// dump every request and response to <dev_state>/resty/<run id>
	Dump bool
}

func (f scrapeFlags) options(cfg Config, defaultOutput string) scrapeOptions {
	opts := scrapeOptions{
		Seasons: *f.seasons,
		Output:  *f.output,
		Db:      cfg.Db,
		Dump:    *debug,
	}
	if opts.Output == "" {
		opts.Output = defaultOutput
	}
	if *f.db != "" {
		opts.Db = datastore.Config{File: *f.db}
	}
	return opts
}

func newRunOutput() (restyutil.FilesystemOutput, error) {
	runId, err := random.String(8)
	if err != nil {
		return restyutil.FilesystemOutput{}, err
	}
	return restyutil.NewFilesystemOutput(filepath.Join(devenv.StatePrefix, "resty", runId))
}

// openSinks returns the sinks in the order they are written. The csv is the
// primary output and goes last, so a failed mirror write leaves the previous
// csv in place.
func openSinks(opts scrapeOptions) ([]dataset.Sink, func(), error) {
	csv := dataset.CSVSink{Path: opts.Output}
	if !opts.Db.Enabled() {
		return []dataset.Sink{csv}, func() {}, nil
	}
	db, err := opts.Db.OpenDB()
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	closeDb := func() {
		err := db.Close()
		if err != nil {
			slog.Warn("failed to close db", "err", err)
		}
	}
	return []dataset.Sink{datastore.NewStore(db), csv}, closeDb, nil
}

func scrape[R dataset.Record](ctx context.Context, cfg Config, pipeline dataset.Pipeline[R], opts scrapeOptions) (*dataset.Table[R], error) {
	labels, err := seasons.ParseSelection(opts.Seasons)
	if err != nil {
		return nil, err
	}

	fetchOpts := fetch.Options{
		Delays:    pipeline.Delays,
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.UserAgent,
	}
	if opts.Dump {
		output, err := newRunOutput()
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "dumping http messages", "dir", output.Directory())
		fetchOpts.Output = output
	}

	sinks, closeSinks, err := openSinks(opts)
	if err != nil {
		return nil, err
	}
	defer closeSinks()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	telemetry.InstrumentPerfStats(ctx)

	slog.InfoContext(ctx, "scraping", "dataset", pipeline.Name, "seasons", len(labels), "output", opts.Output)
	start := time.Now()
	table, err := pipeline.Run(ctx, fetch.NewClient(fetchOpts), labels, sinks...)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "scraping time", "dataset", pipeline.Name, "seconds", time.Since(start).Seconds())
	return table, nil
}

// scrapeCommand builds a command that scrapes one dataset, `output` picks
// that dataset's default csv path from the config.
func scrapeCommand[R dataset.Record](
	use, short, outputKey string,
	pipeline func(dataset.Sources) dataset.Pipeline[R],
	output func(OutputConfig) string,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	flags := addScrapeFlags(cmd, outputKey)
	cmd.Run = func(cmd *cobra.Command, args []string) {
		cfg, err := ReadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		opts := flags.options(cfg, output(cfg.Output))

		table, err := scrape(cmd.Context(), cfg, pipeline(cfg.Sources()), opts)
		if err != nil {
			serviceutil.Fatal(fmt.Sprintf("failed to scrape %s", use), err)
		}
		fmt.Printf("wrote %d rows to %s\n", table.Len(), opts.Output)
	}
	return cmd
}
