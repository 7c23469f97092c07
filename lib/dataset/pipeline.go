package dataset

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"ssl-dataset/lib/htmlutil"
	"ssl-dataset/lib/scrapers/fetch"
	"ssl-dataset/lib/seasons"
	"ssl-dataset/lib/telemetry"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("ssl-dataset.lib.dataset")
var meter = telemetry.Meter("ssl-dataset.lib.dataset")
var rowsExtracted, _ = meter.Int64Counter("rows_extracted")

// Unit is one page to scrape.
type Unit struct {
	Season seasons.Label
	// 0 for pipelines that scrape one page per season
	MatchDay int
	URL      string
}

func (u Unit) String() string {
	if u.MatchDay > 0 {
		return fmt.Sprintf("season %s match day %d", u.Season, u.MatchDay)
	}
	return fmt.Sprintf("season %s", u.Season)
}

// Pipeline scrapes one table per unit and accumulates its rows.
type Pipeline[R Record] struct {
	Name    string
	Columns []string
	// the delays the fetcher should pick from before each request
	Delays []time.Duration
	// position of the table holding the rows within a page
	TableIndex int
	// the pages of a season, in the order they are scraped
	Units func(season seasons.Label) ([]Unit, error)
	// reads the table row at position `index` of `unit`'s page
	Row func(row *goquery.Selection, index int, unit Unit) (R, error)
}

// Extract reads every row of the pipeline's table in `doc`.
func (p Pipeline[R]) Extract(doc *goquery.Document, unit Unit) ([]R, error) {
	table, err := htmlutil.Table(doc, p.TableIndex)
	if err != nil {
		return nil, err
	}
	rows, err := htmlutil.Rows(table)
	if err != nil {
		return nil, err
	}

	records := make([]R, 0, rows.Length())
	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		var record R
		record, err = p.Row(tr, i, unit)
		if err != nil {
			err = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		records = append(records, record)
		return true
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (p Pipeline[R]) scrape(ctx context.Context, fetcher fetch.Fetcher, unit Unit) ([]R, error) {
	ctx, span := tracer.Start(ctx, "pipeline:scrape")
	defer span.End()
	span.SetAttributes(
		attribute.String("season", string(unit.Season)),
		attribute.Int("match_day", unit.MatchDay),
		attribute.String("url", unit.URL),
	)

	body, err := fetcher.Fetch(ctx, unit.URL)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch page")
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	records, err := p.Extract(doc, unit)
	if err != nil {
		span.SetStatus(codes.Error, "failed to extract rows")
		return nil, err
	}

	rowsExtracted.Add(ctx, int64(len(records)), metric.WithAttributes(attribute.String("pipeline", p.Name)))
	slog.InfoContext(ctx, "scraped page", "pipeline", p.Name, "unit", unit.String(), "rows", len(records))
	return records, nil
}

// Collect scrapes the seasons in the given order, the first error aborts
// the whole collection.
func (p Pipeline[R]) Collect(ctx context.Context, fetcher fetch.Fetcher, labels []seasons.Label) (*Table[R], error) {
	ctx, span := tracer.Start(ctx, "pipeline:Collect")
	defer span.End()
	span.SetAttributes(attribute.String("pipeline", p.Name))

	table := NewTable[R](p.Columns)
	for _, label := range labels {
		units, err := p.Units(label)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		for _, unit := range units {
			records, err := p.scrape(ctx, fetcher, unit)
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				return nil, fmt.Errorf("%s: %s: %w", p.Name, unit.String(), err)
			}
			table.Append(records...)
		}
	}
	return table, nil
}

// Run collects the seasons and hands the table to every sink. Sinks are
// only written to once the whole collection succeeded.
func (p Pipeline[R]) Run(ctx context.Context, fetcher fetch.Fetcher, labels []seasons.Label, sinks ...Sink) (*Table[R], error) {
	table, err := p.Collect(ctx, fetcher, labels)
	if err != nil {
		return nil, err
	}

	rows := table.Rows()
	for _, sink := range sinks {
		err := sink.Write(ctx, p.Name, table.Columns, rows)
		if err != nil {
			return nil, fmt.Errorf("%s: write %s: %w", p.Name, sink, err)
		}
	}

	slog.InfoContext(ctx, "pipeline finished", "pipeline", p.Name, "seasons", len(labels), "rows", table.Len())
	return table, nil
}
