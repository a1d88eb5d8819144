// Command summarize loads a WHO COVID-19 daily table and prints the global
// and per-region totals the dashboard would show, plus any country codes
// that cannot be placed on the map.
//
// Usage:
//
//	go run ./cmd/summarize -data data/covid_cases.csv
//	go run ./cmd/summarize -data data/covid_cases.xlsx -metric new_deaths -region EURO
//	go run ./cmd/summarize -data data/covid_cases.csv -json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/covid-dashboard/internal/adapter/source"
	"github.com/couchcryptid/covid-dashboard/internal/domain"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "summarize: %v\n", err)
		os.Exit(1)
	}
}

type summary struct {
	Metric     domain.Metric        `json:"metric"`
	Region     domain.Region        `json:"region,omitempty"`
	Total      int64                `json:"total"`
	Display    string               `json:"display"`
	Records    int                  `json:"records"`
	FirstDate  string               `json:"first_date"`
	LastDate   string               `json:"last_date"`
	Regions    []domain.RegionTotal `json:"regions"`
	Unresolved []string             `json:"unresolved_codes"`
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	fs.SetOutput(out)
	dataPath := fs.String("data", "data/covid_cases.csv", "path to the WHO daily table (.csv or .xlsx)")
	metricName := fs.String("metric", string(domain.MetricNewCases), "metric to total")
	regionName := fs.String("region", "", "region tag to filter by, WHO or any tag in the data (default all)")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	metric, err := domain.ParseMetric(*metricName)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	raw, err := source.NewFile(*dataPath, logger).Load(ctx)
	if err != nil {
		return err
	}
	records, unresolved := domain.ResolveCodes(raw)
	ds := domain.NewDataset(records, unresolved)

	region, err := ds.LookupRegion(*regionName)
	if err != nil {
		return err
	}

	agg := ds.Aggregate(metric, region)
	s := summary{
		Metric:     metric,
		Region:     region,
		Total:      agg.Total,
		Display:    agg.Display,
		Records:    len(agg.Records),
		FirstDate:  ds.FirstDate().Format(domain.DateLayout),
		LastDate:   ds.LastDate().Format(domain.DateLayout),
		Regions:    ds.RegionTotals(),
		Unresolved: ds.Unresolved(),
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	printTable(out, s)
	return nil
}

func printTable(w io.Writer, s summary) {
	scope := "all regions"
	if s.Region != "" {
		scope = s.Region.Info().Name
	}
	fmt.Fprintf(w, "=== WHO COVID-19 Summary (%s to %s) ===\n\n", s.FirstDate, s.LastDate)
	fmt.Fprintf(w, "%s, %s: %s (%d records)\n\n", s.Metric.Label(), scope, s.Display, s.Records)

	fmt.Fprintf(w, "  %-8s %-24s %15s %12s %9s\n", "Region", "Name", "Cases", "Deaths", "Countries")
	for _, r := range s.Regions {
		fmt.Fprintf(w, "  %-8s %-24s %15s %12s %9d\n",
			r.Region, r.Name, domain.FormatCount(r.Cases), domain.FormatCount(r.Deaths), r.Countries)
	}

	if len(s.Unresolved) == 0 {
		fmt.Fprintln(w, "\nAll country codes resolved.")
		return
	}
	fmt.Fprintf(w, "\nUnresolved country codes (hidden from maps): %d\n", len(s.Unresolved))
	for _, code := range s.Unresolved {
		if code == "" {
			code = "(blank)"
		}
		fmt.Fprintf(w, "  %s\n", code)
	}
}
