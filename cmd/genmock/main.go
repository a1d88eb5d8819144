// Command genmock writes a synthetic WHO COVID-19 daily table in the same
// layout as the published file, for local runs of the dashboard. Output is
// deterministic for a given seed.
//
// Usage:
//
//	go run ./cmd/genmock -out data/covid_cases.csv -days 120 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/covid-dashboard/internal/domain"
)

var header = []string{
	"Date_reported", "Country_code", "Country", "WHO_region",
	"New_cases", "Cumulative_cases", "New_deaths", "Cumulative_deaths",
}

type country struct {
	code   string
	name   string // Country column for codes the registry does not know
	region domain.Region
	scale  float64 // peak daily cases
}

// Two or three countries per region. XA and the blank "Other" row have no
// registry entry and stay off the map; XK is user-assigned but the registry
// knows it as Kosovo (XKX).
var mockCountries = []country{
	{code: "NG", region: domain.RegionAFRO, scale: 900},
	{code: "NA", region: domain.RegionAFRO, scale: 150},
	{code: "ZA", region: domain.RegionAFRO, scale: 4000},
	{code: "US", region: domain.RegionAMRO, scale: 60000},
	{code: "BR", region: domain.RegionAMRO, scale: 30000},
	{code: "XA", name: "Bonaire", region: domain.RegionAMRO, scale: 40},
	{code: "EG", region: domain.RegionEMRO, scale: 1200},
	{code: "IR", region: domain.RegionEMRO, scale: 8000},
	{code: "FR", region: domain.RegionEURO, scale: 25000},
	{code: "DE", region: domain.RegionEURO, scale: 20000},
	{code: "XK", region: domain.RegionEURO, scale: 300},
	{code: "IN", region: domain.RegionSEARO, scale: 45000},
	{code: "TH", region: domain.RegionSEARO, scale: 3000},
	{code: "JP", region: domain.RegionWPRO, scale: 12000},
	{code: "AU", region: domain.RegionWPRO, scale: 5000},
	{code: "", name: "Other", region: "OTHER", scale: 5},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/covid_cases.csv", "output path for the generated CSV")
	days := flag.Int("days", 90, "number of report dates")
	start := flag.String("start", "2020-01-03", "first report date (YYYY-MM-DD)")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *days < 1 {
		flag.Usage()
		return fmt.Errorf("-days must be positive")
	}
	first, err := time.Parse(domain.DateLayout, *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := generate(f, first, *days, *seed)
	if err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %d records to %s", len(records), *out)

	printStats(records)
	return nil
}

// generate writes the table to w and returns the records it wrote. Each
// country follows one smooth wave with noise; cumulative columns are running
// sums of the daily ones.
func generate(w io.Writer, first time.Time, days int, seed uint64) ([]domain.DailyRegionRecord, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, err
	}

	records := make([]domain.DailyRegionRecord, 0, days*len(mockCountries))
	cumCases := make([]int64, len(mockCountries))
	cumDeaths := make([]int64, len(mockCountries))
	peaks := make([]float64, len(mockCountries))
	for i := range mockCountries {
		peaks[i] = float64(days) * (0.3 + 0.5*rng.Float64())
	}

	for d := range days {
		date := first.AddDate(0, 0, d)
		for i, c := range mockCountries {
			width := float64(days) / 6
			wave := math.Exp(-math.Pow(float64(d)-peaks[i], 2) / (2 * width * width))
			cases := int64(c.scale * wave * (0.8 + 0.4*rng.Float64()))
			deaths := int64(float64(cases) * (0.005 + 0.015*rng.Float64()))
			cumCases[i] += cases
			cumDeaths[i] += deaths

			rec := domain.DailyRegionRecord{
				Country:          countryName(c),
				CountryCode:      c.code,
				DateReported:     date,
				NewCases:         cases,
				CumulativeCases:  cumCases[i],
				NewDeaths:        deaths,
				CumulativeDeaths: cumDeaths[i],
				Region:           c.region,
			}
			if err := cw.Write(toRow(rec)); err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}

	cw.Flush()
	return records, cw.Error()
}

func countryName(c country) string {
	if name := domain.CountryName(domain.ResolveISO3(c.code)); name != "" {
		return name
	}
	return c.name
}

func toRow(r domain.DailyRegionRecord) []string {
	return []string{
		r.DateReported.Format(domain.DateLayout),
		r.CountryCode,
		r.Country,
		string(r.Region),
		strconv.FormatInt(r.NewCases, 10),
		strconv.FormatInt(r.CumulativeCases, 10),
		strconv.FormatInt(r.NewDeaths, 10),
		strconv.FormatInt(r.CumulativeDeaths, 10),
	}
}

func printStats(records []domain.DailyRegionRecord) {
	resolved, unresolved := domain.ResolveCodes(records)
	ds := domain.NewDataset(resolved, unresolved)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Records: %d over %d dates\n", ds.Len(), len(ds.Dates()))
	fmt.Printf("Confirmed cases: %s\n", ds.Aggregate(domain.MetricNewCases, "").Display)
	fmt.Printf("Deaths: %s\n", ds.Aggregate(domain.MetricNewDeaths, "").Display)
	for _, r := range ds.RegionTotals() {
		fmt.Printf("  %-6s cases=%s deaths=%s\n", r.Region, domain.FormatCount(r.Cases), domain.FormatCount(r.Deaths))
	}
	fmt.Printf("Unresolved codes: %q\n", unresolved)
}
