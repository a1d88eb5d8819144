package domain

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders counts with English thousands separators.
var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, e.g. 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// Aggregation is the result of selecting a metric over an optionally
// region-filtered record set.
type Aggregation struct {
	Metric  Metric
	Region  Region // empty means all regions
	Total   int64
	Display string
	// Records is the filtered subset. It may share storage with the input
	// and must be treated as read-only.
	Records []DailyRegionRecord
}

// Aggregate sums metric over the records whose region equals region, or over
// all records when region is empty.
func Aggregate(records []DailyRegionRecord, metric Metric, region Region) Aggregation {
	subset := FilterRegion(records, region)

	var total int64
	for _, r := range subset {
		total += metric.Value(r)
	}

	return Aggregation{
		Metric:  metric,
		Region:  region,
		Total:   total,
		Display: FormatCount(total),
		Records: subset,
	}
}

// FilterRegion returns the records tagged with region. An empty region
// returns records itself, clipped so appends cannot write into it.
func FilterRegion(records []DailyRegionRecord, region Region) []DailyRegionRecord {
	if region == "" {
		return slices.Clip(records)
	}
	out := make([]DailyRegionRecord, 0, len(records)/len(regions))
	for _, r := range records {
		if r.Region == region {
			out = append(out, r)
		}
	}
	return out
}

// DatePoint is one bar of a per-day histogram.
type DatePoint struct {
	Date  time.Time `json:"date"`
	Value int64     `json:"value"`
}

// DailyTotals sums metric per report date, sorted by date.
func DailyTotals(records []DailyRegionRecord, metric Metric) []DatePoint {
	sums := make(map[time.Time]int64)
	for _, r := range records {
		sums[r.DateReported] += metric.Value(r)
	}

	points := make([]DatePoint, 0, len(sums))
	for d, v := range sums {
		points = append(points, DatePoint{Date: d, Value: v})
	}
	slices.SortFunc(points, func(a, b DatePoint) int { return a.Date.Compare(b.Date) })
	return points
}

// RegionDailyTotals sums metric per region and report date. Each region's
// series is sorted by date.
func RegionDailyTotals(records []DailyRegionRecord, metric Metric) map[Region][]DatePoint {
	byRegion := make(map[Region][]DailyRegionRecord)
	for _, r := range records {
		byRegion[r.Region] = append(byRegion[r.Region], r)
	}

	out := make(map[Region][]DatePoint, len(byRegion))
	for region, rs := range byRegion {
		out[region] = DailyTotals(rs, metric)
	}
	return out
}

// MapPoint is one country's value on a single map frame.
type MapPoint struct {
	ISO3    string `json:"iso3"`
	Country string `json:"country"`
	Value   int64  `json:"value"`
}

// MapFrame returns the map points for one report date. Rows without a
// resolved alpha-3 code are left out.
func MapFrame(records []DailyRegionRecord, metric Metric, date time.Time) []MapPoint {
	var points []MapPoint
	for _, r := range records {
		if r.ISO3 == UnknownISO3 || !r.DateReported.Equal(date) {
			continue
		}
		points = append(points, MapPoint{ISO3: r.ISO3, Country: r.Country, Value: metric.Value(r)})
	}
	slices.SortFunc(points, func(a, b MapPoint) int { return cmp.Compare(a.ISO3, b.ISO3) })
	return points
}
