package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Dataset is the loaded record set. It is built once and never mutated, so a
// single *Dataset may be read from any number of goroutines.
type Dataset struct {
	records    []DailyRegionRecord
	dates      []time.Time
	unresolved []string
	loadedAt   time.Time
}

// NewDataset copies records and derives the date index. unresolved lists the
// country codes that failed to resolve; it is copied as well.
func NewDataset(records []DailyRegionRecord, unresolved []string) *Dataset {
	ds := &Dataset{
		records:    slices.Clone(records),
		unresolved: slices.Clone(unresolved),
		loadedAt:   clock.Now().UTC(),
	}

	seen := make(map[time.Time]struct{})
	for _, r := range ds.records {
		if _, ok := seen[r.DateReported]; ok {
			continue
		}
		seen[r.DateReported] = struct{}{}
		ds.dates = append(ds.dates, r.DateReported)
	}
	slices.SortFunc(ds.dates, func(a, b time.Time) int { return a.Compare(b) })
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// LoadedAt is when the dataset was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// Records returns a copy of all records.
func (d *Dataset) Records() []DailyRegionRecord { return slices.Clone(d.records) }

// Dates returns the distinct report dates in ascending order.
func (d *Dataset) Dates() []time.Time { return slices.Clone(d.dates) }

// FirstDate and LastDate bound the reporting period. Both are zero for an
// empty dataset.
func (d *Dataset) FirstDate() time.Time {
	if len(d.dates) == 0 {
		return time.Time{}
	}
	return d.dates[0]
}

func (d *Dataset) LastDate() time.Time {
	if len(d.dates) == 0 {
		return time.Time{}
	}
	return d.dates[len(d.dates)-1]
}

// HasDate reports whether any record was reported on date.
func (d *Dataset) HasDate(date time.Time) bool {
	_, found := slices.BinarySearchFunc(d.dates, date, func(a, b time.Time) int { return a.Compare(b) })
	return found
}

// Unresolved returns the country codes that have no alpha-3 mapping.
func (d *Dataset) Unresolved() []string { return slices.Clone(d.unresolved) }

// Aggregate runs Aggregate over the dataset without copying it.
func (d *Dataset) Aggregate(metric Metric, region Region) Aggregation {
	return Aggregate(d.records, metric, region)
}

// DailyTotals runs DailyTotals over the records of region (all when empty).
func (d *Dataset) DailyTotals(metric Metric, region Region) []DatePoint {
	return DailyTotals(FilterRegion(d.records, region), metric)
}

// RegionDailyTotals runs RegionDailyTotals over the dataset.
func (d *Dataset) RegionDailyTotals(metric Metric) map[Region][]DatePoint {
	return RegionDailyTotals(d.records, metric)
}

// MapFrame runs MapFrame over the dataset.
func (d *Dataset) MapFrame(metric Metric, date time.Time) []MapPoint {
	return MapFrame(d.records, metric, date)
}

// RegionTags returns the distinct region tags present, sorted.
func (d *Dataset) RegionTags() []Region {
	seen := make(map[Region]struct{})
	var tags []Region
	for _, r := range d.records {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		tags = append(tags, r.Region)
	}
	slices.Sort(tags)
	return tags
}

// LookupRegion resolves a region filter. It accepts the six WHO regions and
// any other tag present in the dataset, such as OTHER. Empty means all
// regions.
func (d *Dataset) LookupRegion(s string) (Region, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	if r, err := ParseRegion(s); err == nil {
		return r, nil
	}
	tag := Region(strings.ToUpper(strings.TrimSpace(s)))
	if slices.Contains(d.RegionTags(), tag) {
		return tag, nil
	}
	return "", fmt.Errorf("unknown region %q", s)
}

// RegionTotal summarizes one region for the summary API and publisher.
type RegionTotal struct {
	Region      Region    `json:"region"`
	Name        string    `json:"name"`
	Cases       int64     `json:"cases"`
	Deaths      int64     `json:"deaths"`
	Countries   int       `json:"countries"`
	AsOf        time.Time `json:"as_of"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}

// RegionTotals returns confirmed cases and deaths (sums of the daily new
// counts) per region tag present in the dataset, sorted by tag.
func (d *Dataset) RegionTotals() []RegionTotal {
	tags := d.RegionTags()
	out := make([]RegionTotal, 0, len(tags))
	for _, tag := range tags {
		subset := FilterRegion(d.records, tag)
		countries := make(map[string]struct{})
		var cases, deaths int64
		for _, r := range subset {
			cases += r.NewCases
			deaths += r.NewDeaths
			countries[r.Country] = struct{}{}
		}
		out = append(out, RegionTotal{
			Region:    tag,
			Name:      tag.Info().Name,
			Cases:     cases,
			Deaths:    deaths,
			Countries: len(countries),
			AsOf:      d.LastDate(),
		})
	}
	return out
}

// StampPublished returns a copy of totals with PublishedAt set to now.
func StampPublished(totals []RegionTotal) []RegionTotal {
	now := clock.Now().UTC()
	out := slices.Clone(totals)
	for i := range out {
		out[i].PublishedAt = now
	}
	return out
}
