package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the report date format used by the WHO file and by the
// dashboard's date query parameter.
const DateLayout = "2006-01-02"

// DailyRegionRecord is one country on one report date.
type DailyRegionRecord struct {
	Country          string    `json:"country"`
	CountryCode      string    `json:"country_code"`   // ISO 3166-1 alpha-2 as reported
	ISO3             string    `json:"iso3,omitempty"` // derived; empty when unresolved
	DateReported     time.Time `json:"date_reported"`
	NewCases         int64     `json:"new_cases"`
	CumulativeCases  int64     `json:"cumulative_cases"`
	NewDeaths        int64     `json:"new_deaths"`
	CumulativeDeaths int64     `json:"cumulative_deaths"`
	Region           Region    `json:"who_region"`
}

// Metric selects one numeric column of a DailyRegionRecord.
type Metric string

const (
	MetricCumulativeCases  Metric = "cumulative_cases"
	MetricNewCases         Metric = "new_cases"
	MetricCumulativeDeaths Metric = "cumulative_deaths"
	MetricNewDeaths        Metric = "new_deaths"
)

// Metrics lists the map metrics in selector order.
func Metrics() []Metric {
	return []Metric{MetricCumulativeCases, MetricNewCases, MetricCumulativeDeaths, MetricNewDeaths}
}

// ParseMetric validates a user-supplied metric name.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MetricCumulativeCases, MetricNewCases, MetricCumulativeDeaths, MetricNewDeaths:
		return m, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Value returns the metric's column from r. Unknown metrics read as zero.
func (m Metric) Value(r DailyRegionRecord) int64 {
	switch m {
	case MetricCumulativeCases:
		return r.CumulativeCases
	case MetricNewCases:
		return r.NewCases
	case MetricCumulativeDeaths:
		return r.CumulativeDeaths
	case MetricNewDeaths:
		return r.NewDeaths
	default:
		return 0
	}
}

// Label is the human-readable metric name.
func (m Metric) Label() string {
	switch m {
	case MetricCumulativeCases:
		return "Cumulative Cases"
	case MetricNewCases:
		return "New Cases"
	case MetricCumulativeDeaths:
		return "Cumulative Deaths"
	case MetricNewDeaths:
		return "New Deaths"
	default:
		return string(m)
	}
}

// Region is a WHO region tag as it appears in the source file.
type Region string

const (
	RegionAFRO  Region = "AFRO"
	RegionAMRO  Region = "AMRO"
	RegionEMRO  Region = "EMRO"
	RegionEURO  Region = "EURO"
	RegionSEARO Region = "SEARO"
	RegionWPRO  Region = "WPRO"
)

// RegionInfo is the display metadata for a WHO region.
type RegionInfo struct {
	Tag   Region
	Name  string
	Color string
}

// regions is ordered the way the per-region panels are laid out.
var regions = []RegionInfo{
	{Tag: RegionAFRO, Name: "Africa", Color: "#05f7a3"},
	{Tag: RegionEMRO, Name: "Eastern Mediterranean", Color: "#05c3f7"},
	{Tag: RegionSEARO, Name: "South-East Asia", Color: "#4605f7"},
	{Tag: RegionWPRO, Name: "Western Pacific", Color: "#a305f7"},
	{Tag: RegionAMRO, Name: "Americas", Color: "#f7056a"},
	{Tag: RegionEURO, Name: "Europe", Color: "#f7a705"},
}

// Regions returns the six WHO regions in panel order.
func Regions() []RegionInfo {
	out := make([]RegionInfo, len(regions))
	copy(out, regions)
	return out
}

// ParseRegion validates a user-supplied region tag against the six WHO
// regions. Matching is case-insensitive.
func ParseRegion(s string) (Region, error) {
	r := Region(strings.ToUpper(strings.TrimSpace(s)))
	for _, info := range regions {
		if info.Tag == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown region %q", s)
}

// Info returns display metadata for r. Tags outside the six WHO regions get
// their raw tag as name and a neutral colour.
func (r Region) Info() RegionInfo {
	for _, info := range regions {
		if info.Tag == r {
			return info
		}
	}
	return RegionInfo{Tag: r, Name: string(r), Color: "#83919c"}
}
