package dashboard

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/covid-dashboard/internal/domain"
)

// Sequential colour scales for the map views, low to high.
var (
	paletteViridis = []string{"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}
	paletteInferno = []string{"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"}
	paletteCividis = []string{"#00224e", "#123570", "#3b496c", "#575d6d", "#707173", "#8a8779", "#a69d75", "#c4b56c", "#e4cf5b", "#fee838"}
	paletteTurbo   = []string{"#30123b", "#4145ab", "#4675ed", "#39a2fc", "#1bcfd4", "#24eca6", "#61fc6c", "#a4fc3b", "#d1e834", "#f3c63a", "#fe9b2d", "#f36315", "#d93806", "#b11901", "#7a0402"}
)

// MapView is one of the four selectable choropleth maps.
type MapView struct {
	Metric  domain.Metric
	Title   string
	Palette []string
}

var mapViews = []MapView{
	{Metric: domain.MetricCumulativeCases, Title: "Cumulative Cases", Palette: paletteViridis},
	{Metric: domain.MetricNewCases, Title: "New Cases", Palette: paletteInferno},
	{Metric: domain.MetricCumulativeDeaths, Title: "Cumulative Deaths", Palette: paletteCividis},
	{Metric: domain.MetricNewDeaths, Title: "New Deaths", Palette: paletteTurbo},
}

// MapViews returns the map views in selector order.
func MapViews() []MapView {
	out := make([]MapView, len(mapViews))
	copy(out, mapViews)
	return out
}

// MapViewFor returns the view for metric, falling back to the first view.
func MapViewFor(metric domain.Metric) MapView {
	for _, v := range mapViews {
		if v.Metric == metric {
			return v
		}
	}
	return mapViews[0]
}

// Category names a fixed histogram on the dashboard.
type Category string

const (
	CasesPerDay            Category = "cases-per-day"
	DeathsPerDay           Category = "deaths-per-day"
	CumulativeCasesPerDay  Category = "cumulative-cases-per-day"
	CumulativeDeathsPerDay Category = "cumulative-deaths-per-day"
	CasesPerRegion         Category = "cases-per-region"
	DeathsPerRegion        Category = "deaths-per-region"
)

// chartDef describes how a category is drawn.
type chartDef struct {
	Title    string
	Metric   domain.Metric
	YLabel   string
	ByRegion bool
}

var categories = map[Category]chartDef{
	CasesPerDay:            {Title: "Confirmed Cases per Day", Metric: domain.MetricNewCases, YLabel: "Cases"},
	DeathsPerDay:           {Title: "Confirmed Deaths per Day", Metric: domain.MetricNewDeaths, YLabel: "Deaths"},
	CumulativeCasesPerDay:  {Title: "Cumulative Cases per Day", Metric: domain.MetricCumulativeCases, YLabel: "Cases"},
	CumulativeDeathsPerDay: {Title: "Cumulative Deaths per Day", Metric: domain.MetricCumulativeDeaths, YLabel: "Deaths"},
	CasesPerRegion:         {Title: "Confirmed Cases per Region", Metric: domain.MetricNewCases, YLabel: "Cases", ByRegion: true},
	DeathsPerRegion:        {Title: "Confirmed Deaths per Region", Metric: domain.MetricNewDeaths, YLabel: "Deaths", ByRegion: true},
}

// GlobalCategories are shown under "Global Situation", RegionCategories
// under "Situation by Region".
func GlobalCategories() []Category {
	return []Category{CasesPerDay, DeathsPerDay, CumulativeCasesPerDay, CumulativeDeathsPerDay}
}

func RegionCategories() []Category {
	return []Category{CasesPerRegion, DeathsPerRegion}
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("unknown chart category %q", s)
	}
	return c, nil
}

// Title returns the chart title for c.
func (c Category) Title() string {
	return categories[c].Title
}
