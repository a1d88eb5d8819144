// Package dashboard turns dataset aggregations into go-echarts charts.
package dashboard

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/covid-dashboard/internal/domain"
)

const (
	barColor       = "#83919c"
	transparent    = "rgba(0,0,0,0)"
	barCategoryGap = "20%"
	dateAxisLabel  = "Date Reported"
	defaultHeight  = "450px"
	worldMapType   = "world"
)

// Chart is anything that renders itself as a standalone HTML document.
type Chart interface {
	Render(w io.Writer) error
}

// Options controls chart sizing.
type Options struct {
	MapHeight   string
	ChartHeight string
}

// Builder assembles charts from a dataset. It holds no per-request state.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder, filling unset sizes with defaults.
func NewBuilder(o Options) *Builder {
	if o.MapHeight == "" {
		o.MapHeight = "600px"
	}
	if o.ChartHeight == "" {
		o.ChartHeight = defaultHeight
	}
	return &Builder{opts: o}
}

// MapHeight is the CSS height maps are drawn at.
func (b *Builder) MapHeight() string { return b.opts.MapHeight }

// Map builds the choropleth for metric on date. A zero date selects the
// latest report date. Countries whose code did not resolve are absent.
func (b *Builder) Map(ds *domain.Dataset, metric domain.Metric, date time.Time) *charts.Map {
	view := MapViewFor(metric)
	if date.IsZero() {
		date = ds.LastDate()
	}

	points := ds.MapFrame(view.Metric, date)
	data := make([]opts.MapData, 0, len(points))
	var maxValue int64
	for _, p := range points {
		data = append(data, opts.MapData{Name: featureName(p), Value: p.Value})
		maxValue = max(maxValue, p.Value)
	}

	m := charts.NewMap()
	m.RegisterMapType(worldMapType)
	m.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       view.Title,
			Width:           "100%",
			Height:          b.opts.MapHeight,
			BackgroundColor: transparent,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    view.Title,
			Subtitle: date.Format(domain.DateLayout),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(max(maxValue, 1)),
			InRange:    &opts.VisualMapInRange{Color: view.Palette},
		}),
	)
	m.AddSeries(view.Title, data)
	return m
}

// Chart builds the histogram for a fixed category.
func (b *Builder) Chart(ds *domain.Dataset, c Category) (*charts.Bar, error) {
	def, ok := categories[c]
	if !ok {
		return nil, fmt.Errorf("unknown chart category %q", c)
	}

	bar := b.newBar(def.Title, def.YLabel, def.ByRegion)
	dates := ds.Dates()
	bar.SetXAxis(formatDates(dates))

	if !def.ByRegion {
		bar.AddSeries(def.YLabel, alignToDates(dates, ds.DailyTotals(def.Metric, "")),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor}),
			charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: barCategoryGap}),
		)
		return bar, nil
	}

	perRegion := ds.RegionDailyTotals(def.Metric)
	for _, tag := range orderedRegions(ds.RegionTags()) {
		info := tag.Info()
		bar.AddSeries(info.Name, alignToDates(dates, perRegion[tag]),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: info.Color}),
			charts.WithBarChartOpts(opts.BarChart{Stack: "region", BarCategoryGap: barCategoryGap}),
		)
	}
	return bar, nil
}

// RegionPanel builds the per-region new cases histogram, titled with the
// region's formatted total.
func (b *Builder) RegionPanel(ds *domain.Dataset, region domain.Region) *charts.Bar {
	info := region.Info()
	total := ds.Aggregate(domain.MetricNewCases, region)

	bar := b.newBar(fmt.Sprintf("%s: %s confirmed cases", info.Name, total.Display), "Cases", false)
	dates := ds.Dates()
	bar.SetXAxis(formatDates(dates))
	bar.AddSeries("Cases", alignToDates(dates, ds.DailyTotals(domain.MetricNewCases, region)),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: info.Color}),
		charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: barCategoryGap}),
	)
	return bar
}

// RegionPanels lays out one panel per WHO region present in the dataset,
// in panel order.
func (b *Builder) RegionPanels(ds *domain.Dataset) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Situation by Region"
	present := make(map[domain.Region]bool)
	for _, tag := range ds.RegionTags() {
		present[tag] = true
	}
	for _, info := range domain.Regions() {
		if present[info.Tag] {
			page.AddCharts(b.RegionPanel(ds, info.Tag))
		}
	}
	return page
}

func (b *Builder) newBar(title, yLabel string, legend bool) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       title,
			Width:           "100%",
			Height:          b.opts.ChartHeight,
			BackgroundColor: transparent,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend), Top: "30"}),
		charts.WithXAxisOpts(opts.XAxis{Name: dateAxisLabel, NameLocation: "center", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      yLabel,
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	return bar
}

// orderedRegions puts the six WHO regions first in panel order, then any
// other tags in the order given.
func orderedRegions(present []domain.Region) []domain.Region {
	have := make(map[domain.Region]bool, len(present))
	for _, r := range present {
		have[r] = true
	}

	out := make([]domain.Region, 0, len(present))
	for _, info := range domain.Regions() {
		if have[info.Tag] {
			out = append(out, info.Tag)
			delete(have, info.Tag)
		}
	}
	for _, r := range present {
		if have[r] {
			out = append(out, r)
		}
	}
	return out
}

// alignToDates lays points out on the full date axis, zero where a date has
// no value.
func alignToDates(dates []time.Time, points []domain.DatePoint) []opts.BarData {
	values := make(map[time.Time]int64, len(points))
	for _, p := range points {
		values[p.Date] = p.Value
	}
	out := make([]opts.BarData, len(dates))
	for i, d := range dates {
		out[i] = opts.BarData{Value: values[d]}
	}
	return out
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(domain.DateLayout)
	}
	return out
}
