package httpadapter

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/couchcryptid/covid-dashboard/internal/dashboard"
	"github.com/couchcryptid/covid-dashboard/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

type viewOption struct {
	Metric   domain.Metric
	Title    string
	Selected bool
}

type frameLink struct {
	Title string
	URL   string
}

type pageData struct {
	Title        string
	MapHeight    string
	Views        []viewOption
	Date         string
	FirstDate    string
	LastDate     string
	MapURL       string
	MapTitle     string
	Cases        string
	Deaths       string
	Unresolved   int
	Description  string
	GlobalCharts []frameLink
	RegionCharts []frameLink
	RegionPanels []frameLink
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}

	metric := domain.MetricCumulativeCases
	if v := r.URL.Query().Get("view"); v != "" {
		m, err := domain.ParseMetric(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		metric = m
	}
	dateParam := r.URL.Query().Get("date")
	if _, status, err := parseDate(ds, dateParam); err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	view := dashboard.MapViewFor(metric)
	mapURL := "/maps/" + string(metric)
	if dateParam != "" {
		mapURL += "?" + url.Values{"date": {dateParam}}.Encode()
	}

	cases := ds.Aggregate(domain.MetricNewCases, "")
	deaths := ds.Aggregate(domain.MetricNewDeaths, "")

	shown := dateParam
	if shown == "" && ds.Len() > 0 {
		shown = ds.LastDate().Format(domain.DateLayout)
	}

	data := pageData{
		Title:       s.title,
		MapHeight:   s.charts.MapHeight(),
		Date:        shown,
		MapURL:      mapURL,
		MapTitle:    view.Title,
		Cases:       cases.Display,
		Deaths:      deaths.Display,
		Unresolved:  len(ds.Unresolved()),
		Description: describe(ds.FirstDate(), ds.LastDate(), cases.Display, deaths.Display),
	}
	if ds.Len() > 0 {
		data.FirstDate = ds.FirstDate().Format(domain.DateLayout)
		data.LastDate = ds.LastDate().Format(domain.DateLayout)
	}
	for _, v := range dashboard.MapViews() {
		data.Views = append(data.Views, viewOption{Metric: v.Metric, Title: v.Title, Selected: v.Metric == metric})
	}
	for _, c := range dashboard.GlobalCategories() {
		data.GlobalCharts = append(data.GlobalCharts, frameLink{Title: c.Title(), URL: "/charts/" + string(c)})
	}
	for _, c := range dashboard.RegionCategories() {
		data.RegionCharts = append(data.RegionCharts, frameLink{Title: c.Title(), URL: "/charts/" + string(c)})
	}
	present := ds.RegionTags()
	for _, info := range domain.Regions() {
		if slices.Contains(present, info.Tag) {
			data.RegionPanels = append(data.RegionPanels, frameLink{Title: info.Name, URL: "/regions/" + string(info.Tag)})
		}
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.metrics.RenderErrors.WithLabelValues("page").Inc()
		s.logger.Error("render dashboard page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	s.metrics.Renders.WithLabelValues("page").Inc()
	s.metrics.RenderDuration.WithLabelValues("page").Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	metric, err := domain.ParseMetric(r.PathValue("metric"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	date, status, err := parseDate(ds, r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	s.writeChart(w, "map_"+string(metric), func() dashboard.Chart {
		return s.charts.Map(ds, metric, date)
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	category, err := dashboard.ParseCategory(r.PathValue("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	bar, err := s.charts.Chart(ds, category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeChart(w, string(category), func() dashboard.Chart { return bar })
}

func (s *Server) handleRegionPanel(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	region, err := domain.ParseRegion(r.PathValue("region"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeChart(w, "region", func() dashboard.Chart {
		return s.charts.RegionPanel(ds, region)
	})
}

func (s *Server) handleRegionPanels(w http.ResponseWriter, _ *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	s.writeChart(w, "regions", func() dashboard.Chart {
		return s.charts.RegionPanels(ds)
	})
}

type totalsResponse struct {
	Metric          domain.Metric `json:"metric"`
	Region          domain.Region `json:"region,omitempty"`
	Total           int64         `json:"total"`
	Display         string        `json:"display"`
	Records         int           `json:"records"`
	FirstDate       string        `json:"first_date,omitempty"`
	LastDate        string        `json:"last_date,omitempty"`
	UnresolvedCodes []string      `json:"unresolved_codes"`
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	ds := s.data.Dataset()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
		return
	}

	metric := domain.MetricNewCases
	if v := r.URL.Query().Get("metric"); v != "" {
		m, err := domain.ParseMetric(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		metric = m
	}
	region, err := ds.LookupRegion(r.URL.Query().Get("region"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	agg := ds.Aggregate(metric, region)
	resp := totalsResponse{
		Metric:          agg.Metric,
		Region:          agg.Region,
		Total:           agg.Total,
		Display:         agg.Display,
		Records:         len(agg.Records),
		UnresolvedCodes: ds.Unresolved(),
	}
	if resp.UnresolvedCodes == nil {
		resp.UnresolvedCodes = []string{}
	}
	if ds.Len() > 0 {
		resp.FirstDate = ds.FirstDate().Format(domain.DateLayout)
		resp.LastDate = ds.LastDate().Format(domain.DateLayout)
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	ds := s.data.Dataset()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, ds.RegionTotals())
}

// dataset returns the loaded dataset or answers 503.
func (s *Server) dataset(w http.ResponseWriter) (*domain.Dataset, bool) {
	ds := s.data.Dataset()
	if ds == nil {
		http.Error(w, "dataset not loaded yet", http.StatusServiceUnavailable)
		return nil, false
	}
	return ds, true
}

// writeChart builds and renders a chart fragment, recording render metrics
// under view.
func (s *Server) writeChart(w http.ResponseWriter, view string, build func() dashboard.Chart) {
	start := time.Now()

	var buf bytes.Buffer
	if err := build().Render(&buf); err != nil {
		s.metrics.RenderErrors.WithLabelValues(view).Inc()
		s.logger.Error("render chart failed", "view", view, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	s.metrics.Renders.WithLabelValues(view).Inc()
	s.metrics.RenderDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// parseDate reads an optional YYYY-MM-DD value. Empty means the latest date
// and returns the zero time. Malformed dates are a 400, dates with no
// reports a 404.
func parseDate(ds *domain.Dataset, s string) (time.Time, int, error) {
	if s == "" {
		return time.Time{}, http.StatusOK, nil
	}
	date, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, http.StatusBadRequest, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	if !ds.HasDate(date) {
		return time.Time{}, http.StatusNotFound, fmt.Errorf("no reports on %s", s)
	}
	return date, http.StatusOK, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}

func describe(first, last time.Time, cases, deaths string) string {
	return fmt.Sprintf("As of %s to %s, there have been %s confirmed cases of COVID-19 and %s deaths globally.",
		longDate(first), longDate(last), cases, deaths)
}

// longDate formats t as "3rd January 2020".
func longDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d%s %s", t.Day(), ordinalSuffix(t.Day()), t.Format("January 2006"))
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
