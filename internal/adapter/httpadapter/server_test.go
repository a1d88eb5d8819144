package httpadapter_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/covid-dashboard/internal/adapter/httpadapter"
	"github.com/couchcryptid/covid-dashboard/internal/config"
	"github.com/couchcryptid/covid-dashboard/internal/dashboard"
	"github.com/couchcryptid/covid-dashboard/internal/domain"
	"github.com/couchcryptid/covid-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type staticData struct {
	ds *domain.Dataset
}

func (s staticData) Dataset() *domain.Dataset { return s.ds }

func day(d int) time.Time {
	return time.Date(2020, time.January, d, 0, 0, 0, 0, time.UTC)
}

func testDataset() *domain.Dataset {
	records, unresolved := domain.ResolveCodes([]domain.DailyRegionRecord{
		{Country: "Afghanistan", CountryCode: "AF", DateReported: day(3), NewCases: 5, CumulativeCases: 5, Region: domain.RegionEMRO},
		{Country: "United States of America", CountryCode: "US", DateReported: day(3), NewCases: 10, CumulativeCases: 10, NewDeaths: 1, CumulativeDeaths: 1, Region: domain.RegionAMRO},
		{Country: "Other", CountryCode: "", DateReported: day(3), NewCases: 2, CumulativeCases: 2, Region: "OTHER"},
		{Country: "Afghanistan", CountryCode: "AF", DateReported: day(4), NewCases: 1000, CumulativeCases: 1005, NewDeaths: 4, CumulativeDeaths: 4, Region: domain.RegionEMRO},
		{Country: "United States of America", CountryCode: "US", DateReported: day(4), NewCases: 300, CumulativeCases: 310, CumulativeDeaths: 1, Region: domain.RegionAMRO},
	})
	return domain.NewDataset(records, unresolved)
}

type testServer struct {
	*httpadapter.Server
	metrics *observability.Metrics
}

func newTestServer(ds *domain.Dataset, readyErr error) testServer {
	cfg := &config.Config{HTTPAddr: ":0", DashboardTitle: "WHO COVID-19 Data"}
	metrics := observability.NewMetricsForTesting()
	builder := dashboard.NewBuilder(dashboard.Options{MapHeight: "600px"})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httpadapter.NewServer(cfg, staticData{ds: ds}, &mockReadiness{err: readyErr}, builder, metrics, logger)
	return testServer{Server: srv, metrics: metrics}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(testDataset(), nil), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(nil, fmt.Errorf("dataset not loaded yet")), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "dataset not loaded yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNotLoadedReturns503(t *testing.T) {
	srv := newTestServer(nil, nil)
	for _, target := range []string{"/", "/maps/new_cases", "/charts/cases-per-day", "/regions", "/regions/AFRO", "/api/totals", "/api/regions"} {
		t.Run(target, func(t *testing.T) {
			assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, target).Code)
		})
	}
}

func TestDashboardPage(t *testing.T) {
	srv := newTestServer(testDataset(), nil)
	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "WHO COVID-19 Data")
	assert.Contains(t, body, `<p id="total-cases">1,317</p>`)
	assert.Contains(t, body, `<p id="total-deaths">5</p>`)
	assert.Contains(t, body, "As of 3rd January 2020 to 4th January 2020, there have been 1,317 confirmed cases of COVID-19 and 5 deaths globally.")
	assert.Contains(t, body, `<option value="cumulative_cases" selected>Cumulative Cases</option>`)
	assert.Contains(t, body, `src="/maps/cumulative_cases"`)
	assert.Contains(t, body, `src="/charts/cases-per-day"`)
	assert.Contains(t, body, `src="/charts/deaths-per-region"`)
	assert.Contains(t, body, `src="/regions/EMRO"`)
	assert.Contains(t, body, `src="/regions/AMRO"`)
	assert.NotContains(t, body, `src="/regions/AFRO"`)
	assert.Contains(t, body, "Not shown on maps: 1 unmapped country codes.")

	assert.InDelta(t, 1, testutil.ToFloat64(srv.metrics.Renders.WithLabelValues("page")), 0)
}

func TestDashboardPageSelectsView(t *testing.T) {
	rec := get(t, newTestServer(testDataset(), nil), "/?view=new_deaths&date=2020-01-03")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="new_deaths" selected>New Deaths</option>`)
	assert.Contains(t, body, `src="/maps/new_deaths?date=2020-01-03"`)
	assert.Contains(t, body, `name="date" value="2020-01-03"`)
}

func TestDashboardPageDateControl(t *testing.T) {
	srv := newTestServer(testDataset(), nil)

	body := get(t, srv, "/").Body.String()
	assert.Contains(t, body, `<input type="date" id="date" name="date" value="2020-01-04" min="2020-01-03" max="2020-01-04"`)

	body = get(t, srv, "/?date=2020-01-03").Body.String()
	assert.Contains(t, body, `<input type="date" id="date" name="date" value="2020-01-03" min="2020-01-03" max="2020-01-04"`)
}

func TestDashboardPageBadInput(t *testing.T) {
	srv := newTestServer(testDataset(), nil)

	tests := []struct {
		target string
		status int
	}{
		{"/?view=hospitalisations", http.StatusBadRequest},
		{"/?date=03-01-2020", http.StatusBadRequest},
		{"/?date=2021-01-01", http.StatusNotFound},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.status, get(t, srv, tt.target).Code)
		})
	}
}

func TestMapFragment(t *testing.T) {
	srv := newTestServer(testDataset(), nil)

	rec := get(t, srv, "/maps/cumulative_cases")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Cumulative Cases")
	assert.Contains(t, body, "2020-01-04")
	assert.Contains(t, body, "Afghanistan")
	assert.Contains(t, body, "1005")

	rec = get(t, srv, "/maps/new_cases?date=2020-01-03")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2020-01-03")

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/maps/recoveries").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/maps/new_cases?date=yesterday").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/maps/new_cases?date=2020-02-01").Code)

	assert.InDelta(t, 1, testutil.ToFloat64(srv.metrics.Renders.WithLabelValues("map_cumulative_cases")), 0)
}

func TestChartFragments(t *testing.T) {
	srv := newTestServer(testDataset(), nil)

	rec := get(t, srv, "/charts/cases-per-day")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Confirmed Cases per Day")

	rec = get(t, srv, "/charts/deaths-per-region")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Confirmed Deaths per Region")

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/charts/cases-per-week").Code)
}

func TestRegionPanels(t *testing.T) {
	srv := newTestServer(testDataset(), nil)

	rec := get(t, srv, "/regions/emro")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Eastern Mediterranean: 1,005 confirmed cases")

	rec = get(t, srv, "/regions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Americas: 310 confirmed cases")

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/regions/OTHER").Code)
}

func TestAPITotals(t *testing.T) {
	srv := newTestServer(testDataset(), nil)

	tests := []struct {
		name    string
		target  string
		total   int64
		display string
		records int
	}{
		{"default metric all regions", "/api/totals", 1317, "1,317", 5},
		{"metric and region", "/api/totals?metric=new_deaths&region=EMRO", 4, "4", 2},
		{"lowercase region", "/api/totals?metric=cumulative_cases&region=amro", 320, "320", 2},
		{"non-WHO tag present in data", "/api/totals?region=other", 2, "2", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Total      int64    `json:"total"`
				Display    string   `json:"display"`
				Records    int      `json:"records"`
				FirstDate  string   `json:"first_date"`
				LastDate   string   `json:"last_date"`
				Unresolved []string `json:"unresolved_codes"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.total, body.Total)
			assert.Equal(t, tt.display, body.Display)
			assert.Equal(t, tt.records, body.Records)
			assert.Equal(t, "2020-01-03", body.FirstDate)
			assert.Equal(t, "2020-01-04", body.LastDate)
			assert.Equal(t, []string{""}, body.Unresolved)
		})
	}
}

func TestAPITotalsBadInput(t *testing.T) {
	srv := newTestServer(testDataset(), nil)

	for _, target := range []string{"/api/totals?metric=recoveries", "/api/totals?region=MARS"} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, srv, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestAPIRegions(t *testing.T) {
	rec := get(t, newTestServer(testDataset(), nil), "/api/regions")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []domain.RegionTotal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 3)
	assert.Equal(t, domain.RegionAMRO, body[0].Region)
	assert.Equal(t, "Americas", body[0].Name)
	assert.Equal(t, int64(310), body[0].Cases)
	assert.Equal(t, int64(1), body[0].Deaths)
	assert.Equal(t, domain.RegionEMRO, body[1].Region)
	assert.Equal(t, int64(1005), body[1].Cases)
	assert.Equal(t, domain.Region("OTHER"), body[2].Region)
}
