package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataset(t *testing.T) {
	fixedTime := time.Date(2024, 4, 26, 12, 30, 45, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	records := sampleRecords()
	ds := NewDataset(records, []string{""})

	assert.Equal(t, len(records), ds.Len())
	assert.Equal(t, fixedTime, ds.LoadedAt())
	assert.Equal(t, []time.Time{jan3, jan4}, ds.Dates())
	assert.Equal(t, jan3, ds.FirstDate())
	assert.Equal(t, jan4, ds.LastDate())
	assert.True(t, ds.HasDate(jan4))
	assert.False(t, ds.HasDate(jan5))
	assert.Equal(t, []string{""}, ds.Unresolved())
	assert.Equal(t, []Region{RegionAFRO, RegionAMRO, RegionEURO, "OTHER"}, ds.RegionTags())
}

func TestDataset_IsolatedFromCallers(t *testing.T) {
	records := sampleRecords()
	ds := NewDataset(records, nil)

	records[0].NewCases = 1_000_000
	assert.Equal(t, int64(1925), ds.Aggregate(MetricNewCases, "").Total)

	out := ds.Records()
	out[0].NewCases = 1_000_000
	assert.Equal(t, int64(1925), ds.Aggregate(MetricNewCases, "").Total)

	dates := ds.Dates()
	dates[0] = jan5
	assert.Equal(t, jan3, ds.FirstDate())
}

func TestDataset_Empty(t *testing.T) {
	ds := NewDataset(nil, nil)
	assert.Zero(t, ds.Len())
	assert.True(t, ds.FirstDate().IsZero())
	assert.True(t, ds.LastDate().IsZero())
	assert.Empty(t, ds.RegionTotals())
}

func TestDataset_Views(t *testing.T) {
	ds := NewDataset(sampleRecords(), nil)

	assert.Equal(t, []DatePoint{{Date: jan3, Value: 7}, {Date: jan4, Value: 3}}, ds.DailyTotals(MetricNewCases, RegionEURO))
	assert.Len(t, ds.RegionDailyTotals(MetricNewCases), 4)
	assert.Len(t, ds.MapFrame(MetricNewCases, jan3), 2)
}

func TestDataset_RegionTotals(t *testing.T) {
	ds := NewDataset(sampleRecords(), nil)

	totals := ds.RegionTotals()
	require.Len(t, totals, 4)

	assert.Equal(t, RegionAFRO, totals[0].Region)
	assert.Equal(t, "Africa", totals[0].Name)
	assert.Equal(t, int64(1200), totals[0].Cases)
	assert.Equal(t, int64(4), totals[0].Deaths)
	assert.Equal(t, 1, totals[0].Countries)
	assert.Equal(t, jan4, totals[0].AsOf)

	assert.Equal(t, RegionAMRO, totals[1].Region)
	assert.Equal(t, int64(15), totals[1].Cases)
	assert.Equal(t, int64(1), totals[1].Deaths)

	assert.Equal(t, Region("OTHER"), totals[3].Region)
	assert.Equal(t, int64(700), totals[3].Cases)
}

func TestStampPublished(t *testing.T) {
	fixedTime := time.Date(2024, 4, 26, 12, 30, 45, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	totals := NewDataset(sampleRecords(), nil).RegionTotals()
	stamped := StampPublished(totals)

	require.Len(t, stamped, len(totals))
	for i := range stamped {
		assert.Equal(t, fixedTime, stamped[i].PublishedAt)
		assert.True(t, totals[i].PublishedAt.IsZero(), "input must not be modified")
	}
}

func TestDataset_LookupRegion(t *testing.T) {
	ds := NewDataset(sampleRecords(), nil)

	tests := []struct {
		name     string
		input    string
		expected Region
		wantErr  bool
	}{
		{"empty means all", "", "", false},
		{"who region", "EURO", RegionEURO, false},
		{"who region lower case", " afro ", RegionAFRO, false},
		{"who region absent from data", "SEARO", RegionSEARO, false},
		{"non-who tag present in data", "other", "OTHER", false},
		{"unknown tag", "MARS", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ds.LookupRegion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
