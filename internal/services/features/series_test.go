package features

import (
	"math"
	"testing"

	"MarketPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(date, headline string, score float64) models.SourceRecord {
	return models.SourceRecord{Date: date, Headline: headline}.Scored(models.Neutral, score)
}

func TestDailySeriesAveragesDuplicatesAscending(t *testing.T) {
	series := DailySeries([]models.SourceRecord{
		rec("2025-01-03", "a", 0.5),
		rec("2025-01-01", "b", 0.2),
		rec("2025-01-03", "c", -0.1),
		{Date: "garbage", Headline: "d"},
	})

	require.Len(t, series, 2)
	assert.Equal(t, "2025-01-01", series[0].Date.Format("2006-01-02"))
	assert.InDelta(t, 0.2, series[0].Value, 1e-9)
	assert.InDelta(t, 0.2, series[1].Value, 1e-9)
}

func TestFilterByEntity(t *testing.T) {
	records := []models.SourceRecord{rec("2025-01-01", "NVIDIA beats", 0.3), rec("2025-01-01", "AMD misses", -0.3)}

	assert.Len(t, FilterByEntity(records, "nvidia"), 1)
	assert.Len(t, FilterByEntity(records, "aggregate"), 2)
	assert.Len(t, FilterByEntity(records, ""), 2)
	assert.Empty(t, FilterByEntity(records, "Intel"))
}

func TestDailySeriesSkipsNonFiniteScores(t *testing.T) {
	series := DailySeries([]models.SourceRecord{
		rec("2025-01-01", "a", 0.4),
		rec("2025-01-02", "b", math.NaN()),
		rec("2025-01-02", "c", math.Inf(1)),
		rec("2025-01-01", "d", math.Inf(-1)),
	})

	require.Len(t, series, 1)
	assert.Equal(t, "2025-01-01", series[0].Date.Format("2006-01-02"))
	assert.InDelta(t, 0.4, series[0].Value, 1e-9)
}

func TestMatchingHeadlineTreatsAggregateAsText(t *testing.T) {
	records := []models.SourceRecord{rec("2025-01-01", "NVIDIA beats", 0.3), rec("2025-01-01", "Aggregate demand slows", -0.3)}

	got := MatchingHeadline(records, "aggregate")
	require.Len(t, got, 1)
	assert.Equal(t, "Aggregate demand slows", got[0].Headline)
	assert.Len(t, MatchingHeadline(records, " "), 2)
	assert.Empty(t, MatchingHeadline(records, "Intel"))
}
