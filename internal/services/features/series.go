package features

import (
	"math"
	"sort"
	"strings"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/util"
)

// DailySeries turns scored records into an ascending daily series. Records
// sharing a date are averaged; records without a parseable date or with a
// non-finite score are skipped and a missing score counts as 0.
func DailySeries(records []models.SourceRecord) []models.TimeSeriesPoint {
	type acc struct {
		sum float64
		n   int
	}
	byDay := make(map[string]*acc)
	for _, r := range records {
		if !util.IsDate(r.Date) {
			continue
		}
		score, _ := r.Score()
		if math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		a, ok := byDay[r.Date]
		if !ok {
			a = &acc{}
			byDay[r.Date] = a
		}
		a.sum += score
		a.n++
	}

	out := make([]models.TimeSeriesPoint, 0, len(byDay))
	for day, a := range byDay {
		d, _ := util.ParseDate(day)
		out = append(out, models.TimeSeriesPoint{Date: d, Value: a.sum / float64(a.n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// FilterByEntity keeps records whose headline mentions entity (case-insensitive).
// An empty entity or "aggregate" keeps everything.
func FilterByEntity(records []models.SourceRecord, entity string) []models.SourceRecord {
	if strings.EqualFold(strings.TrimSpace(entity), "aggregate") {
		return records
	}
	return MatchingHeadline(records, entity)
}

// MatchingHeadline keeps records whose headline contains entity
// (case-insensitive). An empty entity keeps everything.
func MatchingHeadline(records []models.SourceRecord, entity string) []models.SourceRecord {
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return records
	}
	out := make([]models.SourceRecord, 0, len(records))
	for _, r := range records {
		if util.ContainsFold(r.Headline, entity) {
			out = append(out, r)
		}
	}
	return out
}
