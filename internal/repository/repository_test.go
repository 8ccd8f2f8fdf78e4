package repository

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MarketPulse/internal/catalog"
	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(date, headline string, label models.Sentiment, score float64) models.SourceRecord {
	return models.SourceRecord{Date: date, Headline: headline, Source: "Reuters", Link: "https://example.com/x"}.Scored(label, score)
}

func TestCSVDatasetRoundTrip(t *testing.T) {
	ds := NewCSVDataset(t.TempDir(), nil)
	ctx := context.Background()

	assert.False(t, ds.Exists("ai-ml"))
	_, err := ds.Load(ctx, "ai-ml")
	assert.True(t, errors.Is(err, domrepo.ErrDatasetMissing))

	in := []models.SourceRecord{
		scored("2025-02-01", "OpenAI surges in ai ml market", models.Positive, 0.8123),
		scored("2025-01-01", `Anthropic, "quoted" in ai ml market`, models.Negative, -0.5),
		{Date: "2024-12-31", Headline: "Unscored", Source: "Wired"},
	}
	require.NoError(t, ds.Replace(ctx, "ai-ml", in))
	assert.True(t, ds.Exists("ai-ml"))

	raw, err := os.ReadFile(ds.Path("ai-ml"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "date,headline,source,sentiment,sentiment_score,link", lines[0])
	assert.Contains(t, lines[1], ",positive,0.812,")

	out, err := ds.Load(ctx, "ai-ml")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, `Anthropic, "quoted" in ai ml market`, out[1].Headline)
	score, ok := out[1].Score()
	assert.True(t, ok)
	assert.Equal(t, -0.5, score)
	_, ok = out[2].Score()
	assert.False(t, ok)
}

func TestCSVDatasetReplaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	ds := NewCSVDataset(dir, nil)
	ctx := context.Background()

	require.NoError(t, ds.Replace(ctx, "web3", []models.SourceRecord{scored("2025-01-01", "a", models.Neutral, 0)}))
	require.NoError(t, ds.Replace(ctx, "web3", []models.SourceRecord{scored("2025-01-02", "b", models.Neutral, 0)}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "web3.csv", entries[0].Name())

	out, err := ds.Load(ctx, "web3")
	require.NoError(t, err)
	assert.Equal(t, "b", out[0].Headline)
}

func TestCSVDatasetSeededGenerationIsByteIdentical(t *testing.T) {
	anchor := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	write := func() string {
		dir := t.TempDir()
		ds := NewCSVDataset(dir, nil)
		for _, b := range dataset.NewGenerator(catalog.New(), 1337, 100, anchor).Generate() {
			require.NoError(t, ds.Replace(ctx, b.Category, b.Records))
		}
		return dir
	}
	first, second := write(), write()

	slugs := catalog.New().Slugs()
	require.NotEmpty(t, slugs)
	for _, slug := range slugs {
		a, err := os.ReadFile(filepath.Join(first, slug+".csv"))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, slug+".csv"))
		require.NoError(t, err)
		assert.NotEmpty(t, a, slug)
		assert.Equal(t, a, b, slug)
	}
}

func TestCSVDatasetLoadDuringReplaceSeesWholeFile(t *testing.T) {
	ds := NewCSVDataset(t.TempDir(), nil)
	ctx := context.Background()

	batches := dataset.NewGenerator(catalog.New(), 1337, 100, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)).Generate()
	require.NotEmpty(t, batches)
	category, records := batches[0].Category, batches[0].Records
	require.NoError(t, ds.Replace(ctx, category, records))

	done := make(chan struct{})
	writerErr := make(chan error, 1)
	go func() {
		defer close(writerErr)
		for {
			select {
			case <-done:
				return
			default:
			}
			if err := ds.Replace(ctx, category, records); err != nil {
				writerErr <- err
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		out, err := ds.Load(ctx, category)
		require.NoError(t, err)
		require.Len(t, out, len(records))
	}
	close(done)
	assert.NoError(t, <-writerErr)
}

func TestCSVDatasetLoadLeavesNonFiniteScoresUnscored(t *testing.T) {
	ds := NewCSVDataset(t.TempDir(), nil)
	raw := "date,headline,source,sentiment,sentiment_score,link\n" +
		"2025-01-01,Nan row,Reuters,neutral,NaN,\n" +
		"2025-01-02,Inf row,Reuters,positive,+Inf,\n" +
		"2025-01-03,Plain row,Reuters,positive,0.250,\n"
	require.NoError(t, os.WriteFile(ds.Path("fintech"), []byte(raw), 0o644))

	out, err := ds.Load(context.Background(), "fintech")
	require.NoError(t, err)
	require.Len(t, out, 3)

	_, ok := out[0].Score()
	assert.False(t, ok)
	_, ok = out[1].Score()
	assert.False(t, ok)
	score, ok := out[2].Score()
	require.True(t, ok)
	assert.Equal(t, 0.25, score)
}

func TestAlertLogAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.log")
	log := NewAlertLog(path, 1, 1)
	ctx := context.Background()

	for _, id := range []string{"a1", "a2"} {
		require.NoError(t, log.Save(ctx, models.Alert{ID: id, Title: "cpu", Severity: models.SeverityWarning, Message: "high"}))
	}
	require.NoError(t, log.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var a models.Alert
		require.NoError(t, json.Unmarshal(sc.Bytes(), &a))
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a1", "a2"}, ids)
}

type fakePublisher struct {
	topic string
	key   []byte
	value interface{}
	err   error
}

func (p *fakePublisher) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	p.topic, p.key, p.value = topic, key, value
	return p.err
}

func TestKafkaAlertPublisher(t *testing.T) {
	p := &fakePublisher{}
	sink := NewKafkaAlertPublisher(p, "marketpulse.alerts")

	require.NoError(t, sink.Save(context.Background(), models.Alert{ID: "x1"}))
	assert.Equal(t, "marketpulse.alerts", p.topic)
	assert.Equal(t, "x1", string(p.key))

	p.err = errors.New("broker down")
	assert.Error(t, sink.Save(context.Background(), models.Alert{ID: "x2"}))
}

type fakeExec struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (f *fakeExec) ExecContext(_ context.Context, q string, args ...interface{}) (sql.Result, error) {
	f.queries = append(f.queries, q)
	f.args = append(f.args, args)
	return nil, f.err
}

func TestCHAlertStore(t *testing.T) {
	db := &fakeExec{}
	s := newCHAlertStore(db, "marketpulse", nil)
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(context.Background(), models.Alert{ID: "a", Title: "t", Severity: models.SeverityInfo, Meta: map[string]interface{}{"k": 1}, ReceivedAt: at}))
	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "INSERT INTO marketpulse.alerts")
	assert.Equal(t, `{"k":1}`, db.args[0][4])
}

func TestCHRecordArchiveChunks(t *testing.T) {
	db := &fakeExec{}
	s := newCHRecordArchive(db, "marketpulse", nil)

	records := make([]models.SourceRecord, 0, 501)
	for i := 0; i < 501; i++ {
		records = append(records, scored("2025-01-01", "h", models.Neutral, 0.1))
	}
	require.NoError(t, s.Archive(context.Background(), "nvidia", "ok:gnews", records))
	require.Len(t, db.queries, 2)
	assert.Len(t, db.args[0], 500*9)
	assert.Len(t, db.args[1], 9)
	assert.Equal(t, "ok:gnews", db.args[1][2])

	assert.NoError(t, s.Archive(context.Background(), "q", "p", nil))
	assert.Len(t, db.queries, 2)
}

func TestSchemaNamesDatabase(t *testing.T) {
	for _, stmt := range Schema("mp") {
		assert.Contains(t, stmt, "mp")
	}
}
