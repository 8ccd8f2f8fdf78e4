package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"

	"github.com/gocarina/gocsv"
)

// csvRow is the on-disk column layout; order matters.
type csvRow struct {
	Date           string `csv:"date"`
	Headline       string `csv:"headline"`
	Source         string `csv:"source"`
	Sentiment      string `csv:"sentiment"`
	SentimentScore string `csv:"sentiment_score"`
	Link           string `csv:"link"`
}

// CSVDataset keeps one CSV file per category under dir. Replace writes a
// temp file and renames it over the old one, so readers never see a partial file.
type CSVDataset struct {
	dir string
	l   *applogger.Logger
}

func NewCSVDataset(dir string, l *applogger.Logger) *CSVDataset {
	if l == nil {
		l = applogger.Nop()
	}
	return &CSVDataset{dir: dir, l: l}
}

// Path is the file backing category.
func (d *CSVDataset) Path(category string) string {
	return filepath.Join(d.dir, category+".csv")
}

func (d *CSVDataset) Exists(category string) bool {
	st, err := os.Stat(d.Path(category))
	return err == nil && !st.IsDir()
}

func (d *CSVDataset) Load(_ context.Context, category string) ([]models.SourceRecord, error) {
	f, err := os.Open(d.Path(category))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domrepo.ErrDatasetMissing, category)
		}
		return nil, fmt.Errorf("open dataset %s: %w", category, err)
	}
	defer f.Close()

	var rows []csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", category, err)
	}

	out := make([]models.SourceRecord, 0, len(rows))
	for _, row := range rows {
		rec, ok := fromRow(row)
		if !ok {
			d.l.Debug("dataset row skipped", applogger.String("category", category), applogger.String("headline", row.Headline))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (d *CSVDataset) Replace(_ context.Context, category string, records []models.SourceRecord) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	rows := make([]*csvRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, toRow(r))
	}

	tmp, err := os.CreateTemp(d.dir, category+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if err := gocsv.Marshal(rows, tmp); err != nil {
		cleanup()
		return fmt.Errorf("write dataset %s: %w", category, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync dataset %s: %w", category, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close dataset %s: %w", category, err)
	}
	if err := os.Rename(tmpName, d.Path(category)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace dataset %s: %w", category, err)
	}

	d.l.Info("dataset replaced", applogger.String("category", category), applogger.Int("rows", len(records)))
	return nil
}

func toRow(r models.SourceRecord) *csvRow {
	row := &csvRow{Date: r.Date, Headline: r.Headline, Source: r.Source, Link: r.Link}
	if r.Sentiment != nil {
		row.Sentiment = string(*r.Sentiment)
	}
	if score, ok := r.Score(); ok {
		row.SentimentScore = strconv.FormatFloat(score, 'f', 3, 64)
	}
	return row
}

func fromRow(row csvRow) (models.SourceRecord, bool) {
	rec := models.SourceRecord{
		Date:     strings.TrimSpace(row.Date),
		Headline: strings.TrimSpace(row.Headline),
		Source:   strings.TrimSpace(row.Source),
		Link:     strings.TrimSpace(row.Link),
	}
	if rec.Headline == "" {
		return rec, false
	}
	if s := strings.TrimSpace(row.SentimentScore); s != "" {
		score, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, false
		}
		// NaN and Inf parse cleanly but cannot be averaged; keep the row unscored.
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return rec, true
		}
		label := models.Sentiment(strings.TrimSpace(row.Sentiment))
		rec = rec.Scored(label, score)
	}
	return rec, true
}

var _ domrepo.Dataset = (*CSVDataset)(nil)
