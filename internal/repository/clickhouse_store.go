package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"
)

// Schema returns the DDL for the alert and record archive tables.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s.alerts (
            id String,
            title String,
            severity LowCardinality(String),
            message String,
            meta String,
            received_at DateTime64(3, 'UTC')
        ) ENGINE = ReplacingMergeTree
        ORDER BY (received_at, id)`, database),
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s.source_records (
            fetched_at DateTime64(3, 'UTC'),
            query String,
            provenance LowCardinality(String),
            date Date,
            headline String,
            source LowCardinality(String),
            sentiment LowCardinality(String),
            sentiment_score Float64,
            link String
        ) ENGINE = MergeTree
        PARTITION BY toYYYYMM(date)
        ORDER BY (query, date)`, database),
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CHAlertStore writes alerts into ClickHouse.
type CHAlertStore struct {
	db    execer
	table string
	l     *applogger.Logger
}

func NewCHAlertStore(db *sql.DB, database string, l *applogger.Logger) *CHAlertStore {
	return newCHAlertStore(db, database, l)
}

func newCHAlertStore(db execer, database string, l *applogger.Logger) *CHAlertStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHAlertStore{db: db, table: database + ".alerts", l: l}
}

func (s *CHAlertStore) Name() string { return "clickhouse" }

func (s *CHAlertStore) Save(ctx context.Context, a models.Alert) error {
	meta, err := json.Marshal(a.Meta)
	if err != nil {
		return fmt.Errorf("encode alert meta: %w", err)
	}
	q := fmt.Sprintf("INSERT INTO %s (id, title, severity, message, meta, received_at) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	if _, err := s.db.ExecContext(ctx, q, a.ID, a.Title, string(a.Severity), a.Message, string(meta), a.ReceivedAt.UTC()); err != nil {
		s.l.Error("clickhouse insert alert error", applogger.String("id", a.ID), applogger.Error(err))
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// CHRecordArchive appends scored records with their query and provenance.
type CHRecordArchive struct {
	db    execer
	table string
	now   func() time.Time
	l     *applogger.Logger
}

func NewCHRecordArchive(db *sql.DB, database string, l *applogger.Logger) *CHRecordArchive {
	return newCHRecordArchive(db, database, l)
}

func newCHRecordArchive(db execer, database string, l *applogger.Logger) *CHRecordArchive {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHRecordArchive{db: db, table: database + ".source_records", now: time.Now, l: l}
}

func (s *CHRecordArchive) Archive(ctx context.Context, query, provenance string, records []models.SourceRecord) error {
	if len(records) == 0 {
		return nil
	}
	start := s.now()
	fetchedAt := start.UTC()

	// Chunked multi-row VALUES insert.
	const chunkSize = 500
	for lo := 0; lo < len(records); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(records) {
			hi = len(records)
		}
		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*9)
		for _, r := range records[lo:hi] {
			label := ""
			if r.Sentiment != nil {
				label = string(*r.Sentiment)
			}
			score, _ := r.Score()
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, fetchedAt, query, provenance, r.Date, r.Headline, r.Source, label, score, r.Link)
		}
		q := fmt.Sprintf("INSERT INTO %s (fetched_at, query, provenance, date, headline, source, sentiment, sentiment_score, link) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("clickhouse archive records error",
				applogger.String("query", query),
				applogger.Int("rows", hi-lo),
				applogger.Error(err),
			)
			return fmt.Errorf("archive records: %w", err)
		}
	}
	s.l.Debug("clickhouse archive records ok",
		applogger.String("query", query),
		applogger.Int("rows", len(records)),
		applogger.Duration("duration", s.now().Sub(start)),
	)
	return nil
}

var (
	_ domrepo.AlertSink     = (*CHAlertStore)(nil)
	_ domrepo.RecordArchive = (*CHRecordArchive)(nil)
)
