package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"MarketPulse/pkg/util"

	"github.com/go-playground/validator/v10"
)

// Sentiment is the label derived from a sentiment score.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// ErrInvalidRecord is returned when a provider item cannot become a SourceRecord.
var ErrInvalidRecord = errors.New("invalid source record")

// SourceRecord is one normalized item from a provider or the local dataset.
// Sentiment fields stay nil until the record has been scored.
type SourceRecord struct {
	Date           string     `json:"date" validate:"required,len=10"`
	Headline       string     `json:"headline" validate:"required"`
	Source         string     `json:"source"`
	Sentiment      *Sentiment `json:"sentiment"`
	SentimentScore *float64   `json:"sentiment_score" validate:"omitempty,gte=-1,lte=1"`
	Link           string     `json:"link" validate:"omitempty,url"`
}

var recordValidator = validator.New()

// NewSourceRecord builds a record from raw provider fields. Dates that cannot be
// parsed fall back to fetchedAt; an empty headline or malformed link is rejected.
func NewSourceRecord(date, headline, source, link string, fetchedAt time.Time) (SourceRecord, error) {
	r := SourceRecord{
		Date:     util.NormalizeDate(date, fetchedAt),
		Headline: strings.TrimSpace(headline),
		Source:   strings.TrimSpace(source),
		Link:     strings.TrimSpace(link),
	}
	if err := r.Validate(); err != nil {
		return SourceRecord{}, err
	}
	return r, nil
}

// Validate checks the record invariants.
func (r SourceRecord) Validate() error {
	if err := recordValidator.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalidRecord, r.Date)
	}
	return nil
}

// Scored returns a copy of r carrying label and score.
func (r SourceRecord) Scored(label Sentiment, score float64) SourceRecord {
	r.Sentiment = &label
	r.SentimentScore = &score
	return r
}

// Score returns the sentiment score and whether it is present.
func (r SourceRecord) Score() (float64, bool) {
	if r.SentimentScore == nil {
		return 0, false
	}
	return *r.SentimentScore, true
}
