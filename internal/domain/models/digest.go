package models

// Digest is the Aggregation Layer's result for one entity/category request.
type Digest struct {
	Records          []SourceRecord
	Summary          string
	SentimentAverage float64
	SentimentCount   int
	Provenance       string
}
