package models

import "time"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a webhook notification persisted to the alert sinks.
type Alert struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	Severity   Severity               `json:"severity"`
	Message    string                 `json:"message"`
	Meta       map[string]interface{} `json:"meta"`
	ReceivedAt time.Time              `json:"received_at"`
}
