package models

import "fmt"

// OutcomeStatus is the status half of a provenance tag.
type OutcomeStatus string

const (
	StatusOK                OutcomeStatus = "ok"
	StatusMissingCredential OutcomeStatus = "missing-credential"
	StatusError             OutcomeStatus = "error"
	StatusEmpty             OutcomeStatus = "empty"
)

// Provenance tags for results that did not come from a single provider.
const (
	TagSocial       = "social"
	TagNone         = "none"
	TagLocalDataset = "fallback:local-dataset"
)

// ProviderClass is the priority tier of a provider adapter.
type ProviderClass string

const (
	ClassNews    ProviderClass = "news"
	ClassSocial  ProviderClass = "social"
	ClassFinance ProviderClass = "finance"
)

// ProviderOutcome is what a provider adapter returns. Adapters never return errors;
// failures are encoded in Status and Tag.
type ProviderOutcome struct {
	Provider string
	Status   OutcomeStatus
	Tag      string
	Records  []SourceRecord
}

// NewOutcome builds an outcome whose tag is "<status>:<provider>".
func NewOutcome(provider string, status OutcomeStatus, records []SourceRecord) ProviderOutcome {
	if status == StatusOK && len(records) == 0 {
		status = StatusEmpty
	}
	if status != StatusOK {
		records = nil
	}
	return ProviderOutcome{
		Provider: provider,
		Status:   status,
		Tag:      fmt.Sprintf("%s:%s", status, provider),
		Records:  records,
	}
}

// Empty reports whether the outcome carries no records.
func (o ProviderOutcome) Empty() bool { return len(o.Records) == 0 }
