package http

import (
	"fmt"
	"net/http"
)

// Error codes carried in AppError.Code and ValidationError.Code.
const (
	CodeUnknownDomain  = "ERR_UNKNOWN_DOMAIN"
	CodeOutOfRange     = "ERR_OUT_OF_RANGE"
	CodeDatasetMissing = "ERR_DATASET_UNAVAILABLE"
	CodeInternal       = "ERR_INTERNAL"
	CodeMalformed      = "ERR_MALFORMED"
)

// AppError is an error that knows its HTTP status and renders as JSON.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(status int, code, field, format string, a ...interface{}) *AppError {
	return &AppError{Code: code, Field: field, Message: fmt.Sprintf(format, a...), Status: status}
}

func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = map[string]interface{}{}
	}
	e.Params[key] = value
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// UnknownDomainError is returned for a category slug missing from the catalog.
func UnknownDomainError(slug string) *AppError {
	return newAppError(http.StatusNotFound, CodeUnknownDomain, "domain", "unknown domain %q", slug).
		WithParam("domain", slug)
}

// OutOfRangeError rejects a numeric parameter above its configured ceiling.
func OutOfRangeError(field string, max int) *AppError {
	return newAppError(http.StatusBadRequest, CodeOutOfRange, field, "%s must be at most %d", field, max).
		WithParam("max", max)
}

// DatasetUnavailableError reports a local dataset that exists but cannot be read.
func DatasetUnavailableError(category string, err error) *AppError {
	return newAppError(http.StatusServiceUnavailable, CodeDatasetMissing, "domain", "dataset for %q is unreadable", category).
		WithError(err)
}

func InternalErrorf(format string, a ...interface{}) *AppError {
	return newAppError(http.StatusInternalServerError, CodeInternal, "", format, a...)
}
