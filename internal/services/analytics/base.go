package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/retry"
)

// HTTPServiceBase is the shared foundation for model-service HTTP clients.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
	retrier *retry.Executor
}

// NewHTTPServiceBase builds a client for the service at baseURL.
func NewHTTPServiceBase(baseURL string, timeout time.Duration, retrier *retry.Executor) *HTTPServiceBase {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if retrier == nil {
		retrier = retry.New(retry.WithMaxAttempts(1))
	}
	return &HTTPServiceBase{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		retrier: retrier,
	}
}

// Configured reports whether a base URL was provided.
func (b *HTTPServiceBase) Configured() bool {
	return b != nil && b.baseURL != ""
}

// PostJSON posts payload to path and decodes the JSON reply into dest.
// 4xx replies are not retried.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	return b.do(ctx, xhttp.MethodPost, path, payload, dest)
}

// GetJSON fetches path and decodes the JSON reply into dest (nil to discard).
func (b *HTTPServiceBase) GetJSON(ctx context.Context, path string, dest interface{}) error {
	return b.do(ctx, xhttp.MethodGet, path, nil, dest)
}

func (b *HTTPServiceBase) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	if !b.Configured() {
		return fmt.Errorf("model service url not configured")
	}
	err := b.retrier.Do(ctx, func(ctx context.Context) error {
		err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: method,
			URL:    b.baseURL + path,
			Body:   payload,
		}, dest)
		if xhttp.IsClientError(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", strings.ToLower(method), path, err)
	}
	return nil
}
