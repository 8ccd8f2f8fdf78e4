package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestProphetPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forecast", r.URL.Path)
		var req prophetReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Periods)
		assert.Equal(t, "2025-01-01", req.Series[0].DS)

		_ = json.NewEncoder(w).Encode(prophetResp{Forecast: []prophetRow{
			{DS: "2025-01-02T00:00:00", YHat: 0.1, YHatLower: 0.0, YHatUpper: 0.2},
			{DS: "2025-01-03T00:00:00", YHat: 0.2, YHatLower: 0.1, YHatUpper: 0.3},
			{DS: "2025-01-04T00:00:00", YHat: 0.3, YHatLower: 0.2, YHatUpper: 0.4},
		}})
	}))
	defer srv.Close()

	f := NewProphetForecaster(NewHTTPServiceBase(srv.URL, time.Second, nil))
	pts, err := f.Predict(context.Background(), []models.TimeSeriesPoint{{Date: day("2025-01-01"), Value: 0.5}}, 2)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, "2025-01-03", pts[0].Date)
	assert.Equal(t, 0.3, pts[1].PointEstimate)
}

func TestProphetProbe(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	f := NewProphetForecaster(NewHTTPServiceBase(srv.URL, time.Second, nil))
	assert.NoError(t, f.Probe(context.Background()))

	healthy = false
	assert.True(t, errors.Is(f.Probe(context.Background()), domsvc.ErrModelUnavailable))

	unconfigured := NewProphetForecaster(NewHTTPServiceBase("", time.Second, nil))
	assert.True(t, errors.Is(unconfigured.Probe(context.Background()), domsvc.ErrModelUnavailable))
}

func TestPostJSONDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	noSleep := retry.WithSleeper(func(context.Context, time.Duration) error { return nil })
	base := NewHTTPServiceBase(srv.URL, time.Second, retry.New(retry.WithMaxAttempts(3), noSleep))
	err := base.PostJSON(context.Background(), "/forecast", map[string]int{"periods": 1}, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
