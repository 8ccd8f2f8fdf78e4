package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	xhttp "MarketPulse/pkg/http"
	applogger "MarketPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

type component struct {
	name     string
	rec      *recorder
	startErr error
}

func (c *component) Start(context.Context) error {
	c.rec.add("start " + c.name)
	return c.startErr
}

func (c *component) Stop(context.Context) error {
	c.rec.add("stop " + c.name)
	return nil
}

func testServer() *xhttp.Server {
	return xhttp.NewServer(applogger.Nop(), nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0))
}

func TestRunStopsComponentsInReverseOrder(t *testing.T) {
	rec := &recorder{}
	app := New(applogger.Nop(), testServer(), time.Second,
		&component{name: "consumer", rec: rec}, nil, &component{name: "archiver", rec: rec})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, app.Run(ctx))

	assert.Equal(t, []string{"start consumer", "start archiver", "stop archiver", "stop consumer"}, rec.calls)
}

func TestRunUnwindsOnStartFailure(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("broker unreachable")
	app := New(applogger.Nop(), testServer(), time.Second,
		&component{name: "a", rec: rec}, &component{name: "b", rec: rec, startErr: boom})

	err := app.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"start a", "start b", "stop a"}, rec.calls)
}
