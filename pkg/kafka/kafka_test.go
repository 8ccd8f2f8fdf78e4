package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	applogger "MarketPulse/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type flakyHandler struct {
	failures int
	calls    int
}

func (h *flakyHandler) Topic() string { return "marketpulse.alerts" }

func (h *flakyHandler) Handle(context.Context, []byte) error {
	h.calls++
	if h.calls <= h.failures {
		return errors.New("store unavailable")
	}
	return nil
}

func TestPublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "gzip")

	require.NoError(t, p.Publish(context.Background(), "alerts", []byte("id-1"), map[string]string{"title": "cpu"}))
	require.NoError(t, p.PublishMessage(context.Background(), "logs", "raw"))

	require.Len(t, w.msgs, 2)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "cpu", decoded["title"])
	assert.Equal(t, "id-1", string(w.msgs[0].Key))
	assert.Equal(t, "raw", string(w.msgs[1].Value))
	require.Len(t, w.msgs[0].Headers, 1)
	assert.Equal(t, "application/json", string(w.msgs[0].Headers[0].Value))
	assert.Empty(t, w.msgs[1].Headers)
}

func TestPublishWrapsWriterError(t *testing.T) {
	p := newProducer(&fakeWriter{err: errors.New("broker down")}, "gzip")
	err := p.Publish(context.Background(), "alerts", nil, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func newTestConsumer(t *testing.T, opts ...ConsumerOption) *Consumer {
	t.Helper()
	opts = append([]ConsumerOption{WithConsumerBrokers([]string{"localhost:9092"}), WithConsumerRetry(2, time.Millisecond)}, opts...)
	c, err := NewConsumer(applogger.Nop(), opts...)
	require.NoError(t, err)
	return c
}

func TestProcessRetriesThenCommits(t *testing.T) {
	c := newTestConsumer(t)
	r := &fakeReader{}
	h := &flakyHandler{failures: 2}

	c.process(context.Background(), r, h, kafka.Message{Offset: 7, Value: []byte("{}")})

	assert.Equal(t, 3, h.calls)
	assert.Equal(t, []int64{7}, r.committed)
}

func TestProcessParksOnDLQ(t *testing.T) {
	c := newTestConsumer(t)
	dlq := &fakeWriter{}
	c.dlq = dlq
	c.cfg.DLQTopic = "marketpulse.alerts.dlq"
	r := &fakeReader{}

	c.process(context.Background(), r, &flakyHandler{failures: 10}, kafka.Message{Offset: 3, Value: []byte("bad")})

	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "marketpulse.alerts.dlq", dlq.msgs[0].Topic)
	assert.Equal(t, []int64{3}, r.committed)
}

func TestProcessWithoutDLQLeavesUncommitted(t *testing.T) {
	c := newTestConsumer(t)
	r := &fakeReader{}

	c.process(context.Background(), r, &flakyHandler{failures: 10}, kafka.Message{Offset: 1})
	assert.Empty(t, r.committed)
}

func TestStartStop(t *testing.T) {
	c := newTestConsumer(t)
	r := &fakeReader{}
	c.newReader = func(string) messageReader { return r }

	assert.Error(t, c.Start(context.Background()))
	c.RegisterHandler(&flakyHandler{})
	require.NoError(t, c.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, c.Stop(ctx))
}

func TestProducerConfig(t *testing.T) {
	cfg := defaultProducerConfig()
	assert.Error(t, cfg.validate())

	for _, opt := range []ProducerOption{
		WithBrokers([]string{"a:9092", "b:9092"}),
		WithCompression("zstd"),
		WithHashByKey(true),
		WithMaxAttempts(5),
	} {
		opt(cfg)
	}
	require.NoError(t, cfg.validate())

	w := cfg.writer()
	assert.Equal(t, kafka.Zstd, w.Compression)
	assert.Equal(t, 5, w.MaxAttempts)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)

	WithMaxAttempts(0)(cfg)
	assert.Error(t, cfg.validate())
}
