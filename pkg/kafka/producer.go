package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

const contentTypeJSON = "application/json"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes alerts and log digests.
type Producer struct {
	writer messageWriter
	comp   string
}

// NewProducer creates a new Kafka producer.
func NewProducer(opts ...ProducerOption) (*Producer, error) {
	cfg := defaultProducerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return newProducer(cfg.writer(), cfg.Compression), nil
}

func newProducer(w messageWriter, comp string) *Producer {
	producerMetricsOnce.Do(registerProducerMetrics)
	return &Producer{writer: w, comp: comp}
}

// Publish writes one message. Byte slices and strings are sent as is; any
// other value is JSON encoded and tagged with a content-type header.
func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	msg := kafka.Message{Topic: topic, Key: key, Time: time.Now()}
	switch v := value.(type) {
	case []byte:
		msg.Value = v
	case string:
		msg.Value = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %T for %s: %w", value, topic, err)
		}
		msg.Value = b
		msg.Headers = []kafka.Header{{Key: "content-type", Value: []byte(contentTypeJSON)}}
	}

	start := time.Now()
	err := p.writer.WriteMessages(ctx, msg)
	producerMetrics.observe(topic, p.comp, len(msg.Value), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("kafka write %s: %w", topic, err)
	}
	return nil
}

// PublishMessage publishes an unkeyed message; it satisfies the log collector's Publisher.
func (p *Producer) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.Publish(ctx, topic, nil, payload)
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

type producerCollectors struct {
	messages *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

var (
	producerMetrics     producerCollectors
	producerMetricsOnce sync.Once
)

func registerProducerMetrics() {
	producerMetrics = producerCollectors{
		messages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_kafka_producer_messages_total",
			Help: "Messages published to Kafka by result",
		}, []string{"topic", "compression", "result"}),
		bytes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "marketpulse_kafka_producer_bytes_total",
			Help: "Payload bytes published to Kafka",
		}, []string{"topic"}),
		latency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name: "marketpulse_kafka_producer_publish_seconds",
			Help: "Time spent in WriteMessages",
		}, []string{"topic"}),
	}
}

func (m producerCollectors) observe(topic, comp string, n int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.messages.WithLabelValues(topic, comp, result).Inc()
	if err == nil {
		m.bytes.WithLabelValues(topic).Add(float64(n))
	}
	m.latency.WithLabelValues(topic).Observe(d.Seconds())
}
