package repository

import (
	"context"
	"fmt"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
)

// Publisher is the subset of the Kafka producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaAlertPublisher forwards alerts to a topic, keyed by alert id.
type KafkaAlertPublisher struct {
	p     Publisher
	topic string
}

func NewKafkaAlertPublisher(p Publisher, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{p: p, topic: topic}
}

func (k *KafkaAlertPublisher) Name() string { return "kafka" }

func (k *KafkaAlertPublisher) Save(ctx context.Context, a models.Alert) error {
	if err := k.p.Publish(ctx, k.topic, []byte(a.ID), a); err != nil {
		return fmt.Errorf("publish alert %s: %w", a.ID, err)
	}
	return nil
}

var _ domrepo.AlertSink = (*KafkaAlertPublisher)(nil)
