package repository

import (
	"context"

	"LiqWatch/internal/domain/models"
	"LiqWatch/internal/domain/repository"
	pkgkafka "LiqWatch/pkg/kafka"
)

// KafkaPublisher fans ingested liquidation events out to a Kafka topic,
// keyed by symbol so per-symbol ordering is preserved.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates the Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev *models.LiquidationEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
