package repository

import (
	"context"

	"MagIntel/internal/domain/models"
	"MagIntel/internal/domain/repository"
	pkgkafka "MagIntel/pkg/kafka"
	xutil "MagIntel/pkg/util"
)

// KafkaEntryPublisher emits entry events to Kafka, keyed by ticker so a
// ticker's entries stay ordered within a partition.
type KafkaEntryPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaEntryPublisher creates the Kafka entry publisher.
func NewKafkaEntryPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaEntryPublisher{producer: producer, topic: topic}
}

func entryPayload(e models.Entry) map[string]interface{} {
	return map[string]interface{}{
		"ticker":     e.Ticker,
		"trade_date": xutil.FormatTradeDate(e.TradeDate),
		"system":     string(e.System),
		"state":      e.State,
	}
}

func (p *KafkaEntryPublisher) PublishEntries(ctx context.Context, entries []models.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(entries))
	for i, e := range entries {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(e.Ticker),
			Value: entryPayload(e),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaEntryPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
