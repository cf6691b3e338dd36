package repository

import (
	"context"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	pkgkafka "StockPilot/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka. Prediction batches
// are keyed by symbol so consumers see per-symbol ordering.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) drepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishPredictions(ctx context.Context, symbol, model string, records []models.PredictionRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(records))
	for i, r := range records {
		msgs[i] = pkgkafka.Message{
			Key: []byte(symbol),
			Value: map[string]interface{}{
				"symbol":          symbol,
				"model":           model,
				"target_date":     r.Date,
				"predicted_price": r.PredictedPrice,
				"confidence":      r.Confidence,
				"direction":       r.Direction,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
