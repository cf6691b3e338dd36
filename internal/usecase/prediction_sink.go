package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
)

// predictionEvent mirrors the message shape the publisher emits.
type predictionEvent struct {
	Symbol         string  `json:"symbol"`
	Model          string  `json:"model"`
	TargetDate     string  `json:"target_date"`
	PredictedPrice float64 `json:"predicted_price"`
	Confidence     float64 `json:"confidence"`
	Direction      string  `json:"direction"`
}

// PredictionSink drains the predictions topic into the history store.
type PredictionSink struct {
	topic string
	store drepo.PredictionStore
	log   zerolog.Logger
}

func NewPredictionSink(topic string, store drepo.PredictionStore, log zerolog.Logger) *PredictionSink {
	return &PredictionSink{
		topic: topic,
		store: store,
		log:   log.With().Str("component", "prediction_sink").Logger(),
	}
}

func (s *PredictionSink) Topic() string { return s.topic }

func (s *PredictionSink) Handle(ctx context.Context, data []byte) error {
	var ev predictionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("decode prediction event: %w", err)
	}
	if ev.Symbol == "" || ev.TargetDate == "" {
		s.log.Debug().Msg("skipping malformed prediction event")
		return nil
	}
	record := models.PredictionRecord{
		Date:           ev.TargetDate,
		PredictedPrice: ev.PredictedPrice,
		Confidence:     ev.Confidence,
		Direction:      ev.Direction,
	}
	return s.store.SavePredictions(ctx, ev.Symbol, ev.Model, []models.PredictionRecord{record})
}
