package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	"StockPilot/internal/services/forecast"
	"StockPilot/pkg/queue"
)

// TrainMessageType routes training requests on the job queue.
const TrainMessageType = "train_symbol"

// TrainingUseCase fits and persists the per-symbol models. Requests go
// through the redis queue with a single worker, so two trainings for
// the same symbol can never write the artifact directory concurrently.
type TrainingUseCase struct {
	history *HistoryUseCase
	models  *forecast.Store
	jobs    *queue.RedisQueue
	metrics drepo.Metrics
	log     zerolog.Logger
}

func NewTrainingUseCase(
	history *HistoryUseCase,
	modelStore *forecast.Store,
	jobs *queue.RedisQueue,
	metrics drepo.Metrics,
	log zerolog.Logger,
) *TrainingUseCase {
	return &TrainingUseCase{
		history: history,
		models:  modelStore,
		jobs:    jobs,
		metrics: metrics,
		log:     log.With().Str("component", "training").Logger(),
	}
}

// Enqueue schedules a training run. Without a queue (redis disabled)
// it trains inline.
func (uc *TrainingUseCase) Enqueue(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("symbol required")
	}
	if uc.jobs == nil {
		_, err := uc.Train(ctx, symbol)
		return err
	}
	return uc.jobs.Enqueue(ctx, TrainMessageType, trainPayload{Symbol: symbol})
}

// Train fits the ensemble and the fallback model for one symbol and
// writes both artifact sets.
func (uc *TrainingUseCase) Train(ctx context.Context, symbol string) (map[string]float64, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	bars, err := uc.history.Bars(ctx, symbol, 2000, forecast.MinTrainBars)
	if err != nil {
		uc.metrics.RecordTraining("ensemble", "fetch_failed")
		return nil, err
	}
	if len(bars) < forecast.MinTrainBars {
		uc.metrics.RecordTraining("ensemble", "insufficient_data")
		return nil, fmt.Errorf("%w: %d bars, need %d", ErrInsufficientData, len(bars), forecast.MinTrainBars)
	}
	closes := models.Closes(bars)

	ensemble := forecast.NewEnsemble(uc.log)
	scores := ensemble.Train(closes)
	if err := uc.models.SaveEnsemble(symbol, ensemble); err != nil {
		uc.metrics.RecordTraining("ensemble", "save_failed")
		return nil, fmt.Errorf("%w: save ensemble: %v", ErrModelFailure, err)
	}
	uc.metrics.RecordTraining("ensemble", "ok")

	fallback := forecast.NewSymbolModel()
	if score, err := fallback.Train(bars); err != nil {
		uc.metrics.RecordTraining("fallback", "failed")
		uc.log.Warn().Err(err).Str("symbol", symbol).Msg("fallback training failed")
	} else if err := uc.models.SaveFallback(symbol, fallback); err != nil {
		uc.metrics.RecordTraining("fallback", "save_failed")
		uc.log.Warn().Err(err).Str("symbol", symbol).Msg("fallback save failed")
	} else {
		scores["fallback"] = score
		uc.metrics.RecordTraining("fallback", "ok")
	}

	uc.log.Info().Str("symbol", symbol).Interface("scores", scores).Msg("training complete")
	return scores, nil
}

type trainPayload struct {
	Symbol string `json:"symbol"`
}

// TrainJob consumes training requests from the redis queue.
type TrainJob struct {
	training *TrainingUseCase
}

func NewTrainJob(training *TrainingUseCase) *TrainJob {
	return &TrainJob{training: training}
}

func (j *TrainJob) Name() string { return "model-training" }

func (j *TrainJob) Type() string { return TrainMessageType }

func (j *TrainJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[trainPayload](payload)
	if err != nil {
		return fmt.Errorf("parse train payload: %w", err)
	}
	_, err = j.training.Train(ctx, p.Symbol)
	return err
}
