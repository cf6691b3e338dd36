package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	"StockPilot/internal/services/forecast"
	"StockPilot/pkg/cache"
)

// Model labels reported on a Forecast.
const (
	ForecastEnsemble = "ensemble"
	ForecastFallback = "random_forest"
	ForecastLinear   = "linear_trend"
)

// MinPredictBars is the shortest history any forecast accepts.
const MinPredictBars = 50

// PredictionUseCase runs the forecast chain: trained ensemble, then
// the per-symbol fallback model, then a linear trend. Issued
// predictions are cached and published to the bus.
type PredictionUseCase struct {
	history   *HistoryUseCase
	models    *forecast.Store
	publisher drepo.Publisher
	store     drepo.PredictionStore
	cache     cache.Service
	cacheTTL  time.Duration
	metrics   drepo.Metrics
	log       zerolog.Logger
}

func NewPredictionUseCase(
	history *HistoryUseCase,
	modelStore *forecast.Store,
	publisher drepo.Publisher,
	store drepo.PredictionStore,
	cacheSvc cache.Service,
	cacheTTL time.Duration,
	metrics drepo.Metrics,
	log zerolog.Logger,
) *PredictionUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &PredictionUseCase{
		history:   history,
		models:    modelStore,
		publisher: publisher,
		store:     store,
		cache:     cacheSvc,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		log:       log.With().Str("component", "prediction").Logger(),
	}
}

// Predict returns a days-long forecast for symbol.
func (uc *PredictionUseCase) Predict(ctx context.Context, symbol string, days int) (*models.Forecast, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if days <= 0 {
		days = 7
	}
	start := time.Now()

	cacheKey := cache.GenerateKeyWithParams("stockpilot:prediction", symbol, days)
	if uc.cache != nil {
		var cached models.Forecast
		if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil && cached.Symbol != "" {
			return &cached, nil
		}
	}

	bars, err := uc.history.Bars(ctx, symbol, 600, MinPredictBars)
	if err != nil {
		uc.metrics.RecordError("prediction_history")
		return nil, err
	}
	if len(bars) < MinPredictBars {
		return nil, fmt.Errorf("%w: %d bars, need %d", ErrInsufficientData, len(bars), MinPredictBars)
	}

	closes := models.Closes(bars)
	last := bars[len(bars)-1]
	forecastOut := &models.Forecast{
		Symbol:       symbol,
		CurrentPrice: forecast.Round2(last.Close),
	}

	records, model := uc.runChain(ctx, symbol, bars, closes, last, days)
	forecastOut.Predictions = records
	forecastOut.Model = model
	if model == ForecastLinear {
		forecastOut.Note = "no trained model available; linear trend extrapolation"
	}

	uc.metrics.ObservePrediction(model, time.Since(start).Seconds())
	uc.metrics.RecordLastPrice(symbol, last.Close)

	if uc.publisher != nil {
		if err := uc.publisher.PublishPredictions(ctx, symbol, model, records); err != nil {
			uc.metrics.RecordError("prediction_publish")
			uc.log.Warn().Err(err).Str("symbol", symbol).Msg("publish failed")
		}
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, cacheKey, forecastOut, uc.cacheTTL); err != nil {
			uc.log.Debug().Err(err).Msg("prediction cache set failed")
		}
	}
	return forecastOut, nil
}

// StoredHistory returns previously issued predictions for a symbol.
func (uc *PredictionUseCase) StoredHistory(ctx context.Context, symbol string, limit int) ([]models.StoredPrediction, error) {
	if uc.store == nil {
		return nil, fmt.Errorf("prediction history store not configured")
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if limit <= 0 {
		limit = 100
	}
	return uc.store.History(ctx, symbol, limit)
}

// runChain tries each forecaster in order and reports which one
// produced the records.
func (uc *PredictionUseCase) runChain(ctx context.Context, symbol string, bars []models.Bar, closes []float64, last models.Bar, days int) ([]models.PredictionRecord, string) {
	if uc.models.HasEnsemble(symbol) {
		e := forecast.NewEnsemble(uc.log)
		if err := uc.models.LoadEnsemble(symbol, e); err != nil {
			uc.metrics.RecordError("ensemble_load")
			uc.log.Warn().Err(err).Str("symbol", symbol).Msg("ensemble load failed")
		} else if curve, err := e.Predict(closes, days); err != nil {
			uc.metrics.RecordError("ensemble_predict")
			uc.log.Warn().Err(err).Str("symbol", symbol).Msg("ensemble predict failed")
		} else {
			return forecast.FormatCurve(curve, last.Close, last.Date), ForecastEnsemble
		}
	}

	if m := uc.fallbackModel(symbol, bars); m != nil {
		if curve, err := m.Predict(bars, days); err != nil {
			uc.metrics.RecordError("fallback_predict")
			uc.log.Warn().Err(err).Str("symbol", symbol).Msg("fallback predict failed")
		} else {
			return forecast.FormatCurve(curve, last.Close, last.Date), ForecastFallback
		}
	}

	curve := forecast.LinearTrend(closes, days)
	return forecast.FormatNaive(curve, last.Close, last.Date), ForecastLinear
}

// fallbackModel returns a ready per-symbol model: the saved artifact
// when one loads, otherwise one trained on the spot and persisted for
// the next request. Nil means the linear trend is all that is left.
func (uc *PredictionUseCase) fallbackModel(symbol string, bars []models.Bar) *forecast.SymbolModel {
	m := forecast.NewSymbolModel()

	if uc.models.HasFallback(symbol) {
		if err := uc.models.LoadFallback(symbol, m); err != nil {
			uc.metrics.RecordError("fallback_load")
			uc.log.Warn().Err(err).Str("symbol", symbol).Msg("fallback load failed")
		} else {
			return m
		}
	}

	if len(bars) < forecast.MinTrainBars {
		return nil
	}
	if _, err := m.Train(bars); err != nil {
		uc.metrics.RecordTraining("fallback", "failed")
		uc.log.Warn().Err(err).Str("symbol", symbol).Msg("on-demand fallback training failed")
		return nil
	}
	uc.metrics.RecordTraining("fallback", "ok")
	if err := uc.models.SaveFallback(symbol, m); err != nil {
		uc.log.Warn().Err(err).Str("symbol", symbol).Msg("fallback save failed")
	}
	return m
}
