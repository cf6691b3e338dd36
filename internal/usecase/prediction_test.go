package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"StockPilot/internal/domain/models"
	"StockPilot/internal/services/forecast"
)

type nopMetrics struct{}

func (nopMetrics) ObservePrediction(string, float64) {}
func (nopMetrics) RecordTraining(string, string)     {}
func (nopMetrics) RecordSignal(string, string)       {}
func (nopMetrics) RecordLastPrice(string, float64)   {}
func (nopMetrics) RecordError(string)                {}

func testBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		close := 100 + 0.3*float64(i) + 4*math.Sin(float64(i)/7)
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Symbol: "TEST",
			Open:   close - 0.5,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1_000_000 + 5000*float64(i%13),
		}
	}
	return bars
}

func newChainUseCase(t *testing.T) *PredictionUseCase {
	t.Helper()
	store := forecast.NewStore(t.TempDir())
	return NewPredictionUseCase(nil, store, nil, nil, nil, time.Minute, nopMetrics{}, zerolog.Nop())
}

func TestRunChainTrainsFallbackOnDemand(t *testing.T) {
	uc := newChainUseCase(t)
	bars := testBars(150)
	closes := models.Closes(bars)
	last := bars[len(bars)-1]

	records, model := uc.runChain(context.Background(), "TEST", bars, closes, last, 7)
	if model != ForecastFallback {
		t.Fatalf("model = %q, want %q", model, ForecastFallback)
	}
	if len(records) != 7 {
		t.Fatalf("got %d records, want 7", len(records))
	}
	if !uc.models.HasFallback("TEST") {
		t.Fatalf("on-demand training did not persist the fallback artifact")
	}

	// Second request must reuse the saved artifact, not retrain.
	records2, model2 := uc.runChain(context.Background(), "TEST", bars, closes, last, 7)
	if model2 != ForecastFallback {
		t.Fatalf("second call model = %q, want %q", model2, ForecastFallback)
	}
	for i := range records {
		if records[i].PredictedPrice != records2[i].PredictedPrice {
			t.Fatalf("day %d: saved artifact predicts %v, fresh run %v", i, records2[i].PredictedPrice, records[i].PredictedPrice)
		}
	}
}

func TestRunChainLinearWhenTooFewBarsToTrain(t *testing.T) {
	uc := newChainUseCase(t)
	bars := testBars(60) // enough to predict, too few to train
	closes := models.Closes(bars)
	last := bars[len(bars)-1]

	_, model := uc.runChain(context.Background(), "TEST", bars, closes, last, 7)
	if model != ForecastLinear {
		t.Fatalf("model = %q, want %q", model, ForecastLinear)
	}
	if uc.models.HasFallback("TEST") {
		t.Fatalf("fallback artifact written despite insufficient history")
	}
}
