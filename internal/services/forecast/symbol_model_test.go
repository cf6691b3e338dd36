package forecast

import (
	"math"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
)

func syntheticBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	price := 100.0
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price += 0.05 + 1.2*math.Sin(float64(i)/8)
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Symbol: "TEST",
			Open:   price - 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1_000_000 + float64(i%7)*50_000,
		}
	}
	return bars
}

func TestSymbolModelRejectsShortHistory(t *testing.T) {
	if _, err := NewSymbolModel().Train(syntheticBars(80)); err == nil {
		t.Fatal("expected training to fail below the minimum bar count")
	}
}

func TestSymbolModelPredictsFlatHorizon(t *testing.T) {
	bars := syntheticBars(250)
	m := NewSymbolModel()
	if _, err := m.Train(bars); err != nil {
		t.Fatalf("train: %v", err)
	}

	curve, err := m.Predict(bars, 5)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(curve) != 5 {
		t.Fatalf("expected 5 predictions, got %d", len(curve))
	}
	// The feature row is not advanced between days, so every day
	// carries the same one-step estimate.
	for i := 1; i < len(curve); i++ {
		if curve[i] != curve[0] {
			t.Fatalf("day %d: expected %v, got %v", i, curve[0], curve[i])
		}
	}
}

func TestSymbolModelStoreRoundTrip(t *testing.T) {
	bars := syntheticBars(250)
	m := NewSymbolModel()
	if _, err := m.Train(bars); err != nil {
		t.Fatalf("train: %v", err)
	}
	want, err := m.Predict(bars, 3)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	store := NewStore(t.TempDir())
	if err := store.SaveFallback("test", m); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !store.HasFallback("TEST") {
		t.Fatal("expected fallback artifact for upper-cased symbol")
	}

	loaded := NewSymbolModel()
	if err := store.LoadFallback("TEST", loaded); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := loaded.Predict(bars, 3)
	if err != nil {
		t.Fatalf("predict after load: %v", err)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("day %d: %v != %v after round trip", i, want[i], got[i])
		}
	}
}

func TestStoreHasEnsemble(t *testing.T) {
	store := NewStore(t.TempDir())
	if store.HasEnsemble("AAPL") {
		t.Fatal("expected no ensemble before save")
	}
}
