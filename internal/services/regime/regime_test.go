package regime

import (
	"math"
	"testing"

	"StockPilot/internal/domain/models"
)

// closesWithReturns builds a price path whose daily returns alternate
// around mean with the given half-spread.
func closesWithReturns(n int, mean, spread float64) []float64 {
	closes := make([]float64, n+1)
	closes[0] = 100
	for i := 1; i <= n; i++ {
		r := mean + spread
		if i%2 == 0 {
			r = mean - spread
		}
		closes[i] = closes[i-1] * (1 + r)
	}
	return closes
}

func TestDetectBull(t *testing.T) {
	closes := closesWithReturns(60, 0.002, 0.001)
	r, err := Detect(closes, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State != models.RegimeBull {
		t.Fatalf("steady +0.2%% drift: got %s, want bull", r.State)
	}
	if math.Abs(r.MeanReturn-0.002) > 1e-3 {
		t.Fatalf("mean return: got %v", r.MeanReturn)
	}
}

func TestDetectBear(t *testing.T) {
	closes := closesWithReturns(60, -0.003, 0.001)
	r, err := Detect(closes, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State != models.RegimeBear {
		t.Fatalf("got %s, want bear", r.State)
	}
}

func TestDetectSideways(t *testing.T) {
	closes := closesWithReturns(60, 0, 0.0005)
	r, err := Detect(closes, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State != models.RegimeSideways {
		t.Fatalf("got %s, want sideways", r.State)
	}
}

func TestHighVolPrecedesTrend(t *testing.T) {
	// strong drift but huge dispersion: high_vol must win
	closes := closesWithReturns(60, 0.005, 0.05)
	r, err := Detect(closes, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State != models.RegimeHighVol {
		t.Fatalf("got %s, want high_vol", r.State)
	}
}

func TestLookbackClipped(t *testing.T) {
	closes := closesWithReturns(20, 0.002, 0.001)
	r, err := Detect(closes, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Lookback != 20 {
		t.Fatalf("lookback should clip to history: got %d", r.Lookback)
	}
}

func TestDetectTooShort(t *testing.T) {
	if _, err := Detect([]float64{100}, 60); err == nil {
		t.Fatalf("single price must error")
	}
}
