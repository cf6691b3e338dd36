package indicators

import (
	"math"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
)

func syntheticBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		// deterministic wave around a drift, no NaN inputs
		price = 100 + 0.1*float64(i) + 5*math.Sin(float64(i)/7)
		bars[i] = models.Bar{
			Date:   base.AddDate(0, 0, i),
			Symbol: "TEST",
			Open:   price - 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1_000_000 + 1000*float64(i%10),
		}
	}
	return bars
}

func TestComputeAlignmentAndFiniteness(t *testing.T) {
	bars := syntheticBars(250)
	set := Compute(bars)

	names := []string{
		SMA20, SMA50, SMA200, EMA12, EMA26,
		MACD, MACDSignal, MACDDiff, RSI,
		BBUpper, BBMiddle, BBLower,
		StochK, StochD, ATR, VolumeSMA,
	}
	for _, name := range names {
		series, ok := set[name]
		if !ok {
			t.Fatalf("missing indicator %s", name)
		}
		if len(series) != len(bars) {
			t.Fatalf("%s: length %d, want %d", name, len(series), len(bars))
		}
		last := series[len(series)-1]
		if math.IsNaN(last) || math.IsInf(last, 0) {
			t.Fatalf("%s: last value not finite: %v", name, last)
		}
	}
}

func TestSMAWindow(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	out := SMA(xs, 3)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Fatalf("expected NaN before window fills, got %v", out[:2])
	}
	if out[2] != 2 || out[3] != 3 || out[4] != 4 {
		t.Fatalf("unexpected SMA values: %v", out)
	}
}

func TestRSIBounds(t *testing.T) {
	bars := syntheticBars(250)
	rsi := RSISeries(models.Closes(bars), 14)
	for i, v := range rsi {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("RSI out of [0,100] at %d: %v", i, v)
		}
	}
}

func TestRSIAllGainsReadsOverbought(t *testing.T) {
	xs := make([]float64, 30)
	for i := range xs {
		xs[i] = 100 + float64(i) // monotonically rising, zero losses
	}
	rsi := RSISeries(xs, 14)
	if got := rsi[len(rsi)-1]; got != 100 {
		t.Fatalf("RSI with zero average loss: got %v, want 100", got)
	}
}

func TestNoLookahead(t *testing.T) {
	bars := syntheticBars(250)
	full := Compute(bars)
	trunc := Compute(bars[:200])

	for _, name := range []string{SMA20, EMA12, RSI, MACDDiff, ATR} {
		a, b := full[name], trunc[name]
		for i := 0; i < 200; i++ {
			av, bv := a[i], b[i]
			if math.IsNaN(av) && math.IsNaN(bv) {
				continue
			}
			if math.Abs(av-bv) > 1e-9 {
				t.Fatalf("%s at %d depends on future data: %v vs %v", name, i, av, bv)
			}
		}
	}
}

func TestBollingerContainsMiddle(t *testing.T) {
	bars := syntheticBars(60)
	upper, middle, lower := Bollinger(models.Closes(bars), 20, 2)
	for i := 20; i < 60; i++ {
		if !(lower[i] <= middle[i] && middle[i] <= upper[i]) {
			t.Fatalf("band ordering violated at %d: %v %v %v", i, lower[i], middle[i], upper[i])
		}
	}
}

func TestBuildFrameNaNFree(t *testing.T) {
	bars := syntheticBars(120)
	f := BuildFrame(bars)
	if len(f.X) == 0 {
		t.Fatalf("expected non-empty frame")
	}
	if len(f.X) != len(f.Target) || len(f.X) != len(f.Dates) {
		t.Fatalf("frame misaligned: %d rows, %d targets, %d dates", len(f.X), len(f.Target), len(f.Dates))
	}
	for i, row := range f.X {
		if len(row) != len(FeatureColumns) {
			t.Fatalf("row %d has %d features, want %d", i, len(row), len(FeatureColumns))
		}
		if hasNaN(row) {
			t.Fatalf("NaN leaked into feature row %d: %v", i, row)
		}
	}
}

func TestLatestRow(t *testing.T) {
	bars := syntheticBars(120)
	row, ok := LatestRow(bars)
	if !ok {
		t.Fatalf("expected a defined latest row")
	}
	if len(row) != len(FeatureColumns) {
		t.Fatalf("latest row has %d features, want %d", len(row), len(FeatureColumns))
	}
	if _, ok := LatestRow(bars[:10]); ok {
		t.Fatalf("short history should not define a full feature row")
	}
}
