package risk

import (
	"math"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
)

func barsFromCloses(closes []float64) []models.Bar {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Date: base.AddDate(0, 0, i), Close: c}
	}
	return bars
}

func TestReturnsDropsFirstObservation(t *testing.T) {
	rets := Returns([]float64{100, 110, 99})
	if len(rets) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(rets))
	}
	if math.Abs(rets[0]-0.1) > 1e-12 || math.Abs(rets[1]-(-0.1)) > 1e-12 {
		t.Fatalf("unexpected returns: %v", rets)
	}
}

func TestVaRIsLowTailPercentile(t *testing.T) {
	// 100 returns from -0.100 to -0.001 ascending; the 5th percentile
	// sits in the worst tail.
	rets := make([]float64, 100)
	for i := range rets {
		rets[i] = -0.001 * float64(100-i)
	}
	v := VaR(rets, 0.95)
	if v > -0.09 {
		t.Fatalf("VaR95 should sit in the worst 5%% of returns, got %v", v)
	}
	cv := CVaR(rets, 0.95)
	if cv > v {
		t.Fatalf("CVaR %v must be at or below VaR %v", cv, v)
	}
}

func TestSharpeZeroStd(t *testing.T) {
	rets := []float64{0.01, 0.01, 0.01, 0.01}
	if got := Sharpe(rets); got != 0 {
		t.Fatalf("Sharpe with zero std: got %v, want 0", got)
	}
}

func TestSortinoNoDownside(t *testing.T) {
	rets := []float64{0.01, 0.02, 0.005, 0.03}
	if got := Sortino(rets); got != 0 {
		t.Fatalf("Sortino with no negative returns: got %v, want 0", got)
	}
}

func TestMaxDrawdown(t *testing.T) {
	// 100 -> 120 -> 60 -> 80: worst drawdown is 60/120 - 1 = -0.5
	got := MaxDrawdown([]float64{100, 120, 60, 80})
	if math.Abs(got-(-0.5)) > 1e-12 {
		t.Fatalf("max drawdown: got %v, want -0.5", got)
	}
}

func TestBetaDegenerateMarket(t *testing.T) {
	stock := []float64{0.01, -0.02, 0.005}
	flat := []float64{0, 0, 0}
	if _, ok := Beta(stock, flat); ok {
		t.Fatalf("zero market variance must not produce a beta")
	}
}

func TestComputeMetricsFinite(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	m, err := ComputeMetrics(barsFromCloses(closes), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, v := range map[string]float64{
		"var_95": m.VaR95, "var_99": m.VaR99, "cvar_95": m.CVaR95,
		"sharpe": m.SharpeRatio, "sortino": m.SortinoRatio,
		"max_drawdown": m.MaxDrawdown, "volatility": m.Volatility,
		"avg_return": m.AvgReturn, "std_return": m.StdReturn,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s is not finite: %v", name, v)
		}
	}
	if m.Beta != nil {
		t.Fatalf("beta must be omitted without a benchmark")
	}
}

func TestComputeMetricsBetaAlignment(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 105, 106}
	bars := barsFromCloses(closes)
	// benchmark with identical dates and identical moves -> beta ~ 1
	m, err := ComputeMetrics(bars, barsFromCloses(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Beta == nil {
		t.Fatalf("expected beta with an overlapping benchmark")
	}
	if math.Abs(*m.Beta-1) > 0.25 {
		t.Fatalf("identical series should have beta near 1, got %v", *m.Beta)
	}

	// disjoint dates -> no overlap -> omitted
	shifted := barsFromCloses(closes)
	for i := range shifted {
		shifted[i].Date = shifted[i].Date.AddDate(1, 0, 0)
	}
	m2, err := ComputeMetrics(bars, shifted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m2.Beta != nil {
		t.Fatalf("beta must be omitted when date indices do not overlap")
	}
}

func TestAssessThresholds(t *testing.T) {
	m := &models.RiskMetrics{Volatility: 0.45}
	a := Assess(m)
	if a.RiskLevel != models.RiskHigh {
		t.Fatalf("volatility 0.45: got %s, want HIGH", a.RiskLevel)
	}
	if len(a.Warnings) == 0 {
		t.Fatalf("volatility 0.45 must produce a warning")
	}

	m = &models.RiskMetrics{Volatility: 0.10, SharpeRatio: 1.5}
	a = Assess(m)
	if a.RiskLevel != models.RiskLow {
		t.Fatalf("volatility 0.10: got %s, want LOW", a.RiskLevel)
	}
	for _, w := range a.Warnings {
		if w == "High volatility detected" {
			t.Fatalf("low volatility must not warn about volatility")
		}
	}
	if a.Recommendation != "Good risk-adjusted returns" {
		t.Fatalf("sharpe 1.5: unexpected recommendation %q", a.Recommendation)
	}
}

func TestAssessAccumulatesWarnings(t *testing.T) {
	m := &models.RiskMetrics{Volatility: 0.5, SharpeRatio: -0.2, MaxDrawdown: -0.4}
	a := Assess(m)
	if len(a.Warnings) != 3 {
		t.Fatalf("expected 3 simultaneous warnings, got %v", a.Warnings)
	}
}
