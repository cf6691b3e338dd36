package risk

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"StockPilot/internal/domain/models"
)

const (
	tradingDays = 252
	// annual risk-free rate used for Sharpe/Sortino excess returns
	riskFreeRate = 0.02
)

// Returns computes simple daily percentage returns, dropping the first
// observation.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, prices[i]/prices[i-1]-1)
	}
	return out
}

// VaR is the empirical (1-confidence) percentile of the return
// distribution; VaR(0.95) is the 5th percentile.
func VaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	return stat.Quantile(1-confidence, stat.Empirical, sorted, nil)
}

// CVaR is the mean of returns at or below VaR(confidence).
func CVaR(returns []float64, confidence float64) float64 {
	v := VaR(returns, confidence)
	sum, n := 0.0, 0
	for _, r := range returns {
		if r <= v {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Sharpe is the annualized excess-return ratio. Zero standard
// deviation reads as 0 rather than a division by zero.
func Sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRate/tradingDays
	}
	sd := stat.StdDev(excess, nil)
	if sd == 0 {
		return 0
	}
	return math.Sqrt(tradingDays) * stat.Mean(excess, nil) / sd
}

// Sortino penalizes only downside deviation: the denominator is the
// standard deviation of negative returns. No negative returns (or a
// zero downside deviation) reads as 0.
func Sortino(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) < 2 {
		return 0
	}
	sd := stat.StdDev(downside, nil)
	if sd == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r - riskFreeRate/tradingDays
	}
	mean /= float64(len(returns))
	return math.Sqrt(tradingDays) * mean / sd
}

// MaxDrawdown reports the most negative drawdown of the cumulative
// growth curve built from the price series.
func MaxDrawdown(prices []float64) float64 {
	rets := Returns(prices)
	if len(rets) == 0 {
		return 0
	}
	cum := 1.0
	peak := math.Inf(-1)
	minDD := 0.0
	for _, r := range rets {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		dd := (cum - peak) / peak
		if dd < minDD {
			minDD = dd
		}
	}
	return minDD
}

// Beta is cov(stock, market) / var(market) over aligned samples.
// Returns (0, false) when the market variance is zero or the samples
// are too short; callers omit the field in that case.
func Beta(stock, market []float64) (float64, bool) {
	if len(stock) != len(market) || len(stock) < 2 {
		return 0, false
	}
	cov := stat.Covariance(stock, market, nil)
	// population variance, matching the covariance/variance convention
	// the assessment thresholds were tuned against
	n := float64(len(market))
	varPop := stat.Variance(market, nil) * (n - 1) / n
	if varPop == 0 {
		return 0, false
	}
	return cov / varPop, true
}

// Volatility is the annualized standard deviation of returns.
func Volatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(tradingDays)
}

// ComputeMetrics derives the full risk-metric set from a bar series,
// optionally with a benchmark for beta. Beta is computed only on the
// date intersection of the two series and omitted entirely when there
// is no overlap. Every field is finite; degenerate arithmetic is
// substituted with 0.
func ComputeMetrics(bars []models.Bar, benchmark []models.Bar) (*models.RiskMetrics, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("risk: need at least 2 bars, got %d", len(bars))
	}
	prices := models.Closes(bars)
	returns := Returns(prices)

	m := &models.RiskMetrics{
		VaR95:        VaR(returns, 0.95),
		VaR99:        VaR(returns, 0.99),
		CVaR95:       CVaR(returns, 0.95),
		SharpeRatio:  Sharpe(returns),
		SortinoRatio: Sortino(returns),
		MaxDrawdown:  MaxDrawdown(prices),
		Volatility:   Volatility(returns),
		AvgReturn:    stat.Mean(returns, nil),
		StdReturn:    stat.StdDev(returns, nil),
	}

	if len(benchmark) > 1 {
		stockAligned, marketAligned := alignReturns(bars, benchmark)
		if b, ok := Beta(stockAligned, marketAligned); ok {
			m.Beta = &b
		}
	}

	sanitize(m)
	return m, nil
}

// alignReturns intersects the two bar series on date and returns the
// paired return samples.
func alignReturns(bars, benchmark []models.Bar) (stock, market []float64) {
	benchReturns := make(map[time.Time]float64, len(benchmark))
	for i := 1; i < len(benchmark); i++ {
		if benchmark[i-1].Close == 0 {
			continue
		}
		benchReturns[dateKey(benchmark[i].Date)] = benchmark[i].Close/benchmark[i-1].Close - 1
	}
	for i := 1; i < len(bars); i++ {
		br, ok := benchReturns[dateKey(bars[i].Date)]
		if !ok || bars[i-1].Close == 0 {
			continue
		}
		stock = append(stock, bars[i].Close/bars[i-1].Close-1)
		market = append(market, br)
	}
	return stock, market
}

func dateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sanitize replaces any NaN/Inf that slipped through degenerate inputs
// so the struct is always JSON-safe.
func sanitize(m *models.RiskMetrics) {
	fix := func(v *float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	fix(&m.VaR95)
	fix(&m.VaR99)
	fix(&m.CVaR95)
	fix(&m.SharpeRatio)
	fix(&m.SortinoRatio)
	fix(&m.MaxDrawdown)
	fix(&m.Volatility)
	fix(&m.AvgReturn)
	fix(&m.StdReturn)
	if m.Beta != nil {
		fix(m.Beta)
	}
}
