package indicators

import (
	"math"

	"StockPilot/internal/domain/models"
)

// Indicator names exposed by Compute. Fixed vocabulary shared with the
// API layer and the signal scorer.
const (
	SMA20      = "SMA_20"
	SMA50      = "SMA_50"
	SMA200     = "SMA_200"
	EMA12      = "EMA_12"
	EMA26      = "EMA_26"
	MACD       = "MACD"
	MACDSignal = "MACD_signal"
	MACDDiff   = "MACD_diff"
	RSI        = "RSI"
	BBUpper    = "BB_upper"
	BBMiddle   = "BB_middle"
	BBLower    = "BB_lower"
	StochK     = "Stoch_K"
	StochD     = "Stoch_D"
	ATR        = "ATR"
	VolumeSMA  = "Volume_SMA"
)

// Set maps indicator names to series index-aligned with the source
// bars. Leading positions where the window exceeds available history
// are NaN; callers serializing a Set must convert NaN to null.
type Set map[string][]float64

// Compute derives the full indicator set from a daily bar series.
// Every returned series has the same length as bars, and no value at
// index i depends on observations after i.
func Compute(bars []models.Bar) Set {
	close := models.Closes(bars)
	high := make([]float64, len(bars))
	low := make([]float64, len(bars))
	for i := range bars {
		high[i] = bars[i].High
		low[i] = bars[i].Low
	}

	out := Set{}

	out[SMA20] = SMA(close, 20)
	out[SMA50] = SMA(close, 50)
	out[SMA200] = SMA(close, 200)
	out[EMA12] = EMA(close, 12)
	out[EMA26] = EMA(close, 26)

	macd, signal, diff := MACDSeries(close)
	out[MACD] = macd
	out[MACDSignal] = signal
	out[MACDDiff] = diff

	out[RSI] = RSISeries(close, 14)

	upper, middle, lower := Bollinger(close, 20, 2)
	out[BBUpper] = upper
	out[BBMiddle] = middle
	out[BBLower] = lower

	k, d := Stochastic(high, low, close, 14, 3)
	out[StochK] = k
	out[StochD] = d

	out[ATR] = ATRSeries(high, low, close, 14)
	out[VolumeSMA] = SMA(models.Volumes(bars), 20)

	return out
}

// Last returns the final value of the named series, or NaN when the
// series is missing or empty.
func (s Set) Last(name string) float64 {
	xs, ok := s[name]
	if !ok || len(xs) == 0 {
		return math.NaN()
	}
	return xs[len(xs)-1]
}

// SMA computes a simple moving average. Positions before the window is
// filled are NaN.
func SMA(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	if window <= 0 || len(xs) < window {
		return out
	}
	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// EMA computes an exponential moving average seeded with the SMA of the
// first window, NaN before that.
func EMA(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	if window <= 0 || len(xs) < window {
		return out
	}
	seed := 0.0
	for i := 0; i < window; i++ {
		seed += xs[i]
	}
	prev := seed / float64(window)
	out[window-1] = prev
	alpha := 2.0 / float64(window+1)
	for i := window; i < len(xs); i++ {
		prev = alpha*xs[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// MACDSeries returns the MACD line (EMA12-EMA26), its EMA9 signal line
// and their difference.
func MACDSeries(close []float64) (macd, signal, diff []float64) {
	fast := EMA(close, 12)
	slow := EMA(close, 26)
	macd = nanSlice(len(close))
	for i := range close {
		macd[i] = fast[i] - slow[i]
	}
	signal = emaOfSparse(macd, 9)
	diff = nanSlice(len(close))
	for i := range close {
		diff[i] = macd[i] - signal[i]
	}
	return macd, signal, diff
}

// RSISeries computes the Wilder RSI. When the average loss over the
// window is zero, RS is undefined and RSI is pinned at 100 (fully
// overbought) by convention.
func RSISeries(close []float64, window int) []float64 {
	out := nanSlice(len(close))
	if len(close) <= window {
		return out
	}
	var avgGain, avgLoss float64
	for i := 1; i <= window; i++ {
		d := close[i] - close[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(window)
	avgLoss /= float64(window)
	out[window] = rsiValue(avgGain, avgLoss)
	for i := window + 1; i < len(close); i++ {
		d := close[i] - close[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(window-1) + gain) / float64(window)
		avgLoss = (avgLoss*float64(window-1) + loss) / float64(window)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Bollinger computes the classic bands: middle = SMA(window),
// upper/lower = middle +/- dev * rolling sample std.
func Bollinger(close []float64, window int, dev float64) (upper, middle, lower []float64) {
	middle = SMA(close, window)
	std := rollingStd(close, window)
	upper = nanSlice(len(close))
	lower = nanSlice(len(close))
	for i := range close {
		upper[i] = middle[i] + dev*std[i]
		lower[i] = middle[i] - dev*std[i]
	}
	return upper, middle, lower
}

// Stochastic computes %K over a rolling high/low window and %D as the
// moving average of %K. A flat window (high == low) reads as 50.
func Stochastic(high, low, close []float64, window, smooth int) (k, d []float64) {
	k = nanSlice(len(close))
	for i := window - 1; i < len(close); i++ {
		hh := high[i-window+1]
		ll := low[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			hh = math.Max(hh, high[j])
			ll = math.Min(ll, low[j])
		}
		if hh == ll {
			k[i] = 50
			continue
		}
		k[i] = 100 * (close[i] - ll) / (hh - ll)
	}
	d = smaOfSparse(k, smooth)
	return k, d
}

// ATRSeries is the rolling mean of the true range: the largest of
// high-low, |high-prevClose| and |low-prevClose|.
func ATRSeries(high, low, close []float64, window int) []float64 {
	out := nanSlice(len(close))
	if len(close) == 0 {
		return out
	}
	tr := make([]float64, len(close))
	tr[0] = high[0] - low[0]
	for i := 1; i < len(close); i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return SMA(tr, window)
}

// rollingStd is the rolling sample standard deviation (n-1 divisor).
func rollingStd(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	if window <= 1 || len(xs) < window {
		return out
	}
	for i := window - 1; i < len(xs); i++ {
		mean := 0.0
		for j := i - window + 1; j <= i; j++ {
			mean += xs[j]
		}
		mean /= float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := xs[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// emaOfSparse applies an EMA to a series with a NaN prefix, seeding at
// the first stretch of `window` defined values.
func emaOfSparse(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	start := firstDefined(xs)
	if start < 0 || len(xs)-start < window {
		return out
	}
	seed := 0.0
	for i := start; i < start+window; i++ {
		seed += xs[i]
	}
	prev := seed / float64(window)
	out[start+window-1] = prev
	alpha := 2.0 / float64(window+1)
	for i := start + window; i < len(xs); i++ {
		prev = alpha*xs[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// smaOfSparse averages over defined values only, respecting the NaN
// prefix of the input.
func smaOfSparse(xs []float64, window int) []float64 {
	out := nanSlice(len(xs))
	start := firstDefined(xs)
	if start < 0 {
		return out
	}
	for i := start + window - 1; i < len(xs); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += xs[j]
		}
		out[i] = sum / float64(window)
	}
	return out
}

func firstDefined(xs []float64) int {
	for i, x := range xs {
		if !math.IsNaN(x) {
			return i
		}
	}
	return -1
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
