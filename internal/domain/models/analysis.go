package models

import "time"

// Signal labels produced by the signal scorer.
const (
	SignalStrongBuy  = "STRONG_BUY"
	SignalBuy        = "BUY"
	SignalNeutral    = "NEUTRAL"
	SignalSell       = "SELL"
	SignalStrongSell = "STRONG_SELL"
)

// SignalResult is the combined directional reading of the latest
// indicator values. Derived fresh per request, never persisted.
type SignalResult struct {
	Overall    string            `json:"overall"`
	Strength   int               `json:"strength"`
	Indicators map[string]string `json:"indicators"`
}

// RiskMetrics holds statistical risk measures computed from a daily
// return series. All fields are finite; degenerate computations are
// substituted with 0 before the struct crosses the API boundary.
// Beta is present only when a benchmark series with overlapping dates
// was supplied.
type RiskMetrics struct {
	VaR95        float64  `json:"var_95"`
	VaR99        float64  `json:"var_99"`
	CVaR95       float64  `json:"cvar_95"`
	SharpeRatio  float64  `json:"sharpe_ratio"`
	SortinoRatio float64  `json:"sortino_ratio"`
	MaxDrawdown  float64  `json:"max_drawdown"`
	Volatility   float64  `json:"volatility"`
	AvgReturn    float64  `json:"avg_return"`
	StdReturn    float64  `json:"std_return"`
	Beta         *float64 `json:"beta,omitempty"`
}

// Risk levels for RiskAssessment.
const (
	RiskLow      = "LOW"
	RiskModerate = "MODERATE"
	RiskHigh     = "HIGH"
)

// RiskAssessment maps RiskMetrics to a qualitative reading.
type RiskAssessment struct {
	RiskLevel      string   `json:"risk_level"`
	Recommendation string   `json:"recommendation"`
	Warnings       []string `json:"warnings"`
}

// Market regime states.
const (
	RegimeBull     = "bull"
	RegimeBear     = "bear"
	RegimeSideways = "sideways"
	RegimeHighVol  = "high_vol"
)

// Regime classifies recent return/volatility behavior over a lookback
// window, together with the statistics that produced it.
type Regime struct {
	State      string  `json:"state"`
	MeanReturn float64 `json:"mean_return"`
	Volatility float64 `json:"volatility"`
	Lookback   int     `json:"lookback"`
}

// Headline is one scored news title.
type Headline struct {
	Title     string  `json:"title"`
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

// SentimentResult aggregates per-headline polarity for a symbol.
type SentimentResult struct {
	OverallSentiment string     `json:"overall_sentiment"`
	SentimentScore   float64    `json:"sentiment_score"`
	PositiveCount    int        `json:"positive_count"`
	NegativeCount    int        `json:"negative_count"`
	NeutralCount     int        `json:"neutral_count"`
	TotalArticles    int        `json:"total_articles"`
	Headlines        []Headline `json:"headlines"`
}

// Analysis is the consolidated per-symbol view served by the analysis
// endpoint. Partial failures are reported in Errors instead of failing
// the whole response.
type Analysis struct {
	Symbol    string            `json:"symbol"`
	Timestamp time.Time         `json:"timestamp"`
	Signals   *SignalResult     `json:"signals,omitempty"`
	Risk      *RiskMetrics      `json:"risk,omitempty"`
	RiskView  *RiskAssessment   `json:"risk_assessment,omitempty"`
	Regime    *Regime           `json:"regime,omitempty"`
	Sentiment *SentimentResult  `json:"sentiment,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}
