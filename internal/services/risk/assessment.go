package risk

import (
	"fmt"
	"math"

	"StockPilot/internal/domain/models"
)

// Assessment thresholds. Multiple warnings can fire at once.
const (
	highVolThreshold  = 0.4
	lowVolThreshold   = 0.15
	largeDrawdownSize = 0.3
)

// Assess maps metrics to a qualitative risk assessment using fixed,
// deterministic thresholds.
func Assess(m *models.RiskMetrics) *models.RiskAssessment {
	a := &models.RiskAssessment{
		RiskLevel: models.RiskModerate,
		Warnings:  []string{},
	}

	switch {
	case m.Volatility > highVolThreshold:
		a.RiskLevel = models.RiskHigh
		a.Warnings = append(a.Warnings, "High volatility detected")
	case m.Volatility < lowVolThreshold:
		a.RiskLevel = models.RiskLow
	}

	switch {
	case m.SharpeRatio > 2:
		a.Recommendation = "Excellent risk-adjusted returns"
	case m.SharpeRatio > 1:
		a.Recommendation = "Good risk-adjusted returns"
	case m.SharpeRatio < 0:
		a.Recommendation = "Poor risk-adjusted returns"
		a.Warnings = append(a.Warnings, "Negative Sharpe ratio")
	}

	if dd := math.Abs(m.MaxDrawdown); dd > largeDrawdownSize {
		a.Warnings = append(a.Warnings, fmt.Sprintf("Large maximum drawdown: %.1f%%", dd*100))
	}

	return a
}
