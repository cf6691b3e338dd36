package forecast

import (
	"math"
	"time"

	"StockPilot/internal/domain/models"
)

const (
	dateLayout    = "2006-01-02"
	maxConfidence = 95.0
)

// FormatCurve turns a model curve into dated records. Direction and
// confidence are chained: each day is judged against the previous
// predicted price, not the last close.
func FormatCurve(curve []float64, lastClose float64, start time.Time) []models.PredictionRecord {
	records := make([]models.PredictionRecord, 0, len(curve))
	current := lastClose
	for i, price := range curve {
		changePct := 0.0
		if current != 0 {
			changePct = math.Abs(price-current) / current * 100
		}
		records = append(records, models.PredictionRecord{
			Date:           start.AddDate(0, 0, i+1).Format(dateLayout),
			PredictedPrice: Round2(price),
			Confidence:     Round2(math.Min(50+changePct, maxConfidence)),
			Direction:      direction(price, current),
		})
		current = price
	}
	return records
}

// FormatNaive formats the linear-trend curve. Every day is compared to
// the last close with no baseline confidence, so small moves read as
// low-confidence, which is what a straight-line extrapolation deserves.
func FormatNaive(curve []float64, lastClose float64, start time.Time) []models.PredictionRecord {
	records := make([]models.PredictionRecord, 0, len(curve))
	for i, price := range curve {
		changePct := 0.0
		if lastClose != 0 {
			changePct = math.Abs(price-lastClose) / lastClose * 100
		}
		records = append(records, models.PredictionRecord{
			Date:           start.AddDate(0, 0, i+1).Format(dateLayout),
			PredictedPrice: Round2(price),
			Confidence:     Round2(math.Min(changePct, maxConfidence)),
			Direction:      direction(price, lastClose),
		})
	}
	return records
}

// LinearTrend extrapolates a least-squares line over the full history.
func LinearTrend(closes []float64, days int) []float64 {
	slope, intercept := fitLine(closes, 0)
	out := make([]float64, days)
	for i := 0; i < days; i++ {
		out[i] = intercept + slope*float64(len(closes)+i)
	}
	return out
}

func direction(price, reference float64) string {
	if price > reference {
		return models.DirectionUp
	}
	return models.DirectionDown
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
