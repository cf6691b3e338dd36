package models

import "time"

// Prediction directions.
const (
	DirectionUp   = "UP"
	DirectionDown = "DOWN"
)

// PredictionRecord is one dated point of a forecast curve, with
// direction and confidence chained relative to the previous point.
type PredictionRecord struct {
	Date           string  `json:"date"`
	PredictedPrice float64 `json:"predicted_price"`
	Confidence     float64 `json:"confidence"`
	Direction      string  `json:"direction"`
}

// StoredPrediction is one persisted prediction row served by the
// prediction-history endpoint.
type StoredPrediction struct {
	CreatedAt      time.Time `json:"created_at"`
	Symbol         string    `json:"symbol"`
	Model          string    `json:"model"`
	TargetDate     string    `json:"target_date"`
	PredictedPrice float64   `json:"predicted_price"`
	Confidence     float64   `json:"confidence"`
	Direction      string    `json:"direction"`
}

// Forecast is the full prediction response for a symbol.
type Forecast struct {
	Symbol       string             `json:"symbol"`
	CurrentPrice float64            `json:"current_price"`
	Predictions  []PredictionRecord `json:"predictions"`
	Model        string             `json:"model"`
	Note         string             `json:"note,omitempty"`
}
