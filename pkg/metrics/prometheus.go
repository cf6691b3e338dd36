package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictionDuration *prometheus.HistogramVec
	trainingTotal      *prometheus.CounterVec
	signalsTotal       *prometheus.CounterVec
	lastPrice          *prometheus.GaugeVec
	errorsTotal        *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpilot_prediction_duration_seconds",
				Help:    "Duration of prediction requests by model",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		trainingTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpilot_training_runs_total",
				Help: "Training runs by model and outcome",
			},
			[]string{"model", "outcome"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpilot_signals_total",
				Help: "Trading signals issued per symbol",
			},
			[]string{"symbol", "signal"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpilot_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpilot_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// ObservePrediction records how long a prediction took.
func (r *Recorder) ObservePrediction(model string, seconds float64) {
	r.predictionDuration.WithLabelValues(model).Observe(seconds)
}

// RecordTraining records the outcome of a training run.
func (r *Recorder) RecordTraining(model, outcome string) {
	r.trainingTotal.WithLabelValues(model, outcome).Inc()
}

// RecordSignal records an issued trading signal.
func (r *Recorder) RecordSignal(symbol, signal string) {
	r.signalsTotal.WithLabelValues(symbol, signal).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
