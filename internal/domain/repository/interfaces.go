package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"StockPilot/internal/domain/models"
)

// PriceStore provides read/write access to daily bars.
type PriceStore interface {
	SaveBars(ctx context.Context, bars []models.Bar) error
	GetBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	GetLatestNBars(ctx context.Context, symbol string, n int) ([]models.Bar, error)
}

// PredictionStore persists issued prediction records.
type PredictionStore interface {
	SavePredictions(ctx context.Context, symbol, model string, records []models.PredictionRecord) error
	History(ctx context.Context, symbol string, limit int) ([]models.StoredPrediction, error)
}

// Publisher publishes prediction and signal events to the message bus.
type Publisher interface {
	PublishPredictions(ctx context.Context, symbol, model string, records []models.PredictionRecord) error
	Close() error
}

// TradingStore persists paper-trading state. Transact runs fn against
// a store bound to a single database transaction; an error from fn
// rolls every mutation back.
type TradingStore interface {
	Transact(ctx context.Context, fn func(TradingStore) error) error
	GetOrCreateBalance(ctx context.Context, userID int64) (*models.Balance, error)
	UpdateCash(ctx context.Context, userID int64, delta decimal.Decimal) error
	GetHolding(ctx context.Context, userID int64, symbol string) (*models.Holding, error)
	SaveHolding(ctx context.Context, h *models.Holding) error
	DeleteHolding(ctx context.Context, userID int64, symbol string) error
	ListHoldings(ctx context.Context, userID int64) ([]models.Holding, error)
	RecordTransaction(ctx context.Context, t *models.Transaction) error
}

// Metrics records operational metrics for the engine.
type Metrics interface {
	ObservePrediction(model string, seconds float64)
	RecordTraining(model, outcome string)
	RecordSignal(symbol, signal string)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
}

// QuoteStream streams live quotes from a market-data websocket.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}
