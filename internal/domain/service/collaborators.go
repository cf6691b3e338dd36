package service

import (
	"context"

	"StockPilot/internal/domain/models"
)

// MarketData fetches daily history and snapshot quotes from an external
// market-data provider. Failures surface as errors here; callers decide
// whether to degrade or propagate.
type MarketData interface {
	DailyHistory(ctx context.Context, symbol string, months int) ([]models.Bar, error)
	Quote(ctx context.Context, symbol string) (float64, error)
	CompanyName(ctx context.Context, symbol string) (string, error)
}

// NewsSource fetches recent headline strings for a search query.
// An empty result is not an error; the sentiment scorer maps it to a
// neutral reading.
type NewsSource interface {
	Headlines(ctx context.Context, query string, limit int) ([]string, error)
}
