package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	dsvc "StockPilot/internal/domain/service"
)

// historyMonths is how far back the market-data provider is asked to
// backfill when ClickHouse has too little history.
const historyMonths = 24

// HistoryUseCase serves stored daily bars and backfills them from the
// market-data provider when the store runs dry.
type HistoryUseCase struct {
	prices drepo.PriceStore
	market dsvc.MarketData
	log    zerolog.Logger
}

func NewHistoryUseCase(prices drepo.PriceStore, market dsvc.MarketData, log zerolog.Logger) *HistoryUseCase {
	return &HistoryUseCase{
		prices: prices,
		market: market,
		log:    log.With().Str("component", "history").Logger(),
	}
}

// Bars returns the latest n daily bars, oldest first. When the store
// holds fewer than min bars it backfills from the provider first.
func (uc *HistoryUseCase) Bars(ctx context.Context, symbol string, n, min int) ([]models.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}

	var bars []models.Bar
	if uc.prices != nil {
		var err error
		bars, err = uc.prices.GetLatestNBars(ctx, symbol, n)
		if err != nil {
			uc.log.Warn().Err(err).Str("symbol", symbol).Msg("price store read failed")
		}
	}
	if len(bars) >= min && len(bars) > 0 {
		return bars, nil
	}

	fetched, err := uc.market.DailyHistory(ctx, symbol, historyMonths)
	if err != nil {
		if len(bars) > 0 {
			return bars, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrExternalFetch, err)
	}
	if uc.prices != nil {
		if err := uc.prices.SaveBars(ctx, fetched); err != nil {
			uc.log.Warn().Err(err).Str("symbol", symbol).Msg("bar persist failed")
		}
	}
	if len(fetched) > n {
		fetched = fetched[len(fetched)-n:]
	}
	return fetched, nil
}
