package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	dsvc "StockPilot/internal/domain/service"
)

// TradingUseCase executes paper trades against the virtual balance.
// Execution price prefers the live stream quote and falls back to the
// provider snapshot.
type TradingUseCase struct {
	store  drepo.TradingStore
	market dsvc.MarketData
	book   *QuoteBook
	log    zerolog.Logger
}

func NewTradingUseCase(store drepo.TradingStore, market dsvc.MarketData, book *QuoteBook, log zerolog.Logger) *TradingUseCase {
	return &TradingUseCase{
		store:  store,
		market: market,
		book:   book,
		log:    log.With().Str("component", "trading").Logger(),
	}
}

func (uc *TradingUseCase) executionPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if uc.book != nil {
		if p, ok := uc.book.Price(symbol); ok {
			return decimal.NewFromFloat(p), nil
		}
	}
	p, err := uc.market.Quote(ctx, symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrExternalFetch, err)
	}
	return decimal.NewFromFloat(p), nil
}

// Buy purchases quantity of symbol at the current price.
func (uc *TradingUseCase) Buy(ctx context.Context, userID int64, symbol string, quantity float64) (*models.Transaction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	qty := decimal.NewFromFloat(quantity)
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("quantity must be positive")
	}

	price, err := uc.executionPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	cost := price.Mul(qty)

	balance, err := uc.store.GetOrCreateBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance.CashBalance.LessThan(cost) {
		return nil, fmt.Errorf("insufficient funds: need %s, have %s", cost.StringFixed(2), balance.CashBalance.StringFixed(2))
	}

	holding, err := uc.store.GetHolding(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}
	if holding == nil {
		holding = &models.Holding{UserID: userID, Symbol: symbol}
	}
	holding.Quantity = holding.Quantity.Add(qty)
	holding.TotalInvested = holding.TotalInvested.Add(cost)
	holding.AvgBuyPrice = holding.TotalInvested.Div(holding.Quantity)

	txn := &models.Transaction{
		UserID:      userID,
		Symbol:      symbol,
		Side:        models.TradeBuy,
		Quantity:    qty,
		Price:       price,
		TotalAmount: cost,
		ExecutedAt:  time.Now().UTC(),
	}
	err = uc.store.Transact(ctx, func(s drepo.TradingStore) error {
		if err := s.UpdateCash(ctx, userID, cost.Neg()); err != nil {
			return err
		}
		if err := s.SaveHolding(ctx, holding); err != nil {
			return err
		}
		return s.RecordTransaction(ctx, txn)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("symbol", symbol).Int64("user", userID).Str("cost", cost.StringFixed(2)).Msg("buy executed")
	return txn, nil
}

// Sell disposes quantity of symbol at the current price. Cost basis
// comes off proportionally at the average buy price.
func (uc *TradingUseCase) Sell(ctx context.Context, userID int64, symbol string, quantity float64) (*models.Transaction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	qty := decimal.NewFromFloat(quantity)
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("quantity must be positive")
	}

	holding, err := uc.store.GetHolding(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}
	if holding == nil || holding.Quantity.LessThan(qty) {
		return nil, fmt.Errorf("insufficient holdings of %s", symbol)
	}

	price, err := uc.executionPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	proceeds := price.Mul(qty)

	holding.Quantity = holding.Quantity.Sub(qty)
	holding.TotalInvested = holding.TotalInvested.Sub(holding.AvgBuyPrice.Mul(qty))

	txn := &models.Transaction{
		UserID:      userID,
		Symbol:      symbol,
		Side:        models.TradeSell,
		Quantity:    qty,
		Price:       price,
		TotalAmount: proceeds,
		ExecutedAt:  time.Now().UTC(),
	}
	err = uc.store.Transact(ctx, func(s drepo.TradingStore) error {
		if holding.Quantity.IsZero() {
			if err := s.DeleteHolding(ctx, userID, symbol); err != nil {
				return err
			}
		} else {
			if err := s.SaveHolding(ctx, holding); err != nil {
				return err
			}
		}
		if err := s.UpdateCash(ctx, userID, proceeds); err != nil {
			return err
		}
		return s.RecordTransaction(ctx, txn)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("symbol", symbol).Int64("user", userID).Str("proceeds", proceeds.StringFixed(2)).Msg("sell executed")
	return txn, nil
}

// Portfolio values every holding at the current price.
func (uc *TradingUseCase) Portfolio(ctx context.Context, userID int64) (*models.PortfolioSummary, error) {
	balance, err := uc.store.GetOrCreateBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	holdings, err := uc.store.ListHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.PortfolioSummary{
		CashBalance: balance.CashBalance,
		Holdings:    holdings,
	}
	for _, h := range holdings {
		price, err := uc.executionPrice(ctx, h.Symbol)
		if err != nil {
			// value at cost when the quote is unavailable
			uc.log.Warn().Err(err).Str("symbol", h.Symbol).Msg("quote unavailable, valuing at cost")
			price = h.AvgBuyPrice
		}
		value := price.Mul(h.Quantity)
		summary.TotalPortfolioValue = summary.TotalPortfolioValue.Add(value)
		summary.TotalInvested = summary.TotalInvested.Add(h.TotalInvested)
	}
	summary.TotalProfitLoss = summary.TotalPortfolioValue.Sub(summary.TotalInvested)
	summary.TotalValue = summary.CashBalance.Add(summary.TotalPortfolioValue)
	return summary, nil
}
