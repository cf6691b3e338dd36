package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
)

type staticMarket struct{ price float64 }

func (m staticMarket) DailyHistory(ctx context.Context, symbol string, months int) ([]models.Bar, error) {
	return nil, nil
}

func (m staticMarket) Quote(ctx context.Context, symbol string) (float64, error) {
	return m.price, nil
}

func (m staticMarket) CompanyName(ctx context.Context, symbol string) (string, error) {
	return symbol, nil
}

// memTradingStore keeps ledger state in maps. Transact runs fn against
// a copy and commits only on success, matching the Postgres store's
// rollback behaviour.
type memTradingStore struct {
	cash     map[int64]decimal.Decimal
	holdings map[string]models.Holding
	txns     []models.Transaction
	failSave bool
}

func newMemTradingStore() *memTradingStore {
	return &memTradingStore{
		cash:     map[int64]decimal.Decimal{},
		holdings: map[string]models.Holding{},
	}
}

func holdingKey(userID int64, symbol string) string {
	return fmt.Sprintf("%d/%s", userID, symbol)
}

func (s *memTradingStore) clone() *memTradingStore {
	cp := newMemTradingStore()
	cp.failSave = s.failSave
	for k, v := range s.cash {
		cp.cash[k] = v
	}
	for k, v := range s.holdings {
		cp.holdings[k] = v
	}
	cp.txns = append(cp.txns, s.txns...)
	return cp
}

func (s *memTradingStore) Transact(ctx context.Context, fn func(drepo.TradingStore) error) error {
	cp := s.clone()
	if err := fn(cp); err != nil {
		return err
	}
	s.cash, s.holdings, s.txns = cp.cash, cp.holdings, cp.txns
	return nil
}

func (s *memTradingStore) GetOrCreateBalance(ctx context.Context, userID int64) (*models.Balance, error) {
	if _, ok := s.cash[userID]; !ok {
		s.cash[userID] = decimal.NewFromInt(10000)
	}
	return &models.Balance{UserID: userID, CashBalance: s.cash[userID]}, nil
}

func (s *memTradingStore) UpdateCash(ctx context.Context, userID int64, delta decimal.Decimal) error {
	s.cash[userID] = s.cash[userID].Add(delta)
	return nil
}

func (s *memTradingStore) GetHolding(ctx context.Context, userID int64, symbol string) (*models.Holding, error) {
	h, ok := s.holdings[holdingKey(userID, symbol)]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (s *memTradingStore) SaveHolding(ctx context.Context, h *models.Holding) error {
	if s.failSave {
		return fmt.Errorf("save holding: connection reset")
	}
	s.holdings[holdingKey(h.UserID, h.Symbol)] = *h
	return nil
}

func (s *memTradingStore) DeleteHolding(ctx context.Context, userID int64, symbol string) error {
	delete(s.holdings, holdingKey(userID, symbol))
	return nil
}

func (s *memTradingStore) ListHoldings(ctx context.Context, userID int64) ([]models.Holding, error) {
	var out []models.Holding
	for _, h := range s.holdings {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *memTradingStore) RecordTransaction(ctx context.Context, t *models.Transaction) error {
	t.ID = int64(len(s.txns) + 1)
	s.txns = append(s.txns, *t)
	return nil
}

func TestBuyRollsBackOnPartialFailure(t *testing.T) {
	store := newMemTradingStore()
	store.failSave = true
	uc := NewTradingUseCase(store, staticMarket{price: 50}, nil, zerolog.Nop())

	_, err := uc.Buy(context.Background(), 1, "AAPL", 10)
	if err == nil {
		t.Fatal("expected buy to fail when the holding cannot be saved")
	}

	if got := store.cash[1]; !got.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("cash debited despite failed trade: %s", got.StringFixed(2))
	}
	if len(store.txns) != 0 {
		t.Fatalf("recorded %d transactions for a failed trade", len(store.txns))
	}
	if len(store.holdings) != 0 {
		t.Fatalf("holding persisted for a failed trade")
	}
}

func TestBuySellLedgerConsistency(t *testing.T) {
	store := newMemTradingStore()
	uc := NewTradingUseCase(store, staticMarket{price: 50}, nil, zerolog.Nop())
	ctx := context.Background()

	buy, err := uc.Buy(ctx, 1, "aapl", 10)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if buy.Symbol != "AAPL" || buy.Side != models.TradeBuy {
		t.Fatalf("unexpected buy transaction: %+v", buy)
	}
	if got := store.cash[1]; !got.Equal(decimal.NewFromInt(9500)) {
		t.Fatalf("cash after buy = %s, want 9500", got.StringFixed(2))
	}

	sell, err := uc.Sell(ctx, 1, "AAPL", 10)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if sell.Side != models.TradeSell {
		t.Fatalf("unexpected sell transaction: %+v", sell)
	}
	if got := store.cash[1]; !got.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("cash after round trip = %s, want 10000", got.StringFixed(2))
	}
	if len(store.holdings) != 0 {
		t.Fatalf("holding left behind after selling the full position")
	}
	if len(store.txns) != 2 {
		t.Fatalf("want 2 recorded transactions, got %d", len(store.txns))
	}
}
