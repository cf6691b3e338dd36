package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction sides.
const (
	TradeBuy  = "BUY"
	TradeSell = "SELL"
)

// Holding is one position in a user's paper portfolio.
type Holding struct {
	UserID        int64           `json:"user_id"`
	Symbol        string          `json:"symbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	AvgBuyPrice   decimal.Decimal `json:"avg_buy_price"`
	TotalInvested decimal.Decimal `json:"total_invested"`
}

// Transaction is one entry of the paper-trading ledger.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ExecutedAt  time.Time       `json:"executed_at"`
}

// Balance is the virtual cash account backing paper trades.
type Balance struct {
	UserID      int64           `json:"user_id"`
	CashBalance decimal.Decimal `json:"cash_balance"`
}

// PortfolioSummary is the valued view of a user's account.
type PortfolioSummary struct {
	CashBalance         decimal.Decimal `json:"cash_balance"`
	TotalPortfolioValue decimal.Decimal `json:"total_portfolio_value"`
	TotalInvested       decimal.Decimal `json:"total_invested"`
	TotalProfitLoss     decimal.Decimal `json:"total_profit_loss"`
	TotalValue          decimal.Decimal `json:"total_value"`
	Holdings            []Holding       `json:"holdings"`
}
