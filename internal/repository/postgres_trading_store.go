package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
)

type balanceRow struct {
	UserID      int64           `gorm:"column:user_id;primaryKey"`
	CashBalance decimal.Decimal `gorm:"column:cash_balance;type:numeric(18,4)"`
}

func (balanceRow) TableName() string { return "balances" }

type holdingRow struct {
	UserID        int64           `gorm:"column:user_id;primaryKey"`
	Symbol        string          `gorm:"column:symbol;primaryKey"`
	Quantity      decimal.Decimal `gorm:"column:quantity;type:numeric(18,6)"`
	AvgBuyPrice   decimal.Decimal `gorm:"column:avg_buy_price;type:numeric(18,4)"`
	TotalInvested decimal.Decimal `gorm:"column:total_invested;type:numeric(18,4)"`
}

func (holdingRow) TableName() string { return "holdings" }

type transactionRow struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64           `gorm:"column:user_id;index"`
	Symbol      string          `gorm:"column:symbol"`
	Side        string          `gorm:"column:side"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(18,6)"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(18,4)"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(18,4)"`
	ExecutedAt  time.Time       `gorm:"column:executed_at"`
}

func (transactionRow) TableName() string { return "transactions" }

// PostgresTradingStore implements TradingStore on Postgres via GORM.
type PostgresTradingStore struct {
	db          *gorm.DB
	initialCash decimal.Decimal
}

// NewPostgresTradingStore connects, migrates the paper-trading schema
// and returns the store. New users start with initialCash.
func NewPostgresTradingStore(dsn string, initialCash float64) (*PostgresTradingStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := db.AutoMigrate(&balanceRow{}, &holdingRow{}, &transactionRow{}); err != nil {
		return nil, fmt.Errorf("migrate trading schema: %w", err)
	}
	return &PostgresTradingStore{
		db:          db,
		initialCash: decimal.NewFromFloat(initialCash),
	}, nil
}

var _ drepo.TradingStore = (*PostgresTradingStore)(nil)

// Transact runs fn against a store bound to one database transaction.
func (s *PostgresTradingStore) Transact(ctx context.Context, fn func(drepo.TradingStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresTradingStore{db: tx, initialCash: s.initialCash})
	})
}

func (s *PostgresTradingStore) GetOrCreateBalance(ctx context.Context, userID int64) (*models.Balance, error) {
	var row balanceRow
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		row = balanceRow{UserID: userID, CashBalance: s.initialCash}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, fmt.Errorf("create balance: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &models.Balance{UserID: row.UserID, CashBalance: row.CashBalance}, nil
}

func (s *PostgresTradingStore) UpdateCash(ctx context.Context, userID int64, delta decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&balanceRow{}).
		Where("user_id = ?", userID).
		Update("cash_balance", gorm.Expr("cash_balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("update cash: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no balance for user %d", userID)
	}
	return nil
}

func (s *PostgresTradingStore) GetHolding(ctx context.Context, userID int64, symbol string) (*models.Holding, error) {
	var row holdingRow
	err := s.db.WithContext(ctx).First(&row, "user_id = ? AND symbol = ?", userID, symbol).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get holding: %w", err)
	}
	h := toHolding(row)
	return &h, nil
}

func (s *PostgresTradingStore) SaveHolding(ctx context.Context, h *models.Holding) error {
	row := holdingRow{
		UserID:        h.UserID,
		Symbol:        h.Symbol,
		Quantity:      h.Quantity,
		AvgBuyPrice:   h.AvgBuyPrice,
		TotalInvested: h.TotalInvested,
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save holding: %w", err)
	}
	return nil
}

func (s *PostgresTradingStore) DeleteHolding(ctx context.Context, userID int64, symbol string) error {
	err := s.db.WithContext(ctx).
		Delete(&holdingRow{}, "user_id = ? AND symbol = ?", userID, symbol).Error
	if err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	return nil
}

func (s *PostgresTradingStore) ListHoldings(ctx context.Context, userID int64) ([]models.Holding, error) {
	var rows []holdingRow
	err := s.db.WithContext(ctx).
		Order("symbol ASC").
		Find(&rows, "user_id = ?", userID).Error
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	holdings := make([]models.Holding, len(rows))
	for i, row := range rows {
		holdings[i] = toHolding(row)
	}
	return holdings, nil
}

func (s *PostgresTradingStore) RecordTransaction(ctx context.Context, t *models.Transaction) error {
	row := transactionRow{
		UserID:      t.UserID,
		Symbol:      t.Symbol,
		Side:        t.Side,
		Quantity:    t.Quantity,
		Price:       t.Price,
		TotalAmount: t.TotalAmount,
		ExecutedAt:  t.ExecutedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	t.ID = row.ID
	return nil
}

func toHolding(row holdingRow) models.Holding {
	return models.Holding{
		UserID:        row.UserID,
		Symbol:        row.Symbol,
		Quantity:      row.Quantity,
		AvgBuyPrice:   row.AvgBuyPrice,
		TotalInvested: row.TotalInvested,
	}
}
