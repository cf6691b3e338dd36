package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
)

// BarSchema creates the daily bar table. ReplacingMergeTree dedupes
// re-ingested days by (symbol, date).
var BarSchema = []string{
	`CREATE TABLE IF NOT EXISTS daily_bars (
		date    Date,
		symbol  LowCardinality(String),
		open    Float64,
		high    Float64,
		low     Float64,
		close   Float64,
		volume  Float64
	) ENGINE = ReplacingMergeTree
	ORDER BY (symbol, date)`,
}

// ClickHousePriceStore implements PriceStore on ClickHouse.
type ClickHousePriceStore struct {
	db    *sql.DB
	table string
}

// NewClickHousePriceStore creates ClickHouse-backed bar storage.
func NewClickHousePriceStore(db *sql.DB) drepo.PriceStore {
	return &ClickHousePriceStore{db: db, table: "daily_bars"}
}

func (s *ClickHousePriceStore) SaveBars(ctx context.Context, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b.Symbol == "" || b.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, b.Date, b.Symbol, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (date, symbol, open, high, low, close, volume) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save bars: %w", err)
		}
	}
	return nil
}

func (s *ClickHousePriceStore) GetBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	q := fmt.Sprintf(`SELECT date, symbol, open, high, low, close, volume
		FROM %s FINAL
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()
	return scanBars(rows)
}

// GetLatestNBars returns the newest n bars in ascending date order.
func (s *ClickHousePriceStore) GetLatestNBars(ctx context.Context, symbol string, n int) ([]models.Bar, error) {
	q := fmt.Sprintf(`SELECT date, symbol, open, high, low, close, volume
		FROM %s FINAL
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		return nil, fmt.Errorf("get latest bars: %w", err)
	}
	defer rows.Close()

	bars, err := scanBars(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

func scanBars(rows *sql.Rows) ([]models.Bar, error) {
	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return bars, nil
}
