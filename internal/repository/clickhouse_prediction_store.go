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

// PredictionSchema creates the prediction history table.
var PredictionSchema = []string{
	`CREATE TABLE IF NOT EXISTS prediction_history (
		created_at       DateTime,
		symbol           LowCardinality(String),
		model            LowCardinality(String),
		target_date      Date,
		predicted_price  Float64,
		confidence       Float64,
		direction        LowCardinality(String)
	) ENGINE = MergeTree
	ORDER BY (symbol, created_at, target_date)`,
}

// ClickHousePredictionStore implements PredictionStore on ClickHouse.
type ClickHousePredictionStore struct {
	db    *sql.DB
	table string
}

// NewClickHousePredictionStore creates ClickHouse-backed prediction storage.
func NewClickHousePredictionStore(db *sql.DB) *ClickHousePredictionStore {
	return &ClickHousePredictionStore{db: db, table: "prediction_history"}
}

var _ drepo.PredictionStore = (*ClickHousePredictionStore)(nil)

func (s *ClickHousePredictionStore) SavePredictions(ctx context.Context, symbol, model string, records []models.PredictionRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()

	values := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*7)
	for _, r := range records {
		target, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return fmt.Errorf("bad target date %q: %w", r.Date, err)
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, now, symbol, model, target, r.PredictedPrice, r.Confidence, r.Direction)
	}

	q := fmt.Sprintf("INSERT INTO %s (created_at, symbol, model, target_date, predicted_price, confidence, direction) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save predictions: %w", err)
	}
	return nil
}

// History returns the newest stored predictions for a symbol.
func (s *ClickHousePredictionStore) History(ctx context.Context, symbol string, limit int) ([]models.StoredPrediction, error) {
	q := fmt.Sprintf(`SELECT created_at, symbol, model, target_date, predicted_price, confidence, direction
		FROM %s
		WHERE symbol = ?
		ORDER BY created_at DESC, target_date ASC
		LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	var entries []models.StoredPrediction
	for rows.Next() {
		var (
			e      models.StoredPrediction
			target time.Time
		)
		if err := rows.Scan(&e.CreatedAt, &e.Symbol, &e.Model, &target, &e.PredictedPrice, &e.Confidence, &e.Direction); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.TargetDate = target.Format("2006-01-02")
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return entries, nil
}
