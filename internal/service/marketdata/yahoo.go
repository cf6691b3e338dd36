package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog"

	"StockPilot/internal/domain/models"
	"StockPilot/internal/service/ratelimit"
)

const limiterKey = "yahoo"

// Client fetches daily bars and snapshot quotes from Yahoo Finance.
// Requests pass through a token bucket so burst traffic cannot trip
// the upstream rate limit.
type Client struct {
	limiter  *ratelimit.Limiter
	capacity float64
	refill   float64
	log      zerolog.Logger
}

func NewClient(requestsPerMinute int, log zerolog.Logger) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &Client{
		limiter:  ratelimit.New(),
		capacity: float64(requestsPerMinute),
		refill:   float64(requestsPerMinute) / 60,
		log:      log.With().Str("component", "marketdata").Logger(),
	}
}

func (c *Client) wait(ctx context.Context) error {
	for !c.limiter.Allow(limiterKey, c.capacity, c.refill) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
	return nil
}

// DailyHistory returns daily bars for the last months, oldest first.
func (c *Client) DailyHistory(ctx context.Context, symbol string, months int) ([]models.Bar, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	end := time.Now()
	start := end.AddDate(0, -months, 0)
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	var bars []models.Bar
	for iter.Next() {
		b := iter.Bar()
		open, _ := b.Open.Float64()
		high, _ := b.High.Float64()
		low, _ := b.Low.Float64()
		cls, _ := b.Close.Float64()
		bars = append(bars, models.Bar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Symbol: symbol,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cls,
			Volume: float64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no history for %s", symbol)
	}

	c.log.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("fetched daily history")
	return bars, nil
}

// Quote returns the latest regular market price.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	q, err := quote.Get(strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return 0, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}
	if q == nil || q.RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return q.RegularMarketPrice, nil
}

// CompanyName resolves the ticker's short display name, falling back
// to the symbol itself.
func (c *Client) CompanyName(ctx context.Context, symbol string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	q, err := quote.Get(symbol)
	if err != nil || q == nil || q.ShortName == "" {
		return symbol, nil
	}
	return q.ShortName, nil
}
