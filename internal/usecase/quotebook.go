package usecase

import (
	"sync"
	"time"

	"StockPilot/internal/domain/models"
)

// quoteMaxAge bounds how long a streamed quote counts as live.
const quoteMaxAge = 5 * time.Minute

// QuoteBook keeps the last streamed quote per symbol. The websocket
// consumer writes, trading execution reads.
type QuoteBook struct {
	mu     sync.RWMutex
	quotes map[string]models.Quote
}

func NewQuoteBook() *QuoteBook {
	return &QuoteBook{quotes: make(map[string]models.Quote)}
}

func (b *QuoteBook) Update(q models.Quote) {
	b.mu.Lock()
	b.quotes[q.Symbol] = q
	b.mu.Unlock()
}

// Price returns the live price for symbol, or false when no fresh
// quote is available.
func (b *QuoteBook) Price(symbol string) (float64, bool) {
	b.mu.RLock()
	q, ok := b.quotes[symbol]
	b.mu.RUnlock()
	if !ok || q.Price <= 0 || time.Since(q.Timestamp) > quoteMaxAge {
		return 0, false
	}
	return q.Price, true
}
