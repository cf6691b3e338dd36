package usecase

import (
	"context"

	"github.com/rs/zerolog"

	drepo "StockPilot/internal/domain/repository"
)

// StreamConsumer pumps live quotes from the websocket into the quote
// book and the last-price gauge, reconnecting on read failure.
type StreamConsumer struct {
	stream  drepo.QuoteStream
	book    *QuoteBook
	metrics drepo.Metrics
	log     zerolog.Logger
}

func NewStreamConsumer(stream drepo.QuoteStream, book *QuoteBook, metrics drepo.Metrics, log zerolog.Logger) *StreamConsumer {
	return &StreamConsumer{
		stream:  stream,
		book:    book,
		metrics: metrics,
		log:     log.With().Str("component", "stream_consumer").Logger(),
	}
}

// Run blocks until ctx is canceled.
func (c *StreamConsumer) Run(ctx context.Context) {
	if err := c.stream.Connect(ctx); err != nil {
		c.log.Error().Err(err).Msg("initial stream connect failed")
		c.metrics.RecordError("stream_connect")
	} else if err := c.stream.Subscribe(ctx); err != nil {
		c.log.Error().Err(err).Msg("stream subscribe failed")
		c.metrics.RecordError("stream_subscribe")
	}

	for {
		quotes, errs := c.stream.Read(ctx)
	inner:
		for {
			select {
			case <-ctx.Done():
				_ = c.stream.Close()
				return
			case q, ok := <-quotes:
				if !ok {
					break inner
				}
				c.book.Update(*q)
				c.metrics.RecordLastPrice(q.Symbol, q.Price)
			case err, ok := <-errs:
				if !ok {
					break inner
				}
				c.log.Warn().Err(err).Msg("stream read error")
				c.metrics.RecordError("stream_read")
				break inner
			}
		}

		select {
		case <-ctx.Done():
			_ = c.stream.Close()
			return
		default:
		}
		if err := c.stream.Reconnect(ctx); err != nil {
			c.log.Error().Err(err).Msg("stream reconnect failed")
			c.metrics.RecordError("stream_reconnect")
		}
	}
}
