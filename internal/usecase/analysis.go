package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	dsvc "StockPilot/internal/domain/service"
	"StockPilot/internal/services/indicators"
	"StockPilot/internal/services/regime"
	"StockPilot/internal/services/risk"
	"StockPilot/internal/services/sentiment"
	"StockPilot/internal/services/signalscore"
	"StockPilot/pkg/cache"
)

// maxHeadlines caps how many stories feed the sentiment aggregate.
const maxHeadlines = 10

// AnalysisUseCase fans out the per-symbol analytics and folds the
// results into one response. Each section fails independently; a
// failed section lands in Errors instead of failing the request.
type AnalysisUseCase struct {
	history  *HistoryUseCase
	market   dsvc.MarketData
	news     dsvc.NewsSource
	analyzer *sentiment.Analyzer
	cache    cache.Service
	cacheTTL time.Duration
	metrics  drepo.Metrics
	log      zerolog.Logger
	timeout  time.Duration
}

func NewAnalysisUseCase(
	history *HistoryUseCase,
	market dsvc.MarketData,
	news dsvc.NewsSource,
	cacheSvc cache.Service,
	cacheTTL time.Duration,
	metrics drepo.Metrics,
	log zerolog.Logger,
) *AnalysisUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &AnalysisUseCase{
		history:  history,
		market:   market,
		news:     news,
		analyzer: sentiment.NewAnalyzer(),
		cache:    cacheSvc,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		log:      log.With().Str("component", "analysis").Logger(),
		timeout:  20 * time.Second,
	}
}

func (uc *AnalysisUseCase) Analyze(ctx context.Context, symbol, benchmark string) (*models.Analysis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}

	cacheKey := cache.GenerateKeyWithParams("stockpilot:analysis", symbol, benchmark)
	if uc.cache != nil {
		var cached models.Analysis
		if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil && cached.Symbol != "" {
			return &cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	bars, err := uc.history.Bars(ctx, symbol, 600, MinPredictBars)
	if err != nil {
		uc.metrics.RecordError("analysis_history")
		return nil, err
	}

	res := &models.Analysis{
		Symbol:    symbol,
		Timestamp: time.Now().UTC(),
		Errors:    map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 4)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.signals(bars)
		ch <- item{"signals", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.risk(ctx, bars, benchmark)
		ch <- item{"risk", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := regime.Detect(models.Closes(bars), regime.DefaultLookback)
		ch <- item{"regime", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.sentiment(ctx, symbol)
		ch <- item{"sentiment", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.name] = it.err.Error()
			uc.metrics.RecordError("analysis_" + it.name)
			continue
		}
		switch it.name {
		case "signals":
			res.Signals = it.val.(*models.SignalResult)
		case "risk":
			m := it.val.(*models.RiskMetrics)
			res.Risk = m
			res.RiskView = risk.Assess(m)
		case "regime":
			res.Regime = it.val.(*models.Regime)
		case "sentiment":
			res.Sentiment = it.val.(*models.SentimentResult)
		}
	}

	if res.Signals != nil {
		uc.metrics.RecordSignal(symbol, res.Signals.Overall)
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, cacheKey, res, uc.cacheTTL); err != nil {
			uc.log.Debug().Err(err).Msg("analysis cache set failed")
		}
	}
	return res, nil
}

func (uc *AnalysisUseCase) signals(bars []models.Bar) (*models.SignalResult, error) {
	if len(bars) == 0 {
		return nil, ErrInsufficientData
	}
	set := indicators.Compute(bars)
	in := signalscore.FromIndicators(bars[len(bars)-1].Close, set)
	return signalscore.Score(in), nil
}

func (uc *AnalysisUseCase) risk(ctx context.Context, bars []models.Bar, benchmark string) (*models.RiskMetrics, error) {
	var benchBars []models.Bar
	if benchmark != "" {
		var err error
		benchBars, err = uc.market.DailyHistory(ctx, benchmark, historyMonths)
		if err != nil {
			// beta is optional; compute the rest without it
			uc.log.Warn().Err(err).Str("benchmark", benchmark).Msg("benchmark fetch failed")
			benchBars = nil
		}
	}
	return risk.ComputeMetrics(bars, benchBars)
}

// sentiment resolves the company name for a broader query, fetches
// headlines and aggregates their polarity. No headlines is a valid
// neutral outcome, not an error.
func (uc *AnalysisUseCase) sentiment(ctx context.Context, symbol string) (*models.SentimentResult, error) {
	query := symbol
	if name, err := uc.market.CompanyName(ctx, symbol); err == nil && name != "" {
		query = symbol + " " + name
	}

	var headlines []string
	if uc.news != nil {
		var err error
		headlines, err = uc.news.Headlines(ctx, query, maxHeadlines)
		if err != nil {
			uc.log.Warn().Err(err).Str("symbol", symbol).Msg("headline fetch failed")
			headlines = nil
		}
	}

	res := uc.analyzer.Aggregate(headlines)
	if res == nil {
		res = &models.SentimentResult{OverallSentiment: sentiment.LabelNeutral}
	}
	return res, nil
}
