package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"

	"StockPilot/internal/domain/models"
)

// Sentiment labels.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

// Signal labels derived from the aggregate score.
const (
	SignalStrongBullish = "STRONG_BULLISH"
	SignalBullish       = "BULLISH"
	SignalStrongBearish = "STRONG_BEARISH"
	SignalBearish       = "BEARISH"
	SignalNeutral       = "NEUTRAL"
)

var (
	urlRe      = regexp.MustCompile(`https?://\S+`)
	nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// Analyzer scores headline text with the VADER lexicon.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer builds the lexicon-backed analyzer. The lexicon is
// embedded in the library; construction never fails.
func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Clean strips URLs and non-alphanumeric characters before scoring.
func Clean(text string) string {
	text = urlRe.ReplaceAllString(text, "")
	text = nonAlnumRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ScoreHeadline returns the compound polarity in [-1,1] and its label.
// Empty text reads as neutral.
func (a *Analyzer) ScoreHeadline(text string) (float64, string) {
	cleaned := Clean(text)
	if cleaned == "" {
		return 0, LabelNeutral
	}
	compound := a.vader.PolarityScores(cleaned).Compound
	return compound, labelFor(compound)
}

// Aggregate scores every headline and combines them into a per-symbol
// sentiment result. Returns nil when there is nothing to score; the
// caller maps that to a neutral signal rather than an error.
func (a *Analyzer) Aggregate(headlines []string) *models.SentimentResult {
	if len(headlines) == 0 {
		return nil
	}

	res := &models.SentimentResult{
		Headlines: make([]models.Headline, 0, len(headlines)),
	}
	sum := 0.0
	for _, h := range headlines {
		score, label := a.ScoreHeadline(h)
		sum += score
		switch label {
		case LabelPositive:
			res.PositiveCount++
		case LabelNegative:
			res.NegativeCount++
		default:
			res.NeutralCount++
		}
		res.Headlines = append(res.Headlines, models.Headline{
			Title:     h,
			Sentiment: label,
			Score:     score,
		})
	}

	res.TotalArticles = len(headlines)
	res.SentimentScore = sum / float64(len(headlines))
	res.OverallSentiment = labelFor(res.SentimentScore)
	return res
}

// Signal maps an aggregate sentiment to a trading signal. A nil result
// (no data) is NEUTRAL by design, not an error.
func Signal(res *models.SentimentResult) string {
	if res == nil {
		return SignalNeutral
	}
	switch {
	case res.SentimentScore >= 0.3:
		return SignalStrongBullish
	case res.SentimentScore >= 0.1:
		return SignalBullish
	case res.SentimentScore <= -0.3:
		return SignalStrongBearish
	case res.SentimentScore <= -0.1:
		return SignalBearish
	default:
		return SignalNeutral
	}
}

func labelFor(compound float64) string {
	switch {
	case compound >= 0.05:
		return LabelPositive
	case compound <= -0.05:
		return LabelNegative
	default:
		return LabelNeutral
	}
}
