package sentiment

import (
	"testing"

	"StockPilot/internal/domain/models"
)

func TestClean(t *testing.T) {
	got := Clean("ACME soars! https://example.com/a?b=1 record profits, up 20%")
	want := "ACME soars  record profits up 20"
	if got != want {
		t.Fatalf("clean: got %q, want %q", got, want)
	}
}

func TestScoreHeadlinePolarity(t *testing.T) {
	a := NewAnalyzer()

	score, label := a.ScoreHeadline("Company reports excellent record profits, stock soars")
	if label != LabelPositive || score < 0.05 {
		t.Fatalf("positive headline: got %v/%s", score, label)
	}

	score, label = a.ScoreHeadline("Company crashes after terrible fraud scandal and huge losses")
	if label != LabelNegative || score > -0.05 {
		t.Fatalf("negative headline: got %v/%s", score, label)
	}

	if score, label := a.ScoreHeadline(""); score != 0 || label != LabelNeutral {
		t.Fatalf("empty headline: got %v/%s", score, label)
	}
}

func TestAggregateCounts(t *testing.T) {
	a := NewAnalyzer()
	res := a.Aggregate([]string{
		"Great excellent wonderful earnings beat",
		"Horrible terrible awful losses and layoffs",
		"Quarterly filing published on schedule",
	})
	if res == nil {
		t.Fatalf("expected a result")
	}
	if res.TotalArticles != 3 {
		t.Fatalf("total: got %d", res.TotalArticles)
	}
	if res.PositiveCount+res.NegativeCount+res.NeutralCount != 3 {
		t.Fatalf("counts do not sum: %+v", res)
	}
	if res.PositiveCount < 1 || res.NegativeCount < 1 {
		t.Fatalf("expected at least one positive and one negative: %+v", res)
	}
	if len(res.Headlines) != 3 {
		t.Fatalf("headlines: got %d", len(res.Headlines))
	}
	if res.SentimentScore < -1 || res.SentimentScore > 1 {
		t.Fatalf("score out of range: %v", res.SentimentScore)
	}
}

func TestAggregateEmpty(t *testing.T) {
	a := NewAnalyzer()
	if res := a.Aggregate(nil); res != nil {
		t.Fatalf("no headlines must yield nil, got %+v", res)
	}
}

func TestSignalMapping(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.5, SignalStrongBullish},
		{0.3, SignalStrongBullish},
		{0.15, SignalBullish},
		{0.0, SignalNeutral},
		{-0.15, SignalBearish},
		{-0.3, SignalStrongBearish},
	}
	for _, c := range cases {
		got := Signal(&models.SentimentResult{SentimentScore: c.score})
		if got != c.want {
			t.Fatalf("score %v: got %s, want %s", c.score, got, c.want)
		}
	}
	if got := Signal(nil); got != SignalNeutral {
		t.Fatalf("nil sentiment: got %s, want NEUTRAL", got)
	}
}
