package signalscore

import (
	"math"
	"testing"

	"StockPilot/internal/domain/models"
)

func TestTripleOrderedBullish(t *testing.T) {
	// close above both averages, bullish MACD, everything else neutral:
	// +2 (MA) +1 (MACD) = +3 -> boundary lands on the stronger label.
	res := Score(Inputs{
		Close:    105,
		RSI:      50,
		MACDDiff: 0.5,
		SMA50:    100,
		SMA200:   90,
		BBUpper:  110,
		BBLower:  90,
	})
	if res.Strength != 3 {
		t.Fatalf("strength: got %d, want 3", res.Strength)
	}
	if res.Overall != models.SignalStrongBuy {
		t.Fatalf("overall: got %s, want STRONG_BUY", res.Overall)
	}
	if res.Indicators["MA"] != LabelStrongBullish {
		t.Fatalf("MA label: got %s", res.Indicators["MA"])
	}
}

func TestStrongSellBoundary(t *testing.T) {
	res := Score(Inputs{
		Close:    80,
		RSI:      50,
		MACDDiff: -0.5,
		SMA50:    100,
		SMA200:   110,
		BBUpper:  120,
		BBLower:  70,
	})
	// MACD -1, MA strong bearish -2 = -3
	if res.Strength != -3 || res.Overall != models.SignalStrongSell {
		t.Fatalf("got %d/%s, want -3/STRONG_SELL", res.Strength, res.Overall)
	}
}

func TestRSIExtremes(t *testing.T) {
	overbought := Score(Inputs{Close: 100, RSI: 75, MACDDiff: 1, BBUpper: 110, BBLower: 90, SMA50: math.NaN(), SMA200: math.NaN()})
	if overbought.Indicators["RSI"] != LabelOverbought {
		t.Fatalf("RSI 75: got %s", overbought.Indicators["RSI"])
	}
	oversold := Score(Inputs{Close: 100, RSI: 25, MACDDiff: 1, BBUpper: 110, BBLower: 90, SMA50: math.NaN(), SMA200: math.NaN()})
	if oversold.Indicators["RSI"] != LabelOversold {
		t.Fatalf("RSI 25: got %s", oversold.Indicators["RSI"])
	}
}

func TestMARuleSkippedWithoutHistory(t *testing.T) {
	res := Score(Inputs{
		Close:    100,
		RSI:      50,
		MACDDiff: 1,
		SMA50:    math.NaN(),
		SMA200:   math.NaN(),
		BBUpper:  110,
		BBLower:  90,
	})
	if _, ok := res.Indicators["MA"]; ok {
		t.Fatalf("MA rule must not fire with undefined averages")
	}
	if res.Strength != 1 || res.Overall != models.SignalBuy {
		t.Fatalf("got %d/%s, want 1/BUY", res.Strength, res.Overall)
	}
}

func TestBollingerBreakout(t *testing.T) {
	res := Score(Inputs{
		Close:    115,
		RSI:      50,
		MACDDiff: 1,
		SMA50:    math.NaN(),
		SMA200:   math.NaN(),
		BBUpper:  110,
		BBLower:  90,
	})
	if res.Indicators["BB"] != LabelOverbought {
		t.Fatalf("close above upper band: got %s", res.Indicators["BB"])
	}
	if res.Strength != 0 || res.Overall != models.SignalNeutral {
		t.Fatalf("got %d/%s, want 0/NEUTRAL", res.Strength, res.Overall)
	}
}

func TestRulesAreOrderIndependent(t *testing.T) {
	// partially bullish MA: close above SMA50 but averages inverted
	res := Score(Inputs{
		Close:    105,
		RSI:      50,
		MACDDiff: 0.5,
		SMA50:    100,
		SMA200:   120,
		BBUpper:  110,
		BBLower:  90,
	})
	if res.Indicators["MA"] != LabelBullish {
		t.Fatalf("MA label: got %s, want BULLISH", res.Indicators["MA"])
	}
	if res.Strength != 2 || res.Overall != models.SignalBuy {
		t.Fatalf("got %d/%s, want 2/BUY", res.Strength, res.Overall)
	}
}
