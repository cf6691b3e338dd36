package forecast

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func syntheticPrices(n int) []float64 {
	prices := make([]float64, n)
	price := 100.0
	for i := 0; i < n; i++ {
		price += 0.08 + 1.5*math.Sin(float64(i)/9)
		prices[i] = price
	}
	return prices
}

func TestEnsembleUntrainedFallsBackFlat(t *testing.T) {
	e := NewEnsemble(zerolog.Nop())
	prices := syntheticPrices(120)
	last := prices[len(prices)-1]

	curve, err := e.Predict(prices, 5)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(curve) != 5 {
		t.Fatalf("expected 5 predictions, got %d", len(curve))
	}
	for i, v := range curve {
		if math.Abs(v-last) > 1e-9 {
			t.Fatalf("day %d: expected flat %v, got %v", i, last, v)
		}
	}
}

func TestEnsembleTrainScoresEveryModel(t *testing.T) {
	e := NewEnsemble(zerolog.Nop())
	scores := e.Train(syntheticPrices(200))

	if len(scores) != len(Weights) {
		t.Fatalf("expected %d scores, got %d", len(Weights), len(scores))
	}
	for name := range Weights {
		score, ok := scores[name]
		if !ok {
			t.Fatalf("missing score for %s", name)
		}
		if score < 0 && score != 0 {
			t.Fatalf("%s: negative score %v", name, score)
		}
	}
}

func TestEnsembleTrainShortHistoryScoresZero(t *testing.T) {
	e := NewEnsemble(zerolog.Nop())
	scores := e.Train(syntheticPrices(30))

	// The sequence model needs more than its lookback; it must fail
	// without taking the rest of the blend down.
	if scores[ModelSequence] != 0 {
		t.Fatalf("expected sequence score 0, got %v", scores[ModelSequence])
	}
	if scores[ModelRidge] <= 0 {
		t.Fatalf("expected ridge to train on 30 prices, score %v", scores[ModelRidge])
	}
}

func TestEnsembleSaveLoadRoundTrip(t *testing.T) {
	prices := syntheticPrices(200)

	e := NewEnsemble(zerolog.Nop())
	e.Train(prices)
	want, err := e.Predict(prices, 7)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	dir := t.TempDir()
	if err := e.Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := NewEnsemble(zerolog.Nop())
	if err := loaded.Load(dir); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := loaded.Predict(prices, 7)
	if err != nil {
		t.Fatalf("predict after load: %v", err)
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-9 {
			t.Fatalf("day %d: %v != %v after round trip", i, want[i], got[i])
		}
	}
}

func TestEnsembleLoadPartialDirFails(t *testing.T) {
	e := NewEnsemble(zerolog.Nop())
	e.Train(syntheticPrices(150))

	dir := t.TempDir()
	if err := e.Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, ModelRidge+".json")); err != nil {
		t.Fatalf("remove artifact: %v", err)
	}

	if err := NewEnsemble(zerolog.Nop()).Load(dir); err == nil {
		t.Fatal("expected load to fail on a partial artifact directory")
	}
}

func TestSequencePredictRollsWindow(t *testing.T) {
	m := NewSequenceModel()
	prices := syntheticPrices(200)
	if _, err := m.Train(prices); err != nil {
		t.Fatalf("train: %v", err)
	}
	curve, err := m.Predict(prices, 10)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(curve) != 10 {
		t.Fatalf("expected 10 predictions, got %d", len(curve))
	}
	lo, hi := prices[0]-50, prices[len(prices)-1]+50
	for i, v := range curve {
		if v < lo || v > hi {
			t.Fatalf("day %d: prediction %v far outside observed range", i, v)
		}
	}
}

func TestAdvanceWindow(t *testing.T) {
	w := []float64{1, 2, 3}
	w = advanceWindow(w, 4)
	if w[0] != 2 || w[1] != 3 || w[2] != 4 {
		t.Fatalf("unexpected window %v", w)
	}
}

func TestRidgeTracksLinearSeries(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 100 + 2*float64(i)
	}
	m := NewRidgeModel(1.0)
	score, err := m.Train(prices)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if score < 0.99 {
		t.Fatalf("expected near-perfect fit on a line, score %v", score)
	}
	curve, err := m.Predict(prices, 3)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// The small L2 penalty shrinks the slope slightly.
	if curve[0] < 195 || curve[0] > 201 {
		t.Fatalf("expected extrapolation near 200, got %v", curve[0])
	}
	if curve[2] <= curve[0] {
		t.Fatalf("expected rising extrapolation, got %v", curve)
	}
}

func TestLinearTrendExtrapolatesExactly(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 10 + 0.5*float64(i)
	}
	curve := LinearTrend(closes, 3)
	want := []float64{30, 30.5, 31}
	for i := range want {
		if math.Abs(curve[i]-want[i]) > 1e-9 {
			t.Fatalf("day %d: expected %v, got %v", i, want[i], curve[i])
		}
	}
}

func TestGBMFitsNonlinearTarget(t *testing.T) {
	n := 300
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		v := float64(i) / 10
		x[i] = []float64{v}
		y[i] = math.Sin(v) * 5
	}
	g := NewGBM(100, 4, 0.1, 42)
	if err := g.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if score := g.Score(x, y); score < 0.9 {
		t.Fatalf("expected in-sample score above 0.9, got %v", score)
	}
}

func TestRandomForestDeterministicWithSeed(t *testing.T) {
	prices := syntheticPrices(120)
	x, _ := indexMatrix(len(prices))

	a := NewRandomForest(30, 6, 7)
	b := NewRandomForest(30, 6, 7)
	if err := a.Fit(x, prices); err != nil {
		t.Fatalf("fit a: %v", err)
	}
	if err := b.Fit(x, prices); err != nil {
		t.Fatalf("fit b: %v", err)
	}
	row := []float64{55}
	if a.Predict(row) != b.Predict(row) {
		t.Fatal("same seed produced different forests")
	}
}

func TestMinMaxScalerRoundTrip(t *testing.T) {
	s := &MinMaxScaler{}
	values := []float64{3, 9, 6, 12}
	s.Fit(values)
	scaled := s.Transform(values)
	if scaled[0] != 0 || scaled[3] != 1 {
		t.Fatalf("unexpected scaled values %v", scaled)
	}
	back := s.Inverse(scaled)
	for i := range values {
		if math.Abs(back[i]-values[i]) > 1e-12 {
			t.Fatalf("round trip mismatch at %d: %v != %v", i, back[i], values[i])
		}
	}
}

func TestFormatCurveChainsDirection(t *testing.T) {
	start := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	records := FormatCurve([]float64{98, 101}, 100, start)

	if records[0].Date != "2024-05-11" || records[1].Date != "2024-05-12" {
		t.Fatalf("unexpected dates %s, %s", records[0].Date, records[1].Date)
	}
	if records[0].Direction != "DOWN" {
		t.Fatalf("day 1: expected DOWN vs last close, got %s", records[0].Direction)
	}
	if records[0].Confidence != 52 {
		t.Fatalf("day 1: expected confidence 52, got %v", records[0].Confidence)
	}
	// Day 2 is judged against day 1's prediction, not the close.
	if records[1].Direction != "UP" {
		t.Fatalf("day 2: expected UP vs previous prediction, got %s", records[1].Direction)
	}
	wantConf := math.Round((50+(101.0-98)/98*100)*100) / 100
	if records[1].Confidence != wantConf {
		t.Fatalf("day 2: expected confidence %v, got %v", wantConf, records[1].Confidence)
	}
}

func TestFormatCurveCapsConfidence(t *testing.T) {
	records := FormatCurve([]float64{200}, 100, time.Now())
	if records[0].Confidence != 95 {
		t.Fatalf("expected capped confidence 95, got %v", records[0].Confidence)
	}
}

func TestFormatNaiveHasNoBaseline(t *testing.T) {
	start := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	records := FormatNaive([]float64{101, 102}, 100, start)

	if records[0].Confidence != 1 {
		t.Fatalf("expected confidence 1 for a 1%% move, got %v", records[0].Confidence)
	}
	if records[1].Confidence != 2 {
		t.Fatalf("expected confidence 2 for a 2%% move, got %v", records[1].Confidence)
	}
	if records[0].Direction != "UP" || records[1].Direction != "UP" {
		t.Fatalf("expected UP vs last close, got %s, %s", records[0].Direction, records[1].Direction)
	}
}
