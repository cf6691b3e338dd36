package forecast

import "math"

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sqrt(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// rSquared is the coefficient of determination. A constant target
// yields 0 rather than a division by zero.
func rSquared(actual, predicted []float64) float64 {
	m := mean(actual)
	ssRes, ssTot := 0.0, 0.0
	for i, y := range actual {
		d := y - predicted[i]
		ssRes += d * d
		t := y - m
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
