package forecast

// MinMaxScaler maps values into [0, 1] using the range seen at fit time.
type MinMaxScaler struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (s *MinMaxScaler) Fit(values []float64) {
	s.Min, s.Max = values[0], values[0]
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
}

func (s *MinMaxScaler) Transform(values []float64) []float64 {
	out := make([]float64, len(values))
	span := s.Max - s.Min
	for i, v := range values {
		if span == 0 {
			out[i] = 0
			continue
		}
		out[i] = (v - s.Min) / span
	}
	return out
}

func (s *MinMaxScaler) Inverse(values []float64) []float64 {
	out := make([]float64, len(values))
	span := s.Max - s.Min
	for i, v := range values {
		out[i] = v*span + s.Min
	}
	return out
}

// StandardScaler centers and scales each column independently.
type StandardScaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

func (s *StandardScaler) Fit(x [][]float64) {
	if len(x) == 0 {
		return
	}
	cols := len(x[0])
	s.Means = make([]float64, cols)
	s.Stds = make([]float64, cols)
	for c := 0; c < cols; c++ {
		sum := 0.0
		for _, row := range x {
			sum += row[c]
		}
		m := sum / float64(len(x))
		sq := 0.0
		for _, row := range x {
			d := row[c] - m
			sq += d * d
		}
		s.Means[c] = m
		s.Stds[c] = sqrt(sq / float64(len(x)))
	}
}

func (s *StandardScaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.TransformRow(row)
	}
	return out
}

func (s *StandardScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for c, v := range row {
		if s.Stds[c] == 0 {
			out[c] = 0
			continue
		}
		out[c] = (v - s.Means[c]) / s.Stds[c]
	}
	return out
}
