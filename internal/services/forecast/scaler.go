package forecast

// Scaler min-max scales values into [0, 1]. A flat series (max == min) scales
// everything to 0 and inverse-transforms back to the flat value.
type Scaler struct {
	Min float64
	Max float64
}

// FitScaler learns the min/max of values.
func FitScaler(values []float64) *Scaler {
	s := &Scaler{}
	if len(values) == 0 {
		return s
	}
	s.Min, s.Max = values[0], values[0]
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// Transform maps v into [0, 1].
func (s *Scaler) Transform(v float64) float64 {
	if s.Max == s.Min {
		return 0
	}
	return (v - s.Min) / (s.Max - s.Min)
}

// TransformAll maps a slice into [0, 1].
func (s *Scaler) TransformAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Transform(v)
	}
	return out
}

// Inverse maps a scaled value back to the original range.
func (s *Scaler) Inverse(v float64) float64 {
	return s.Min + v*(s.Max-s.Min)
}
