package stats

import (
	"math"
	"sort"
)

// DailyReturns computes simple percentage returns r_t = (c_t - c_{t-1}) / c_{t-1}.
// It returns a slice of length len(closes)-1, or nil if insufficient data.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (closes[i]-prev)/prev)
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the sample standard deviation, or 0 below two samples.
func StdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := Mean(xs)
	sum2 := 0.0
	for _, x := range xs {
		d := x - m
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(n-1))
}

// PopStdDev returns the population standard deviation, or 0 below two samples.
func PopStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := Mean(xs)
	sum2 := 0.0
	for _, x := range xs {
		d := x - m
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(n))
}

// Percentile returns the p-th percentile (0..100) using linear interpolation
// between closest ranks. Returns 0 for an empty slice.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// MaxMin returns the maximum and minimum of xs, or (0, 0) for an empty slice.
func MaxMin(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	max, min := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x > max {
			max = x
		}
		if x < min {
			min = x
		}
	}
	return max, min
}

// TailMean is the mean of the last n values (all values when n exceeds the length).
func TailMean(xs []float64, n int) float64 {
	if n <= 0 || len(xs) == 0 {
		return 0
	}
	if n > len(xs) {
		n = len(xs)
	}
	return Mean(xs[len(xs)-n:])
}

// Tail returns the last n values (the whole slice when n exceeds the length).
func Tail(xs []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n > len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}

// ChangePct is the percentage change from first to last, or 0 when first <= 0.
func ChangePct(first, last float64) float64 {
	if first <= 0 {
		return 0
	}
	return (last - first) / first * 100
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}

// Round2 rounds to two decimal places, the display precision for prices and
// indicator values.
func Round2(x float64) float64 { return Round(x, 2) }

// Round4 rounds to four decimal places, used for ratios and model scores.
func Round4(x float64) float64 { return Round(x, 4) }
