package indicators

import (
	"math"

	"CoinPulse/internal/domain/models"
)

// Close-series indicators. Every function computes the latest value using only
// values at or before the last element; callers guarantee series length via the
// strategy's minimum-bars check, and short inputs yield 0.

// SMA returns the simple moving average of the last `period` values.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMASeries returns the exponential moving average series seeded with the SMA
// of the first `period` values, multiplier 2/(period+1). The result is aligned
// to values[period-1:].
func EMASeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	mult := 2.0 / float64(period+1)

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)
	prev := seed
	for _, v := range values[period:] {
		prev = (v-prev)*mult + prev
		out = append(out, prev)
	}
	return out
}

// EMA returns the latest exponential moving average value.
func EMA(values []float64, period int) float64 {
	s := EMASeries(values, period)
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// WMA returns the latest linearly weighted moving average, weights 1..period.
func WMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	window := values[len(values)-period:]
	num, den := 0.0, 0.0
	for i, v := range window {
		w := float64(i + 1)
		num += v * w
		den += w
	}
	return num / den
}

// wmaSeries returns the WMA at every index from period-1 onward.
func wmaSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	for i := period; i <= len(values); i++ {
		out = append(out, WMA(values[:i], period))
	}
	return out
}

// HMA returns the latest Hull moving average:
// WMA(2*WMA(period/2) - WMA(period), sqrt(period)).
func HMA(values []float64, period int) float64 {
	if period < 2 {
		return 0
	}
	half := period / 2
	sqrtP := int(math.Sqrt(float64(period)))
	if sqrtP < 1 {
		sqrtP = 1
	}

	full := wmaSeries(values, period)
	halfS := wmaSeries(values, half)
	if len(full) == 0 || len(halfS) < len(full) || len(full) < sqrtP {
		return 0
	}
	halfS = halfS[len(halfS)-len(full):]

	diff := make([]float64, len(full))
	for i := range full {
		diff[i] = 2*halfS[i] - full[i]
	}
	return WMA(diff, sqrtP)
}

// RSI returns the latest relative strength index with Wilder smoothing.
// Requires period+1 values; values below that yield 0.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 0
	}

	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the latest MACD line, signal line and histogram for the given
// fast/slow/signal periods. Requires slow+signalPeriod-1 values.
func MACD(closes []float64, fast, slow, signalPeriod int) (line, signal, hist float64) {
	if fast <= 0 || slow < fast || signalPeriod <= 0 || len(closes) < slow+signalPeriod-1 {
		return 0, 0, 0
	}

	fastS := EMASeries(closes, fast)
	slowS := EMASeries(closes, slow)
	if len(slowS) == 0 || len(fastS) < len(slowS) {
		return 0, 0, 0
	}
	fastS = fastS[len(fastS)-len(slowS):]

	macdLine := make([]float64, len(slowS))
	for i := range slowS {
		macdLine[i] = fastS[i] - slowS[i]
	}

	signalS := EMASeries(macdLine, signalPeriod)
	if len(signalS) == 0 {
		return 0, 0, 0
	}
	line = macdLine[len(macdLine)-1]
	signal = signalS[len(signalS)-1]
	return line, signal, line - signal
}

// TypicalPrices extracts (high+low+close)/3 per bar.
func TypicalPrices(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = (b.High + b.Low + b.Close) / 3
	}
	return out
}

// VWAP returns the volume weighted average price over the given bars.
// Zero total volume yields the mean typical price.
func VWAP(bars []models.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	num, den := 0.0, 0.0
	for _, b := range bars {
		tp := (b.High + b.Low + b.Close) / 3
		num += tp * b.Volume
		den += b.Volume
	}
	if den == 0 {
		sum := 0.0
		for _, b := range bars {
			sum += (b.High + b.Low + b.Close) / 3
		}
		return sum / float64(len(bars))
	}
	return num / den
}

// Stochastic returns the latest raw %K over `period` bars and %D as the mean
// of the last `smooth` raw %K values. A flat high/low range yields a neutral 50.
func Stochastic(bars []models.Bar, period, smooth int) (k, d float64) {
	if period <= 0 || len(bars) < period {
		return 0, 0
	}
	rawK := func(upto int) float64 {
		window := bars[upto-period : upto]
		hh, ll := window[0].High, window[0].Low
		for _, b := range window[1:] {
			if b.High > hh {
				hh = b.High
			}
			if b.Low < ll {
				ll = b.Low
			}
		}
		if hh == ll {
			return 50
		}
		return (bars[upto-1].Close - ll) / (hh - ll) * 100
	}

	k = rawK(len(bars))
	if smooth <= 1 || len(bars) < period+smooth-1 {
		return k, k
	}
	sum := 0.0
	for j := 0; j < smooth; j++ {
		sum += rawK(len(bars) - j)
	}
	return k, sum / float64(smooth)
}

// CCI returns the latest commodity channel index over `period` bars.
// Zero mean deviation yields 0.
func CCI(bars []models.Bar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}
	tps := TypicalPrices(bars[len(bars)-period:])
	sma := 0.0
	for _, tp := range tps {
		sma += tp
	}
	sma /= float64(period)

	mad := 0.0
	for _, tp := range tps {
		mad += math.Abs(tp - sma)
	}
	mad /= float64(period)
	if mad == 0 {
		return 0
	}
	return (tps[len(tps)-1] - sma) / (0.015 * mad)
}

// MFI returns the latest money flow index over `period` flows.
// Requires period+1 bars; all-positive flow yields 100.
func MFI(bars []models.Bar, period int) float64 {
	if period <= 0 || len(bars) < period+1 {
		return 0
	}
	window := bars[len(bars)-period-1:]
	tps := TypicalPrices(window)

	pos, neg := 0.0, 0.0
	for i := 1; i < len(tps); i++ {
		flow := tps[i] * window[i].Volume
		if tps[i] > tps[i-1] {
			pos += flow
		} else if tps[i] < tps[i-1] {
			neg += flow
		}
	}
	if neg == 0 {
		return 100
	}
	return 100 - 100/(1+pos/neg)
}
