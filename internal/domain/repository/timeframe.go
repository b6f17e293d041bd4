package repository

// Timeframe selects the analysis window for daily-bar analytics.
type Timeframe string

const (
	TF7d Timeframe = "7d"
	TF1m Timeframe = "1m"
	TF3m Timeframe = "3m"
	TF6m Timeframe = "6m"
	TF1y Timeframe = "1y"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF7d, TF1m, TF3m, TF6m, TF1y:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF1m }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// WindowBars maps a timeframe to its daily-bar window length.
func WindowBars(tf Timeframe) int {
	switch tf {
	case TF7d:
		return 7
	case TF1m:
		return 30
	case TF3m:
		return 90
	case TF6m:
		return 180
	case TF1y:
		return 365
	default:
		return 30
	}
}
