package models

import "time"

// Bar represents one daily OHLCV record for an asset.
// Series are ordered by date ascending, one bar per symbol per day;
// missing days are simply absent, never filled.
type Bar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Asset is a registry entry for a tradable symbol.
type Asset struct {
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name"`
	ListedAt time.Time `json:"listed_at"`
}

// Closes extracts the close column from a series.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume column from a series.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
