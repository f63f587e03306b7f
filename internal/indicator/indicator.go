// Package indicator provides technical indicator calculations over candle data.
//
// Streaming indicators implement the Indicator interface and are fed one value
// at a time. The batch functions in series.go drive them over a full candle
// window and return offset-aligned model.Series values.
package indicator

// Indicator is the interface for streaming scalar indicators.
type Indicator interface {
	// Name returns the indicator name (e.g., "EMA", "RSI").
	Name() string

	// Update feeds the next input value and recalculates.
	Update(value float64)

	// Value returns the current calculated value. Returns NaN if not enough data.
	Value() float64

	// Ready returns true when enough data has been accumulated.
	Ready() bool
}
