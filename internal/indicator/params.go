package indicator

import "math"

// Params names every period and multiplier used by Compute.
type Params struct {
	EMAFast         int     `yaml:"ema_fast" validate:"gt=0"`
	EMASlow         int     `yaml:"ema_slow" validate:"gt=0"`
	RSIPeriod       int     `yaml:"rsi_period" validate:"gt=0"`
	MACDFast        int     `yaml:"macd_fast" validate:"gt=0"`
	MACDSlow        int     `yaml:"macd_slow" validate:"gt=0"`
	MACDSignal      int     `yaml:"macd_signal" validate:"gt=0"`
	BollingerPeriod int     `yaml:"bollinger_period" validate:"gt=1"`
	BollingerK      float64 `yaml:"bollinger_k" validate:"gt=0"`
	ATRPeriod       int     `yaml:"atr_period" validate:"gt=0"`
	VolWindow       int     `yaml:"vol_window" validate:"gt=1"`
	VolLookback     int     `yaml:"vol_lookback" validate:"gt=0"`
	// PeriodsPerYear annualizes realized volatility: sqrt(PeriodsPerYear).
	PeriodsPerYear float64 `yaml:"periods_per_year" validate:"gt=0"`
}

// DefaultParams returns the parameter set for 15-minute candles.
func DefaultParams() Params {
	return Params{
		EMAFast:         16,
		EMASlow:         37,
		RSIPeriod:       16,
		MACDFast:        14,
		MACDSlow:        30,
		MACDSignal:      10,
		BollingerPeriod: 16,
		BollingerK:      2,
		ATRPeriod:       16,
		VolWindow:       16,
		VolLookback:     4,
		PeriodsPerYear:  252 * 24 * 4,
	}
}

// Annualization returns the realized-volatility scale factor.
func (p Params) Annualization() float64 {
	return math.Sqrt(p.PeriodsPerYear)
}
