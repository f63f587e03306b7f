// Package portfolio sizes positions from account risk limits and the
// instrument's recent volatility.
package portfolio

import (
	"math"

	"github.com/shopspring/decimal"
)

// RiskLimits defines configurable sizing thresholds.
type RiskLimits struct {
	AccountSize     float64 `yaml:"account_size" json:"account_size" validate:"gt=0"`
	RiskPercentage  float64 `yaml:"risk_percentage" json:"risk_percentage" validate:"gt=0,lte=100"`
	StopATRMultiple float64 `yaml:"stop_atr_multiple" json:"stop_atr_multiple" validate:"gt=0"`
	MaxAllocation   float64 `yaml:"max_allocation" json:"max_allocation" validate:"gt=0,lte=1"`
}

// DefaultRiskLimits returns the default account: 100,000 with 1% risked per
// trade, a 2xATR stop and at most 10% of the account in one instrument.
func DefaultRiskLimits() RiskLimits {
	return RiskLimits{
		AccountSize:     100000,
		RiskPercentage:  1.0,
		StopATRMultiple: 2,
		MaxAllocation:   0.10,
	}
}

// Sizer converts ATR and price into a suggested position size.
// It is stateless and safe for concurrent use.
type Sizer struct {
	limits RiskLimits
}

// NewSizer creates a Sizer with the given limits.
func NewSizer(limits RiskLimits) *Sizer {
	return &Sizer{limits: limits}
}

// Limits returns the configured limits.
func (s *Sizer) Limits() RiskLimits { return s.limits }

// Size returns min(risk/stop*close, account*maxAllocation/close) rounded to
// two decimals. An unavailable (NaN) ATR gives a zero stop and a zero raw
// size. The result is computed even when no trade is recommended.
func (s *Sizer) Size(atr, lastClose float64) decimal.Decimal {
	if math.IsNaN(lastClose) || lastClose <= 0 {
		return decimal.Zero.Round(2)
	}
	if math.IsNaN(atr) {
		atr = 0
	}
	stop := s.limits.StopATRMultiple * atr
	risk := s.limits.AccountSize * s.limits.RiskPercentage / 100

	raw := 0.0
	if stop > 0 {
		raw = risk / stop * lastClose
	}
	maxSize := s.limits.AccountSize * s.limits.MaxAllocation / lastClose
	return RoundFixed(math.Min(raw, maxSize), 2)
}

// RoundFixed rounds the exact binary value of x half-up to places decimals,
// matching the output of a fixed-point formatter (1.005 -> 1.00).
func RoundFixed(x float64, places int32) decimal.Decimal {
	return decimal.NewFromFloatWithExponent(x, -40).Round(places)
}
