package model

import (
	"encoding/json"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Action is the discrete recommendation for an instrument.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionWait Action = "WAIT"
)

// Trend compares the fast and slow EMA.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
)

// Momentum compares the MACD line with its signal line.
type Momentum string

const (
	MomentumBullish Momentum = "Bullish"
	MomentumBearish Momentum = "Bearish"
	MomentumNeutral Momentum = "Neutral"
)

// VWAPStatus places the last close relative to VWAP.
type VWAPStatus string

const (
	VWAPAbove VWAPStatus = "Above"
	VWAPBelow VWAPStatus = "Below"
)

// Direction labels the sign of a change series.
type Direction string

const (
	DirectionUp      Direction = "Up"
	DirectionDown    Direction = "Down"
	DirectionNeutral Direction = "Neutral"
)

// DirectionOf maps a sign value (-1, 0, 1) to its label.
func DirectionOf(sign float64) Direction {
	switch {
	case sign > 0:
		return DirectionUp
	case sign < 0:
		return DirectionDown
	default:
		return DirectionNeutral
	}
}

// Diagnostics is the per-instrument record produced each cycle.
type Diagnostics struct {
	Action                Action                   `json:"action"`
	JBSafe                bool                     `json:"jb_safe"`
	VolatilityCompression bool                     `json:"volatility_compression"`
	Trend                 Trend                    `json:"trend"`
	RSI                   optional.Option[float64] `json:"rsi"`
	Momentum              Momentum                 `json:"macd_status"`
	VWAPStatus            VWAPStatus               `json:"vwap_status"`
	VolatilityChange      Direction                `json:"volatility_change"`
	JBTrend               Direction                `json:"jb_change"`
	PositionSize          decimal.Decimal          `json:"position_size"`
	LastClose             float64                  `json:"last_close"`
	CandleTS              int64                    `json:"candle_ts"`
}

type diagnosticsJSON Diagnostics

// MarshalJSON encodes PositionSize with exactly two decimals.
func (d Diagnostics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		diagnosticsJSON
		PositionSize string `json:"position_size"`
	}{diagnosticsJSON(d), d.PositionSize.StringFixed(2)})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (d *Diagnostics) UnmarshalJSON(b []byte) error {
	var aux struct {
		*diagnosticsJSON
		PositionSize decimal.Decimal `json:"position_size"`
	}
	aux.diagnosticsJSON = (*diagnosticsJSON)(d)
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.PositionSize = aux.PositionSize
	return nil
}
