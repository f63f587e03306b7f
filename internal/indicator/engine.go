package indicator

import "signaldesk/internal/model"

// Set holds every indicator series computed for one candle window.
type Set struct {
	Candles     []model.Candle
	Closes      model.Series
	LogReturns  model.Series
	RealizedVol model.Series
	VolChange   model.Series
	EMAFast     model.Series
	EMASlow     model.Series
	RSI         model.Series
	MACD        model.Series
	MACDSignal  model.Series
	Bands       Bands
	BandWidth   model.Series
	VWAP        model.Series
	ATR         model.Series
}

// LastClose returns the close of the newest candle.
func (s *Set) LastClose() (float64, bool) {
	return s.Closes.Latest()
}

// Compute derives every indicator for a time-ordered candle window.
// It is a pure function of its inputs; short windows produce empty series.
func Compute(candles []model.Candle, p Params) *Set {
	closes := Closes(candles)
	logRets := LogReturns(closes)
	rv := RealizedVolatility(logRets, p.VolWindow, p.Annualization())
	line, sig := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	bands := Bollinger(closes, p.BollingerPeriod, p.BollingerK)

	return &Set{
		Candles:     candles,
		Closes:      closes,
		LogReturns:  logRets,
		RealizedVol: rv,
		VolChange:   SignChange(rv, p.VolLookback),
		EMAFast:     EMASeries(closes, p.EMAFast),
		EMASlow:     EMASeries(closes, p.EMASlow),
		RSI:         RSISeries(closes, p.RSIPeriod),
		MACD:        line,
		MACDSignal:  sig,
		Bands:       bands,
		BandWidth:   BandWidth(bands),
		VWAP:        VWAPSeries(candles),
		ATR:         ATR(candles, p.ATRPeriod),
	}
}
