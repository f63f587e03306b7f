package indicator

import (
	"math"

	"signaldesk/internal/model"
	"signaldesk/internal/stats"
)

// Closes wraps the close prices of a candle window as a series at offset 0.
func Closes(candles []model.Candle) model.Series {
	return model.NewSeries(0, model.Closes(candles))
}

// LogReturns returns ln(c[i]/c[i-1]) aligned to candle index 1.
func LogReturns(closes model.Series) model.Series {
	n := closes.Len()
	if n < 2 {
		return model.NewSeries(closes.Offset+1, nil)
	}
	out := make([]float64, n-1)
	for i := 1; i < n; i++ {
		out[i-1] = math.Log(closes.Values[i] / closes.Values[i-1])
	}
	return model.NewSeries(closes.Offset+1, out)
}

// RealizedVolatility is the rolling sample standard deviation of log returns
// over window candles, scaled by annualization.
func RealizedVolatility(logRets model.Series, window int, annualization float64) model.Series {
	sd := stats.RollingStdDev(logRets.Values, window)
	for i := range sd {
		sd[i] *= annualization
	}
	return model.NewSeries(logRets.Offset+window-1, sd)
}

// SignChange returns sign(s[i] - s[i-lookback]) for every i >= lookback.
// Unavailable operands produce 0.
func SignChange(s model.Series, lookback int) model.Series {
	n := s.Len()
	if lookback <= 0 || n <= lookback {
		return model.NewSeries(s.Offset+lookback, nil)
	}
	out := make([]float64, n-lookback)
	for i := lookback; i < n; i++ {
		out[i-lookback] = stats.Sign(s.Values[i] - s.Values[i-lookback])
	}
	return model.NewSeries(s.Offset+lookback, out)
}

// EMASeries runs an EMA over s, keeping its alignment.
func EMASeries(s model.Series, span int) model.Series {
	return drive(NewEMA(span), s, 0)
}

// RSISeries returns Wilder's RSI over closes. The first value is at candle
// index closes.Offset+period.
func RSISeries(closes model.Series, period int) model.Series {
	return drive(NewRSI(period), closes, period)
}

// drive feeds every value of s into ind and collects the outputs that follow
// the indicator's warm-up of skip inputs.
func drive(ind Indicator, s model.Series, skip int) model.Series {
	out := make([]float64, 0, max(s.Len()-skip, 0))
	for i, v := range s.Values {
		ind.Update(v)
		if i >= skip && ind.Ready() {
			out = append(out, ind.Value())
		}
	}
	return model.NewSeries(s.Offset+skip, out)
}

// MACD returns the MACD line (EMA fast minus EMA slow) and its signal line.
func MACD(closes model.Series, fast, slow, signal int) (line, sig model.Series) {
	f := EMASeries(closes, fast)
	s := EMASeries(closes, slow)
	vals := make([]float64, f.Len())
	for i := range vals {
		vals[i] = f.Values[i] - s.Values[i]
	}
	line = model.NewSeries(closes.Offset, vals)
	return line, EMASeries(line, signal)
}

// Bands holds Bollinger upper, middle and lower series, all sharing one offset.
type Bands struct {
	Upper  model.Series
	Middle model.Series
	Lower  model.Series
}

// Bollinger computes bands of k sample standard deviations around the
// rolling mean of period closes.
func Bollinger(closes model.Series, period int, k float64) Bands {
	mean := stats.RollingMean(closes.Values, period)
	sd := stats.RollingStdDev(closes.Values, period)
	upper := make([]float64, len(mean))
	lower := make([]float64, len(mean))
	for i := range mean {
		upper[i] = mean[i] + k*sd[i]
		lower[i] = mean[i] - k*sd[i]
	}
	off := closes.Offset + period - 1
	return Bands{
		Upper:  model.NewSeries(off, upper),
		Middle: model.NewSeries(off, mean),
		Lower:  model.NewSeries(off, lower),
	}
}

// BandWidth returns (upper-lower)/middle. A zero middle band yields NaN.
func BandWidth(b Bands) model.Series {
	out := make([]float64, b.Middle.Len())
	for i, m := range b.Middle.Values {
		if m == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (b.Upper.Values[i] - b.Lower.Values[i]) / m
	}
	return model.NewSeries(b.Middle.Offset, out)
}

// VWAPSeries returns the cumulative VWAP at every candle of the window.
func VWAPSeries(candles []model.Candle) model.Series {
	v := NewVWAP()
	out := make([]float64, len(candles))
	for i, c := range candles {
		v.Update(c)
		out[i] = v.Value()
	}
	return model.NewSeries(0, out)
}

// TrueRange returns max(h-l, |h-prevClose|, |l-prevClose|) from candle index 1.
func TrueRange(candles []model.Candle) model.Series {
	if len(candles) < 2 {
		return model.NewSeries(1, nil)
	}
	out := make([]float64, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		c, prev := candles[i], candles[i-1].Close
		out[i-1] = math.Max(c.High-c.Low, math.Max(math.Abs(c.High-prev), math.Abs(c.Low-prev)))
	}
	return model.NewSeries(1, out)
}

// ATR is the simple rolling mean of the true range over period candles.
func ATR(candles []model.Candle, period int) model.Series {
	tr := TrueRange(candles)
	return model.NewSeries(tr.Offset+period-1, stats.RollingMean(tr.Values, period))
}
