package indicator

import "signaldesk/internal/model"

var goldenCloses = []float64{
	100, 101.5, 99.8, 102.3, 103.1, 102.7, 104.2, 105, 104.1, 106.3,
	107.2, 106.8, 108.5, 107.9, 109.4, 110.2, 109.7, 111.3, 112.0, 111.4,
}

// goldenCandles builds bars with high = close+1, low = close-1.25 and a
// cycling volume pattern.
func goldenCandles() []model.Candle {
	out := make([]model.Candle, len(goldenCloses))
	for i, c := range goldenCloses {
		out[i] = model.Candle{
			TS:     int64(i) * 900_000,
			Open:   c,
			High:   c + 1,
			Low:    c - 1.25,
			Close:  c,
			Volume: float64(10 + (i*7)%13),
		}
	}
	return out
}

func series(values ...float64) model.Series {
	return model.NewSeries(0, values)
}
