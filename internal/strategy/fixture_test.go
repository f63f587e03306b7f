package strategy

import "signaldesk/internal/model"

// squeezeUpCloses drifts upward through a tight range with a few large
// jumps, so the returns are heavy tailed and the last bar is a buy setup.
var squeezeUpCloses = []float64{
	100.00, 99.67, 99.81, 100.33, 100.40, 99.93, 99.79, 99.71, 99.34, 99.40,
	99.64, 99.11, 98.79, 99.11, 99.36, 99.26, 99.39, 99.30, 100.06, 100.21,
	100.17, 100.64, 100.75, 100.63, 100.56, 100.62, 100.72, 100.94, 101.01, 100.71,
	100.95, 100.78, 100.71, 101.24, 101.46, 101.36, 102.70, 102.48, 101.59, 102.01,
	102.16, 102.24, 102.12, 101.79, 101.62, 101.60, 101.62, 101.42, 101.58, 102.11,
	102.46, 103.20, 103.36, 103.33, 103.09, 103.26, 104.33, 104.62, 104.37, 104.59,
	104.38, 104.88, 105.79, 105.98, 106.04, 105.29, 104.67, 104.52, 104.49, 104.49,
	104.40, 104.48, 104.14, 104.04, 103.42, 103.57, 103.69, 103.62, 103.55, 103.85,
	103.92, 103.78, 103.99, 106.20, 106.04, 105.24, 105.09, 104.81, 104.77, 105.31,
	105.73, 105.69, 105.64, 105.90, 105.75, 102.00, 101.47, 101.39, 101.52, 101.63,
	101.81, 101.77, 101.80, 101.86, 101.86, 103.07, 102.95, 102.83, 103.12, 103.20,
	103.44, 103.87, 103.86, 103.53, 103.53, 103.56, 104.09, 104.22, 104.24, 104.57,
	104.73, 104.81, 105.00, 105.39, 104.40, 105.19, 104.89, 105.23, 105.48, 105.16,
	105.23, 105.36, 105.72, 105.38, 105.25, 105.19, 105.46, 105.37, 104.85, 104.67,
	105.09, 105.62, 105.24, 105.25, 105.37, 105.66, 105.45, 106.02, 106.44, 106.54,
}

// squeezeDownCloses is the matching sell setup.
var squeezeDownCloses = []float64{
	100.00, 100.16, 99.86, 100.33, 100.00, 100.01, 100.84, 100.78, 100.42, 100.45,
	100.86, 101.39, 101.53, 101.35, 102.22, 102.50, 101.87, 101.76, 101.93, 101.88,
	101.76, 101.43, 101.28, 100.73, 100.77, 100.86, 100.88, 101.17, 101.63, 101.71,
	101.68, 101.23, 100.84, 97.30, 97.14, 97.42, 96.44, 96.60, 96.49, 96.50,
	96.19, 96.07, 95.60, 95.26, 95.13, 95.07, 94.67, 95.02, 94.46, 93.93,
	93.70, 93.87, 93.80, 93.86, 94.11, 94.03, 93.55, 94.13, 94.03, 90.03,
	89.67, 89.33, 89.47, 89.16, 88.83, 88.17, 88.42, 89.00, 89.00, 88.80,
	89.18, 89.38, 89.44, 89.68, 89.96, 90.02, 89.97, 89.98, 90.18, 89.93,
	89.82, 89.40, 89.67, 90.24, 90.25, 90.04, 92.70, 92.31, 92.60, 92.16,
	92.44, 92.17, 91.92, 92.01, 91.44, 91.47, 91.06, 91.23, 91.94, 92.50,
	92.74, 92.74, 92.77, 92.15, 91.88, 92.03, 91.80, 92.01, 91.63, 91.23,
	91.21, 91.29, 91.28, 91.00, 90.53, 89.89, 89.88, 90.06, 90.22, 90.05,
	90.29, 90.71, 91.07, 91.83, 92.52, 91.96, 91.80, 92.26, 92.74, 92.92,
	92.35, 92.03, 92.86, 92.66, 91.86, 91.97, 92.33, 91.81, 91.27, 90.72,
	90.35, 89.62, 89.54, 89.22, 89.55, 89.81, 90.25, 90.19, 90.40, 90.27,
}

// closeCandles builds 15-minute bars half a unit either side of each close
// with constant volume.
func closeCandles(closes []float64) []model.Candle {
	out := make([]model.Candle, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		out[i] = model.Candle{
			TS:     1_700_000_000_000 + int64(i)*900_000,
			Open:   open,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 10,
		}
	}
	return out
}

// mirrored reflects closes around 100.
func mirrored(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i, c := range closes {
		out[i] = 200 - c
	}
	return out
}
