package stats

import (
	"math"
	"testing"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), tol)
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestStdDev(t *testing.T) {
	// sample variance of 2,4,4,4,5,5,7,9 is 32/7
	assert.InDelta(t, math.Sqrt(32.0/7.0), StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), tol)
	assert.True(t, math.IsNaN(StdDev([]float64{1})))
	assert.Equal(t, 0.0, StdDev([]float64{3, 3, 3}))
}

func TestRollingMean(t *testing.T) {
	t.Run("window 3", func(t *testing.T) {
		assert.Equal(t, []float64{2, 3}, RollingMean([]float64{1, 2, 3, 4}, 3))
	})
	t.Run("window larger than input", func(t *testing.T) {
		assert.Empty(t, RollingMean([]float64{1, 2}, 3))
	})
	t.Run("window equals input", func(t *testing.T) {
		assert.Equal(t, []float64{2}, RollingMean([]float64{1, 2, 3}, 3))
	})
	t.Run("matches sma oracle", func(t *testing.T) {
		xs := []float64{10, 11, 9, 12, 14, 13, 15, 11, 10, 16, 18, 17}
		sma := trend.NewSmaWithPeriod[float64](4)
		want := helper.ChanToSlice(sma.Compute(helper.SliceToChan(xs)))

		got := RollingMean(xs, 4)
		require.Len(t, got, len(xs)-3)
		require.NotEmpty(t, want)

		// compare the aligned tails
		n := min(len(got), len(want))
		for i := 1; i <= n; i++ {
			assert.InDelta(t, want[len(want)-i], got[len(got)-i], 1e-9, "offset from end %d", i)
		}
	})
}

func TestRollingStdDev(t *testing.T) {
	got := RollingStdDev([]float64{1, 2, 3, 4}, 3)
	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, got[0], tol)
	assert.InDelta(t, 1.0, got[1], tol)
}

func TestSkewness(t *testing.T) {
	assert.InDelta(t, 0.0, Skewness([]float64{1, 2, 3, 4, 5}), tol)
	// one large outlier pushes skew positive
	assert.Greater(t, Skewness([]float64{1, 1, 1, 1, 10}), 0.0)
	assert.True(t, math.IsNaN(Skewness([]float64{2, 2, 2, 2})))
	assert.True(t, math.IsNaN(Skewness([]float64{1, 2})))
}

func TestSkewnessKnownValue(t *testing.T) {
	// xs = 1,2,3,10: mean 4, deviations -3,-2,-1,6, ss 50, sd sqrt(50/3)
	xs := []float64{1, 2, 3, 10}
	sd := math.Sqrt(50.0 / 3.0)
	sum := 0.0
	for _, d := range []float64{-3, -2, -1, 6} {
		sum += math.Pow(d/sd, 3)
	}
	want := 4.0 / (3 * 2) * sum
	assert.InDelta(t, want, Skewness(xs), tol)
}

func TestKurtosis(t *testing.T) {
	// uniform-ish data is platykurtic
	assert.Less(t, Kurtosis([]float64{1, 2, 3, 4, 5, 6, 7, 8}), 0.0)
	// heavy tail is leptokurtic
	assert.Greater(t, Kurtosis([]float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 10}), 0.0)
	assert.True(t, math.IsNaN(Kurtosis([]float64{1, 2, 3})))
	assert.True(t, math.IsNaN(Kurtosis([]float64{5, 5, 5, 5, 5})))
}

func TestSign(t *testing.T) {
	assert.Equal(t, 1.0, Sign(0.3))
	assert.Equal(t, -1.0, Sign(-2))
	assert.Equal(t, 0.0, Sign(0))
	assert.Equal(t, 0.0, Sign(math.NaN()))
}
