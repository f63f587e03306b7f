package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"signaldesk/internal/model"
)

func candles(n int, startTS int64) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		c := 100 + float64(i)
		out[i] = model.Candle{TS: startTS + int64(i)*900_000, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 3}
	}
	return out
}

func openPair(t *testing.T, limit int) (*Writer, *Reader) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.db")
	w, err := New(WriterConfig{DBPath: path}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	r, err := NewReader(path, "15m", limit)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return w, r
}

func TestWriteThenReadHistory(t *testing.T) {
	ctx := context.Background()
	w, r := openPair(t, 5)

	require.NoError(t, w.WriteCandles(ctx, "BTCUSDT", "15m", candles(8, 1_000)))
	// other interval and symbol are ignored
	require.NoError(t, w.WriteCandles(ctx, "BTCUSDT", "1h", candles(3, 1_000)))
	require.NoError(t, w.WriteCandles(ctx, "ETHUSDT", "15m", candles(3, 1_000)))

	got, err := r.History(ctx, "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, got, 5)
	// newest five, oldest first
	assert.Equal(t, 103.0, got[0].Close)
	assert.Equal(t, 107.0, got[4].Close)
}

func TestWriteCandles_Upserts(t *testing.T) {
	ctx := context.Background()
	w, r := openPair(t, 10)

	cs := candles(3, 1_000)
	require.NoError(t, w.WriteCandles(ctx, "BTCUSDT", "15m", cs))
	cs[2].Close = 555
	require.NoError(t, w.WriteCandles(ctx, "BTCUSDT", "15m", cs))

	got, err := r.History(ctx, "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 555.0, got[2].Close)
}

func TestHistory_UnknownSymbol(t *testing.T) {
	_, r := openPair(t, 10)
	_, err := r.History(context.Background(), "NOPE")
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestLatestPrice(t *testing.T) {
	ctx := context.Background()
	w, r := openPair(t, 10)

	_, err := r.LatestPrice(ctx, "BTCUSDT")
	assert.ErrorIs(t, err, model.ErrDataUnavailable)

	require.NoError(t, w.WritePrice(ctx, "BTCUSDT", 100.5, 1))
	require.NoError(t, w.WritePrice(ctx, "BTCUSDT", 101.25, 2))

	p, err := r.LatestPrice(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 101.25, p)
}

func TestReaderDB_Pings(t *testing.T) {
	_, r := openPair(t, 10)
	require.NoError(t, r.DB().PingContext(context.Background()))
}
