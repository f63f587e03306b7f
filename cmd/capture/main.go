// Command capture snapshots candle history and latest prices for the
// universe into SQLite so signalengine can replay them with source=sqlite.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"signaldesk/config"
	"signaldesk/internal/logger"
	"signaldesk/internal/marketdata/binance"
	"signaldesk/internal/model"
	sqlitestore "signaldesk/internal/store/sqlite"
)

func main() {
	cmd := &cli.Command{
		Name:  "capture",
		Usage: "store candle history and prices for offline replay",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "db", Usage: "SQLite path (overrides sqlite_path)"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "capture:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if db := cmd.String("db"); db != "" {
		cfg.SQLitePath = db
	}
	log, err := logger.Init("capture", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	w, err := sqlitestore.New(sqlitestore.WriterConfig{DBPath: cfg.SQLitePath}, log)
	if err != nil {
		return err
	}
	defer w.Close()

	md := binance.NewProvider(binance.NewClient(cfg.BinanceBaseURL), cfg.Interval, cfg.HistoryLimit)

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for _, symbol := range cfg.Universe {
		g.Go(func() error {
			if err := capture(ctx, md, w, symbol, cfg); err != nil {
				log.Warn("capture failed", zap.String("symbol", symbol), zap.Error(err))
			}
			return nil
		})
	}
	g.Wait()

	log.Info("capture complete", zap.Int("instruments", len(cfg.Universe)), zap.String("db", cfg.SQLitePath))
	return ctx.Err()
}

func capture(ctx context.Context, md model.MarketData, w model.CandleWriter, symbol string, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	candles, err := md.History(ctx, symbol)
	if err != nil {
		return err
	}
	if err := w.WriteCandles(ctx, symbol, cfg.Interval, candles); err != nil {
		return err
	}
	price, err := md.LatestPrice(ctx, symbol)
	if err != nil {
		return err
	}
	return w.WritePrice(ctx, symbol, price, time.Now().UnixMilli())
}
