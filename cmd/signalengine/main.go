// Command signalengine refreshes BUY/SELL/WAIT signals for the configured
// universe on a fixed period and fans each cycle out to the terminal table,
// Redis and alert channels.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"signaldesk/config"
	"signaldesk/internal/bus"
	"signaldesk/internal/logger"
	"signaldesk/internal/marketdata/binance"
	"signaldesk/internal/metrics"
	"signaldesk/internal/model"
	"signaldesk/internal/notification"
	"signaldesk/internal/portfolio"
	"signaldesk/internal/report"
	"signaldesk/internal/signalengine"
	redisstore "signaldesk/internal/store/redis"
	sqlitestore "signaldesk/internal/store/sqlite"
	"signaldesk/internal/strategy"
)

func main() {
	cmd := &cli.Command{
		Name:  "signalengine",
		Usage: "compute trading signals for a universe of instruments",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.BoolFlag{Name: "once", Usage: "run a single cycle and exit"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "do not print the signal table"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "signalengine:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	log, err := logger.Init("signalengine", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	reg := prometheus.NewRegistry()
	prom := metrics.New(reg)
	health := metrics.NewHealthStatus(3 * cfg.RefreshInterval)

	md, closeMD, err := openMarketData(cfg, log)
	if err != nil {
		return err
	}
	defer closeMD()

	fan := bus.New(4, log)
	fan.OnDrop = func(name string) { prom.ReportDrops.WithLabelValues(name).Inc() }

	if !cmd.Bool("quiet") {
		fan.Attach(ctx, "table", report.NewTableReporter(os.Stdout))
	}

	var redisWriter *redisstore.Writer
	if cfg.RedisAddr != "" {
		redisWriter, err = redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Channel:  cfg.SignalChannel,
		}, log)
		if err != nil {
			log.Warn("redis unavailable, publishing disabled", zap.Error(err))
		} else {
			defer redisWriter.Close()
			redisWriter.Breaker().OnStateChange = func(from, to redisstore.State) {
				prom.RedisCircuitBreakerState.Set(float64(to))
				if to == redisstore.StateOpen {
					prom.RedisCircuitBreakerTrips.Inc()
				}
			}
			health.SetRedisConnected(true)
			fan.Attach(ctx, "redis", redisWriter)
		}
	}

	notifiers := []notification.Notifier{notification.NewLogNotifier(log)}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notification.NewWebhookNotifier(cfg.WebhookURL, log))
	}
	if cfg.TelegramToken != "" {
		tg, err := notification.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, "")
		if err != nil {
			log.Warn("telegram alerts disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	fan.Attach(ctx, "alerts", notification.NewAlertReporter(notifiers...))
	defer fan.Close()

	engine := strategy.NewEngine(cfg.Strategy, portfolio.NewSizer(cfg.Risk))
	svc := signalengine.New(signalengine.Config{
		Universe:        cfg.Universe,
		RefreshInterval: cfg.RefreshInterval,
		FetchTimeout:    cfg.FetchTimeout,
		Workers:         cfg.Workers,
	}, md, engine, fan, prom, health, log)

	if cmd.Bool("once") {
		_, err := svc.RunCycle(ctx)
		return err
	}

	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, health, reg, log)
		srv.Start()
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			srv.Stop(shutCtx)
		}()
	}
	var (
		rdb   *goredis.Client
		sqlDB *sql.DB
	)
	if redisWriter != nil {
		rdb = redisWriter.Client()
	}
	if r, ok := md.(*sqlitestore.Reader); ok {
		sqlDB = r.DB()
		health.CheckSQLite(ctx, sqlDB)
	}
	if rdb != nil || sqlDB != nil {
		health.StartLivenessChecker(ctx, rdb, sqlDB, 15*time.Second)
	}

	return svc.Run(ctx)
}

// openMarketData selects the live Binance adapter or the captured SQLite
// store.
func openMarketData(cfg config.Config, log *zap.Logger) (model.MarketData, func(), error) {
	switch cfg.Source {
	case config.SourceSQLite:
		r, err := sqlitestore.NewReader(cfg.SQLitePath, cfg.Interval, cfg.HistoryLimit)
		if err != nil {
			return nil, nil, err
		}
		log.Info("market data from sqlite", zap.String("path", cfg.SQLitePath))
		return r, func() { r.Close() }, nil
	default:
		client := binance.NewClient(cfg.BinanceBaseURL)
		log.Info("market data from binance", zap.String("interval", cfg.Interval), zap.Int("limit", cfg.HistoryLimit))
		return binance.NewProvider(client, cfg.Interval, cfg.HistoryLimit), func() {}, nil
	}
}
