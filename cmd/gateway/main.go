// Command gateway serves the latest signals published by signalengine over
// REST and WebSocket.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"signaldesk/config"
	"signaldesk/internal/gateway"
	"signaldesk/internal/logger"
	"signaldesk/internal/metrics"
	redisstore "signaldesk/internal/store/redis"
)

func main() {
	cmd := &cli.Command{
		Name:  "gateway",
		Usage: "serve published signals over REST and WebSocket",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides gateway_addr)"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gateway:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.GatewayAddr = addr
	}
	if cfg.RedisAddr == "" {
		return errors.New("gateway requires redis_addr")
	}

	log, err := logger.Init("gateway", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	reg := prometheus.NewRegistry()
	prom := metrics.New(reg)
	health := metrics.NewHealthStatus(3 * cfg.RefreshInterval)

	reader, err := redisstore.NewReader(redisstore.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		Channel:  cfg.SignalChannel,
	}, log)
	if err != nil {
		return err
	}
	defer reader.Close()
	health.SetRedisConnected(true)
	health.StartLivenessChecker(ctx, reader.Client(), nil, 15*time.Second)

	hub := gateway.NewHub(prom.GatewayClients, log)
	hub.SetRecorder(health)
	if latest, err := reader.Latest(ctx); err == nil {
		hub.Report(ctx, latest)
	}
	go func() {
		if err := hub.Run(ctx, reader); err != nil {
			log.Error("report subscription ended", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	gateway.RegisterRoutes(mux, hub, reader, health, log)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.GatewayAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	log.Info("gateway listening", zap.String("addr", cfg.GatewayAddr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
