// Package signalengine runs the periodic refresh cycle: fetch market data
// for every instrument in the universe, evaluate it and hand the cycle
// report to the reporters.
package signalengine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"signaldesk/internal/logger"
	"signaldesk/internal/metrics"
	"signaldesk/internal/model"
	"signaldesk/internal/strategy"
)

// Config controls the refresh loop.
type Config struct {
	Universe        []string
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	Workers         int
}

// Service is the top-level orchestrator for the signal engine.
type Service struct {
	cfg      Config
	md       model.MarketData
	engine   *strategy.Engine
	reporter model.Reporter
	prom     *metrics.Metrics
	health   *metrics.HealthStatus
	log      *zap.Logger

	running atomic.Bool
}

// New creates a Service. reporter, prom and health may be nil.
func New(cfg Config, md model.MarketData, engine *strategy.Engine, reporter model.Reporter,
	prom *metrics.Metrics, health *metrics.HealthStatus, log *zap.Logger) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Service{
		cfg:      cfg,
		md:       md,
		engine:   engine,
		reporter: reporter,
		prom:     prom,
		health:   health,
		log:      log,
	}
}

// Run executes one cycle immediately and then one per RefreshInterval until
// ctx is cancelled. A tick that arrives while a cycle is still running is
// skipped. Run waits for the in-flight cycle before returning.
func (svc *Service) Run(ctx context.Context) error {
	svc.log.Info("signal engine started",
		zap.Int("instruments", len(svc.cfg.Universe)),
		zap.Duration("refresh", svc.cfg.RefreshInterval),
		zap.Int("workers", svc.cfg.Workers),
		zap.String("strategy", svc.engine.Strategy().Name()))

	var wg sync.WaitGroup
	defer wg.Wait()

	start := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.tick(ctx)
		}()
	}

	start()
	ticker := time.NewTicker(svc.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			svc.log.Info("signal engine stopping")
			return nil
		case <-ticker.C:
			start()
		}
	}
}

// tick runs a cycle unless one is already in flight. It reports whether a
// cycle was run.
func (svc *Service) tick(ctx context.Context) bool {
	if !svc.running.CompareAndSwap(false, true) {
		if svc.prom != nil {
			svc.prom.CyclesSkipped.Inc()
		}
		svc.log.Warn("previous cycle still running, tick skipped")
		return false
	}
	defer svc.running.Store(false)

	if _, err := svc.RunCycle(ctx); err != nil {
		svc.log.Warn("cycle interrupted", zap.Error(err))
	}
	return true
}

// RunCycle evaluates the whole universe once. Instruments are processed
// concurrently; the report lists them in universe order. An instrument whose
// history or price fetch fails is skipped for the cycle. The returned error
// is non-nil only if ctx was cancelled.
func (svc *Service) RunCycle(ctx context.Context) (model.CycleReport, error) {
	id := logger.NewCycleID()
	ctx = logger.WithCycleID(ctx, id)
	report := model.CycleReport{ID: id, StartedAt: time.Now().UTC()}

	slots := make([]outcome, len(svc.cfg.Universe))
	var g errgroup.Group
	g.SetLimit(svc.cfg.Workers)
	for i, symbol := range svc.cfg.Universe {
		g.Go(func() error {
			slots[i] = svc.evaluate(ctx, symbol)
			return nil
		})
	}
	g.Wait()

	for _, o := range slots {
		if o.skipped != nil {
			report.Skipped = append(report.Skipped, *o.skipped)
			continue
		}
		report.Reports = append(report.Reports, o.report)
	}
	report.FinishedAt = time.Now().UTC()
	svc.record(ctx, report)

	if svc.reporter != nil {
		if err := svc.reporter.Report(ctx, report); err != nil {
			svc.log.Warn("report delivery failed", append(logger.Fields(ctx), zap.Error(err))...)
		}
	}
	return report, ctx.Err()
}

type outcome struct {
	report  model.InstrumentReport
	skipped *model.SkippedInstrument
}

// stageError tags a fetch failure with the stage that produced it.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// evaluate fetches history and price concurrently, then computes the
// diagnostics record. Both fetches must succeed.
func (svc *Service) evaluate(ctx context.Context, symbol string) outcome {
	var (
		candles []model.Candle
		price   float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candles, err = fetch(gctx, svc, metrics.StageHistory, func(ctx context.Context) ([]model.Candle, error) {
			return svc.md.History(ctx, symbol)
		})
		return err
	})
	g.Go(func() error {
		var err error
		price, err = fetch(gctx, svc, metrics.StagePrice, func(ctx context.Context) (float64, error) {
			return svc.md.LatestPrice(ctx, symbol)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		stage := metrics.StageHistory
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		return svc.skip(ctx, symbol, stage, err)
	}

	diag, err := svc.engine.Evaluate(candles)
	if err != nil {
		return svc.skip(ctx, symbol, metrics.StageEvaluate, err)
	}
	return outcome{report: model.InstrumentReport{
		Symbol:      symbol,
		Diagnostics: diag,
		Price:       price,
	}}
}

func fetch[T any](ctx context.Context, svc *Service, stage string, call func(context.Context) (T, error)) (T, error) {
	if svc.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.cfg.FetchTimeout)
		defer cancel()
	}
	start := time.Now()
	v, err := call(ctx)
	if svc.prom != nil {
		svc.prom.FetchDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return v, &stageError{stage: stage, err: err}
	}
	return v, nil
}

func (svc *Service) skip(ctx context.Context, symbol, stage string, err error) outcome {
	if svc.prom != nil {
		svc.prom.InstrumentErrors.WithLabelValues(stage).Inc()
	}
	svc.log.Warn("instrument skipped",
		append(logger.Fields(ctx),
			zap.String("symbol", symbol),
			zap.String("stage", stage),
			zap.Error(err))...)
	return outcome{skipped: &model.SkippedInstrument{Symbol: symbol, Stage: stage, Reason: err.Error()}}
}

func (svc *Service) record(ctx context.Context, r model.CycleReport) {
	elapsed := r.FinishedAt.Sub(r.StartedAt)
	if svc.prom != nil {
		svc.prom.CyclesTotal.Inc()
		svc.prom.CycleDuration.Observe(elapsed.Seconds())
		svc.prom.LastCycleUnix.Set(float64(r.FinishedAt.Unix()))
		for _, ir := range r.Reports {
			svc.prom.DecisionsTotal.WithLabelValues(string(ir.Diagnostics.Action)).Inc()
		}
	}
	if svc.health != nil {
		svc.health.RecordCycle(r.FinishedAt, len(r.Reports), len(r.Skipped))
	}
	svc.log.Info("cycle complete",
		append(logger.Fields(ctx),
			zap.Int("reported", len(r.Reports)),
			zap.Int("skipped", len(r.Skipped)),
			zap.Int("buy", r.Count(model.ActionBuy)),
			zap.Int("sell", r.Count(model.ActionSell)),
			zap.Duration("elapsed", elapsed))...)
}
