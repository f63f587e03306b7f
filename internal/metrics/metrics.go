// Package metrics exposes Prometheus instruments and the /healthz handler for
// the signal services.
package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Fetch stages, used as the "stage" label.
const (
	StageHistory  = "history"
	StagePrice    = "price"
	StageEvaluate = "evaluate"
)

// Metrics holds all Prometheus metrics for the signal engine and gateway.
type Metrics struct {
	CyclesTotal   prometheus.Counter
	CyclesSkipped prometheus.Counter
	CycleDuration prometheus.Histogram
	LastCycleUnix prometheus.Gauge

	FetchDuration    *prometheus.HistogramVec // labels: stage
	InstrumentErrors *prometheus.CounterVec   // labels: stage
	DecisionsTotal   *prometheus.CounterVec   // labels: action

	// Report fan-out backpressure
	ReportDrops *prometheus.CounterVec // labels: subscriber

	// Redis publisher circuit breaker
	RedisCircuitBreakerState prometheus.Gauge // 0=closed, 1=open, 2=half-open
	RedisCircuitBreakerTrips prometheus.Counter

	// Gateway
	GatewayClients prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signaldesk_cycles_total",
			Help: "Refresh cycles completed",
		}),
		CyclesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signaldesk_cycles_skipped_total",
			Help: "Ticks skipped because the previous cycle was still running",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signaldesk_cycle_duration_seconds",
			Help:    "Wall time of one refresh cycle across the universe",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastCycleUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_last_cycle_timestamp_seconds",
			Help: "Unix time the last cycle finished",
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signaldesk_fetch_duration_seconds",
			Help:    "Market-data fetch latency per instrument",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		InstrumentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_instrument_errors_total",
			Help: "Instruments skipped for a cycle, by failing stage",
		}, []string{"stage"}),
		DecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_decisions_total",
			Help: "Decisions emitted, by action",
		}, []string{"action"}),
		ReportDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_report_drops_total",
			Help: "Cycle reports dropped by the fan-out bus per subscriber",
		}, []string{"subscriber"}),
		RedisCircuitBreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_redis_circuit_breaker_state",
			Help: "Redis circuit breaker state (0=closed, 1=open, 2=half-open)",
		}),
		RedisCircuitBreakerTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signaldesk_redis_circuit_breaker_trips_total",
			Help: "Times the Redis circuit breaker tripped open",
		}),
		GatewayClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_gateway_clients",
			Help: "Connected WebSocket clients",
		}),
	}

	reg.MustRegister(
		m.CyclesTotal,
		m.CyclesSkipped,
		m.CycleDuration,
		m.LastCycleUnix,
		m.FetchDuration,
		m.InstrumentErrors,
		m.DecisionsTotal,
		m.ReportDrops,
		m.RedisCircuitBreakerState,
		m.RedisCircuitBreakerTrips,
		m.GatewayClients,
	)

	return m
}

// HealthStatus represents the system health.
type HealthStatus struct {
	mu sync.RWMutex

	staleAfter time.Duration

	LastCycleAt    time.Time `json:"last_cycle_at"`
	LastCycleOK    int       `json:"last_cycle_ok"`
	LastCycleError int       `json:"last_cycle_errors"`
	RedisConnected bool      `json:"redis_connected"`
	SQLiteOK       bool      `json:"sqlite_ok"`

	// Liveness check results
	RedisLatencyMs  float64   `json:"redis_latency_ms"`
	SQLiteLatencyMs float64   `json:"sqlite_latency_ms"`
	LastCheckAt     time.Time `json:"last_check_at"`
	StartedAt       time.Time `json:"started_at"`
}

// NewHealthStatus returns a health status that reports degraded when no
// cycle has finished within staleAfter.
func NewHealthStatus(staleAfter time.Duration) *HealthStatus {
	return &HealthStatus{
		staleAfter: staleAfter,
		StartedAt:  time.Now(),
	}
}

// RecordCycle stores the outcome of a finished cycle.
func (h *HealthStatus) RecordCycle(at time.Time, ok, failed int) {
	h.mu.Lock()
	h.LastCycleAt = at
	h.LastCycleOK = ok
	h.LastCycleError = failed
	h.mu.Unlock()
}

func (h *HealthStatus) SetRedisConnected(v bool) {
	h.mu.Lock()
	h.RedisConnected = v
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// CheckSQLite pings the database and records latency + health.
func (h *HealthStatus) CheckSQLite(ctx context.Context, db *sql.DB) {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start)

	h.mu.Lock()
	h.SQLiteOK = err == nil
	h.SQLiteLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartLivenessChecker runs periodic dependency checks. Nil clients are skipped.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, sqlDB *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				if rdb != nil {
					h.CheckRedis(checkCtx, rdb)
				}
				if sqlDB != nil {
					h.CheckSQLite(checkCtx, sqlDB)
				}
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overallStatus := "healthy"
	httpCode := http.StatusOK

	cycleAge := ""
	switch {
	case h.LastCycleAt.IsZero():
		overallStatus = "starting"
		httpCode = http.StatusServiceUnavailable
	case h.staleAfter > 0 && time.Since(h.LastCycleAt) > h.staleAfter:
		overallStatus = "degraded"
		httpCode = http.StatusServiceUnavailable
	case h.LastCycleOK == 0 && h.LastCycleError > 0:
		overallStatus = "unhealthy"
		httpCode = http.StatusServiceUnavailable
	}
	if !h.LastCycleAt.IsZero() {
		cycleAge = time.Since(h.LastCycleAt).Round(time.Millisecond).String()
	}

	status := struct {
		Status          string  `json:"status"`
		Uptime          string  `json:"uptime"`
		LastCycleAt     string  `json:"last_cycle_at"`
		CycleAge        string  `json:"cycle_age"`
		InstrumentsOK   int     `json:"instruments_ok"`
		InstrumentsErr  int     `json:"instruments_failed"`
		RedisConnected  bool    `json:"redis_connected"`
		RedisLatencyMs  float64 `json:"redis_latency_ms"`
		SQLiteOK        bool    `json:"sqlite_ok"`
		SQLiteLatencyMs float64 `json:"sqlite_latency_ms"`
		LastCheckAt     string  `json:"last_check_at"`
	}{
		Status:          overallStatus,
		Uptime:          time.Since(h.StartedAt).Round(time.Second).String(),
		LastCycleAt:     h.LastCycleAt.Format(time.RFC3339),
		CycleAge:        cycleAge,
		InstrumentsOK:   h.LastCycleOK,
		InstrumentsErr:  h.LastCycleError,
		RedisConnected:  h.RedisConnected,
		RedisLatencyMs:  h.RedisLatencyMs,
		SQLiteOK:        h.SQLiteOK,
		SQLiteLatencyMs: h.SQLiteLatencyMs,
		LastCheckAt:     h.LastCheckAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
	log  *zap.Logger
}

// NewServer creates a metrics and health server backed by gatherer.
func NewServer(addr string, health *HealthStatus, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", health)

	return &Server{
		addr: addr,
		log:  log,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info("metrics server listening", zap.String("addr", s.addr))
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("metrics server error", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
