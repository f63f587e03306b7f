// Package gateway serves published cycle reports over REST and WebSocket.
package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"signaldesk/internal/model"
	"signaldesk/internal/ringbuf"
)

const (
	clientBuffer = 16
	historySize  = 64
)

// Hub tracks WebSocket clients and the recent cycle reports. It receives
// reports either from the Redis channel (see Run) or in-process as a
// model.Reporter.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	history *ringbuf.Ring[entry]
	seq     int64

	gauge    prometheus.Gauge
	recorder CycleRecorder
	log      *zap.Logger
}

// CycleRecorder is told about every published cycle, satisfied by
// metrics.HealthStatus.
type CycleRecorder interface {
	RecordCycle(at time.Time, ok, failed int)
}

type entry struct {
	Raw    json.RawMessage
	Report model.CycleReport
	TS     time.Time
	Seq    int64
}

// NewHub creates a Hub. gauge may be nil.
func NewHub(gauge prometheus.Gauge, log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		history: ringbuf.New[entry](historySize),
		gauge:   gauge,
		log:     log,
	}
}

// SetRecorder makes the hub report each published cycle to rec.
func (h *Hub) SetRecorder(rec CycleRecorder) {
	h.mu.Lock()
	h.recorder = rec
	h.mu.Unlock()
}

// Subscriber is the source of published reports, satisfied by the Redis reader.
type Subscriber interface {
	Subscribe(ctx context.Context, fn func(raw []byte, report model.CycleReport)) error
}

// Run forwards every report from sub to the clients. Blocks until ctx is
// cancelled or the subscription fails.
func (h *Hub) Run(ctx context.Context, sub Subscriber) error {
	return sub.Subscribe(ctx, h.Publish)
}

// Report implements model.Reporter.
func (h *Hub) Report(_ context.Context, r model.CycleReport) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	h.Publish(raw, r)
	return nil
}

// Publish records report in the history and broadcasts it to every client.
// Slow clients miss the message rather than block the hub.
func (h *Hub) Publish(raw []byte, report model.CycleReport) {
	now := time.Now().UTC()

	h.mu.Lock()
	h.seq++
	seq := h.seq
	h.history.Push(entry{Raw: raw, Report: report, TS: now, Seq: seq})
	rec := h.recorder
	h.mu.Unlock()

	if rec != nil {
		at := report.FinishedAt
		if at.IsZero() {
			at = now
		}
		rec.RecordCycle(at, len(report.Reports), len(report.Skipped))
	}

	env := buildEnvelope(typeReport, raw, now, seq, false)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- env:
		default:
			h.log.Debug("ws client lagging, report dropped", zap.Int64("seq", seq))
		}
	}
}

// Latest returns the most recent report, if any.
func (h *Hub) Latest(context.Context) (model.CycleReport, error) {
	e, ok := h.history.Newest()
	if !ok {
		return model.CycleReport{}, model.ErrNoReport
	}
	return e.Report, nil
}

// History returns up to n of the most recent reports, newest first.
func (h *Hub) History(n int) []model.CycleReport {
	entries := h.history.Last(n)
	out := make([]model.CycleReport, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e.Report
	}
	return out
}

// Instrument returns the latest report for one symbol.
func (h *Hub) Instrument(ctx context.Context, symbol string) (model.InstrumentReport, error) {
	r, err := h.Latest(ctx)
	if err != nil {
		return model.InstrumentReport{}, err
	}
	ir, ok := r.Lookup(symbol)
	if !ok {
		return model.InstrumentReport{}, model.ErrNoReport
	}
	return ir, nil
}

// Register attaches a WebSocket connection and starts its pumps. The client
// first receives every held report newer than sinceSeq, or only the latest
// one when sinceSeq is zero. Only the last historySize reports are held;
// a client further behind resumes from the oldest one and can detect the
// gap from the seq numbers.
func (h *Hub) Register(conn *websocket.Conn, sinceSeq int64) {
	conn.EnableWriteCompression(true)

	h.mu.Lock()
	backlog := h.backlog(sinceSeq)
	c := &Client{
		conn: conn,
		send: make(chan []byte, clientBuffer+len(backlog)),
		hub:  h,
	}
	h.clients[c] = true
	count := len(h.clients)
	for _, e := range backlog {
		c.send <- buildEnvelope(typeReport, e.Raw, e.TS, e.Seq, true)
	}
	h.mu.Unlock()
	h.setGauge(count)

	h.log.Info("ws client connected", zap.Int("clients", count))

	go c.writePump()
	go c.readPump()
}

// backlog selects the entries a new client is owed. Caller holds h.mu.
func (h *Hub) backlog(sinceSeq int64) []entry {
	if sinceSeq <= 0 {
		return h.history.Last(1)
	}
	all := h.history.Last(0)
	for i, e := range all {
		if e.Seq > sinceSeq {
			return all[i:]
		}
	}
	return nil
}

// RemoveClient detaches a client. Safe to call more than once.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	close(c.send)
	h.mu.Unlock()
	h.setGauge(count)

	h.log.Info("ws client disconnected", zap.Int("clients", count))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) setGauge(n int) {
	if h.gauge != nil {
		h.gauge.Set(float64(n))
	}
}
