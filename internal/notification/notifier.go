// Package notification delivers trade alerts to external channels
// (webhooks, Telegram) when an instrument's recommendation changes.
package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"signaldesk/internal/model"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "INFO"
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
)

// Alert represents a notification to be sent.
type Alert struct {
	Level   AlertLevel   `json:"level"`
	Title   string       `json:"title"`
	Message string       `json:"message"`
	Symbol  string       `json:"symbol,omitempty"`
	Action  model.Action `json:"action,omitempty"`
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers an alert. Returns error if delivery fails.
	Send(ctx context.Context, alert Alert) error
}

// LogNotifier writes alerts to the log (useful for development).
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	n.log.Info("alert",
		zap.String("level", string(alert.Level)),
		zap.String("title", alert.Title),
		zap.String("message", alert.Message))
	return nil
}

// AlertReporter turns cycle reports into alerts when an instrument's action
// changes: entering BUY or SELL is a warning, flipping straight between BUY
// and SELL is critical and falling back to WAIT is informational. Repeated
// cycles with the same action stay quiet. It implements model.Reporter.
type AlertReporter struct {
	notifiers []Notifier

	mu   sync.Mutex
	last map[string]model.Action
}

// NewAlertReporter creates a reporter delivering to every notifier.
func NewAlertReporter(notifiers ...Notifier) *AlertReporter {
	return &AlertReporter{
		notifiers: notifiers,
		last:      make(map[string]model.Action),
	}
}

// Report sends alerts for instruments whose action changed.
func (a *AlertReporter) Report(ctx context.Context, report model.CycleReport) error {
	alerts := a.changes(report)

	var errs []error
	for _, alert := range alerts {
		for _, n := range a.notifiers {
			if err := n.Send(ctx, alert); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", alert.Symbol, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (a *AlertReporter) changes(report model.CycleReport) []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()

	var alerts []Alert
	for _, ir := range report.Reports {
		action := ir.Diagnostics.Action
		prev, seen := a.last[ir.Symbol]
		a.last[ir.Symbol] = action
		if seen && prev == action {
			continue
		}
		wasActive := seen && prev != model.ActionWait

		if action == model.ActionWait {
			if wasActive {
				alerts = append(alerts, newClearedAlert(ir, prev))
			}
			continue
		}
		alert := newTradeAlert(ir)
		if wasActive {
			alert.Level = AlertCritical
			alert.Title = fmt.Sprintf("%s -> %s %s", prev, action, ir.Symbol)
		}
		alerts = append(alerts, alert)
	}
	return alerts
}

func newClearedAlert(ir model.InstrumentReport, prev model.Action) Alert {
	return Alert{
		Level:   AlertInfo,
		Title:   fmt.Sprintf("%s cleared %s", prev, ir.Symbol),
		Symbol:  ir.Symbol,
		Action:  ir.Diagnostics.Action,
		Message: fmt.Sprintf("close %.4f, back to WAIT", ir.Diagnostics.LastClose),
	}
}

func newTradeAlert(ir model.InstrumentReport) Alert {
	d := ir.Diagnostics
	rsi := "N/A"
	if d.RSI.IsSome() {
		rsi = fmt.Sprintf("%.2f", d.RSI.Unwrap())
	}
	return Alert{
		Level:  AlertWarning,
		Title:  fmt.Sprintf("%s %s", d.Action, ir.Symbol),
		Symbol: ir.Symbol,
		Action: d.Action,
		Message: fmt.Sprintf("close %.4f, trend %s, RSI %s, MACD %s, VWAP %s, size %s",
			d.LastClose, d.Trend, rsi, d.Momentum, d.VWAPStatus, d.PositionSize.StringFixed(2)),
	}
}
