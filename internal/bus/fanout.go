// Package bus fans cycle reports out to independent reporters.
package bus

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"signaldesk/internal/model"
)

// FanOut broadcasts each cycle report to every subscriber. If a subscriber's
// buffer is full the report is dropped for that subscriber so a slow
// reporter never delays the refresh cycle.
//
// FanOut implements model.Reporter.
type FanOut struct {
	mu      sync.RWMutex
	subs    []subscriber
	bufSize int
	closed  bool
	wg      sync.WaitGroup
	log     *zap.Logger

	// OnDrop is called when a report is dropped for the named subscriber.
	OnDrop func(name string)
}

type subscriber struct {
	name string
	ch   chan model.CycleReport
}

// New creates a FanOut with the given buffer size per subscriber.
func New(bufSize int, log *zap.Logger) *FanOut {
	return &FanOut{bufSize: bufSize, log: log}
}

// Subscribe creates and returns a new output channel.
func (f *FanOut) Subscribe(name string) <-chan model.CycleReport {
	ch := make(chan model.CycleReport, f.bufSize)
	f.mu.Lock()
	f.subs = append(f.subs, subscriber{name: name, ch: ch})
	f.mu.Unlock()
	return ch
}

// Attach subscribes r under name and runs it on its own goroutine until the
// FanOut is closed. Reporter errors are logged and never propagate.
func (f *FanOut) Attach(ctx context.Context, name string, r model.Reporter) {
	ch := f.Subscribe(name)
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		for report := range ch {
			if err := r.Report(ctx, report); err != nil {
				f.log.Warn("reporter failed",
					zap.String("reporter", name),
					zap.String("cycle_id", report.ID),
					zap.Error(err))
			}
		}
	}()
}

// Report publishes to all subscribers without blocking.
func (f *FanOut) Report(_ context.Context, report model.CycleReport) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil
	}
	for _, s := range f.subs {
		select {
		case s.ch <- report:
		default:
			if f.OnDrop != nil {
				f.OnDrop(s.name)
			} else {
				f.log.Warn("subscriber full, dropping report", zap.String("subscriber", s.name), zap.String("cycle_id", report.ID))
			}
		}
	}
	return nil
}

// Close closes every subscriber channel and waits for attached reporters
// to drain.
func (f *FanOut) Close() {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		for _, s := range f.subs {
			close(s.ch)
		}
	}
	f.mu.Unlock()
	f.wg.Wait()
}
