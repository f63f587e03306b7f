package model

import (
	"encoding/json"
	"time"
)

// InstrumentReport is the outcome for one instrument in one cycle.
type InstrumentReport struct {
	Symbol      string      `json:"symbol"`
	Diagnostics Diagnostics `json:"diagnostics"`
	// Price is the last traded price. An instrument without one is skipped.
	Price       float64     `json:"price"`
}

// SkippedInstrument records an instrument dropped from a cycle.
type SkippedInstrument struct {
	Symbol string `json:"symbol"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// CycleReport is the result of one refresh cycle. Reports keep the order
// of the configured universe regardless of fetch completion order.
type CycleReport struct {
	ID         string              `json:"id"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Reports    []InstrumentReport  `json:"reports"`
	Skipped    []SkippedInstrument `json:"skipped,omitempty"`
}

// Lookup returns the report for symbol.
func (r *CycleReport) Lookup(symbol string) (InstrumentReport, bool) {
	for _, ir := range r.Reports {
		if ir.Symbol == symbol {
			return ir, true
		}
	}
	return InstrumentReport{}, false
}

// Count returns how many reports carry the given action.
func (r *CycleReport) Count(a Action) int {
	n := 0
	for _, ir := range r.Reports {
		if ir.Diagnostics.Action == a {
			n++
		}
	}
	return n
}

// JSON returns the JSON-encoded report (ignoring errors for hot-path usage).
func (r *CycleReport) JSON() []byte {
	b, _ := json.Marshal(r)
	return b
}
