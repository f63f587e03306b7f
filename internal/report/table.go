// Package report renders cycle reports as a colored terminal table.
package report

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"signaldesk/internal/model"
	"signaldesk/internal/portfolio"
)

// Headers are the table columns, in order.
var Headers = []string{
	"Pair", "Action", "JB Safe", "Vol Compression", "Trend", "RSI",
	"MACD", "VWAP", "Vol Change", "JB Change", "Position Size", "Price",
}

const (
	colAction = iota + 1
	colJBSafe
	colCompression
	colTrend
	colRSI
	colMACD
	colVWAP
	colVolChange
	colJBChange
)

var (
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true)
	plain  = lipgloss.NewStyle()
	header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	cell   = lipgloss.NewStyle().Padding(0, 1)
	title  = lipgloss.NewStyle().Bold(true)
)

// Rows formats each instrument report as plain cell text.
func Rows(r model.CycleReport) [][]string {
	rows := make([][]string, 0, len(r.Reports))
	for _, ir := range r.Reports {
		d := ir.Diagnostics
		rsi := "N/A"
		if d.RSI.IsSome() {
			rsi = portfolio.RoundFixed(d.RSI.Unwrap(), 2).StringFixed(2)
		}
		rows = append(rows, []string{
			ir.Symbol,
			string(d.Action),
			check(d.JBSafe),
			check(d.VolatilityCompression),
			string(d.Trend),
			rsi,
			string(d.Momentum),
			string(d.VWAPStatus),
			string(d.VolatilityChange),
			string(d.JBTrend),
			d.PositionSize.StringFixed(2),
			portfolio.RoundFixed(ir.Price, 4).StringFixed(4),
		})
	}
	return rows
}

func check(b bool) string {
	if b {
		return "✔"
	}
	return "✘"
}

// cellStyle colors a cell the way the dashboard does: BUY green, SELL red,
// WAIT yellow; booleans green/red; statuses green when favorable, yellow
// when Neutral, red otherwise.
func cellStyle(col int, text string) lipgloss.Style {
	switch col {
	case colAction:
		switch model.Action(text) {
		case model.ActionBuy:
			return green
		case model.ActionSell:
			return red
		}
		return yellow
	case colJBSafe, colCompression:
		return pick(text == check(true))
	case colTrend:
		return pick(text == string(model.TrendUp))
	case colMACD:
		return status(text, string(model.MomentumBullish))
	case colVWAP:
		return status(text, string(model.VWAPAbove))
	case colVolChange, colJBChange:
		return status(text, string(model.DirectionUp))
	}
	return plain
}

func pick(good bool) lipgloss.Style {
	if good {
		return green
	}
	return red
}

func status(text, favorable string) lipgloss.Style {
	if text == "Neutral" {
		return yellow
	}
	return pick(text == favorable)
}

// Render draws the report as a bordered table.
func Render(r model.CycleReport) string {
	rows := Rows(r)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			if row < 0 || row >= len(rows) {
				return cell
			}
			return cellStyle(col, rows[row][col]).Padding(0, 1)
		})

	heading := fmt.Sprintf("cycle %s  %s  BUY %d  SELL %d  WAIT %d  skipped %d",
		r.ID, r.FinishedAt.UTC().Format("2006-01-02 15:04:05"),
		r.Count(model.ActionBuy), r.Count(model.ActionSell), r.Count(model.ActionWait), len(r.Skipped))
	return title.Render(heading) + "\n" + t.Render() + "\n"
}

// TableReporter prints each cycle report to w. It implements model.Reporter.
type TableReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTableReporter creates a reporter writing to w.
func NewTableReporter(w io.Writer) *TableReporter {
	return &TableReporter{w: w}
}

func (t *TableReporter) Report(_ context.Context, r model.CycleReport) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.w, Render(r))
	return err
}
