package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/quantgate/signal-sentinel/internal/types"
)

// NewSignalTable creates the table for displaying signal state.
func NewSignalTable() table.Model {
	columns := []table.Column{
		{Title: "Ticker", Width: 10},
		{Title: "Dir", Width: 6},
		{Title: "Entry", Width: 12},
		{Title: "Price", Width: 12},
		{Title: "Profit", Width: 12},
		{Title: "Max", Width: 12},
		{Title: "Targets", Width: 10},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateTableRows updates the table with the latest signal snapshot.
func UpdateTableRows(t table.Model, signals []types.Signal) table.Model {
	sorted := make([]types.Signal, len(signals))
	copy(sorted, signals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Ticker != sorted[j].Ticker {
			return sorted[i].Ticker < sorted[j].Ticker
		}

		return sorted[i].ID < sorted[j].ID
	})

	rows := make([]table.Row, 0, len(sorted))

	for _, signal := range sorted {
		rows = append(rows, table.Row{
			signal.Ticker,
			string(signal.Direction),
			fmt.Sprintf("%.4f", signal.EntryPrice),
			fmt.Sprintf("%.4f", signal.CurrentPrice),
			FormatProfit(signal.CurrentProfitPct),
			FormatProfit(signal.MaxProfitPct),
			fmt.Sprintf("%d/%d", len(signal.HitTargets), len(signal.Targets)),
			formatStatus(signal),
		})
	}

	t.SetRows(rows)

	return t
}

func formatStatus(signal types.Signal) string {
	if signal.Status == types.SignalStatusActive {
		return "active"
	}

	if signal.StoppedOut {
		return "stopped"
	}

	return "closed"
}

// ParseTickers parses a comma-separated ticker list.
func ParseTickers(input string) []string {
	parts := strings.Split(input, ",")
	tickers := make([]string, 0, len(parts))

	for _, p := range parts {
		s := strings.TrimSpace(strings.ToUpper(p))
		if s != "" {
			tickers = append(tickers, s)
		}
	}

	return tickers
}
