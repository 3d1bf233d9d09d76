package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quantgate/signal-sentinel/internal/types"
)

// Model is the main Bubble Tea model for the signal dashboard.
type Model struct {
	client       *apiClient
	signalTable  table.Model
	signals      []types.Signal
	tickers      []string
	pollInterval time.Duration
	err          error
	fetched      bool
	width        int
	height       int
}

// NewModel creates a new Model polling the given API base URL.
func NewModel(baseURL string, tickers []string, pollInterval time.Duration) Model {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	return Model{
		client:       newAPIClient(baseURL),
		signalTable:  NewSignalTable(),
		tickers:      tickers,
		pollInterval: pollInterval,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchSignals, m.tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.fetchSignals
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.signalTable.SetWidth(msg.Width)
		m.signalTable.SetHeight(msg.Height - 6)
		return m, nil

	case SignalsMsg:
		m.signals = m.filterSignals(msg.Signals)
		m.signalTable = UpdateTableRows(m.signalTable, m.signals)
		m.err = nil
		m.fetched = true
		return m, nil

	case FetchErrorMsg:
		m.err = msg.Err
		return m, nil

	case TickMsg:
		return m, tea.Batch(m.fetchSignals, m.tick())
	}

	var cmd tea.Cmd
	m.signalTable, cmd = m.signalTable.Update(msg)

	return m, cmd
}

// filterSignals keeps only watched tickers; an empty watch list keeps all.
func (m Model) filterSignals(signals []types.Signal) []types.Signal {
	if len(m.tickers) == 0 {
		return signals
	}

	filtered := make([]types.Signal, 0, len(signals))
	for _, signal := range signals {
		if slices.Contains(m.tickers, strings.ToUpper(signal.Ticker)) {
			filtered = append(filtered, signal)
		}
	}

	return filtered
}

// fetchSignals polls the API once.
func (m Model) fetchSignals() tea.Msg {
	signals, err := m.client.ListSignals("")
	if err != nil {
		return FetchErrorMsg{Err: err}
	}

	return SignalsMsg{Signals: signals}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Signal Sentinel - Live Signals"))
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	}

	if !m.fetched {
		s.WriteString("Waiting for data...\n")
	} else if len(m.signals) == 0 {
		s.WriteString("No signals.\n")
	} else {
		s.WriteString(m.signalTable.View())
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("q: quit | r: refresh"))

	return s.String()
}
