package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/moznion/go-optional"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/stretchr/testify/assert"
)

func testSignal(id, ticker string, status types.SignalStatus) types.Signal {
	return types.Signal{
		ID:           id,
		Ticker:       ticker,
		Direction:    types.DirectionLong,
		EntryPrice:   100.0,
		CurrentPrice: 105.0,
		Targets:      []float64{110.0, 120.0},
		HitTargets:   []int{},
		Status:       status,
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel("http://localhost:8080", []string{"BTC"}, time.Second)

	assert.NotNil(t, m.client)
	assert.Equal(t, []string{"BTC"}, m.tickers)
	assert.Equal(t, time.Second, m.pollInterval)
	assert.False(t, m.fetched)
	assert.Empty(t, m.signals)
}

func TestNewModelDefaultsPollInterval(t *testing.T) {
	m := NewModel("http://localhost:8080", nil, 0)

	assert.Equal(t, 2*time.Second, m.pollInterval)
}

func TestParseTickers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single ticker",
			input:    "BTC",
			expected: []string{"BTC"},
		},
		{
			name:     "multiple tickers",
			input:    "BTC,ETH,SOL",
			expected: []string{"BTC", "ETH", "SOL"},
		},
		{
			name:     "with spaces",
			input:    "BTC, ETH , SOL",
			expected: []string{"BTC", "ETH", "SOL"},
		},
		{
			name:     "lowercase",
			input:    "btc,eth",
			expected: []string{"BTC", "ETH"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "only commas",
			input:    ",,,",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseTickers(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSignalsMsgUpdatesTable(t *testing.T) {
	m := NewModel("http://localhost:0", nil, time.Hour)

	newModel, _ := m.Update(SignalsMsg{Signals: []types.Signal{
		testSignal("a", "BTC", types.SignalStatusActive),
		testSignal("b", "ETH", types.SignalStatusActive),
	}})
	updated := newModel.(Model)

	assert.True(t, updated.fetched)
	assert.Len(t, updated.signals, 2)
	assert.Len(t, updated.signalTable.Rows(), 2)
	assert.NoError(t, updated.err)
}

func TestSignalsMsgFiltersWatchedTickers(t *testing.T) {
	m := NewModel("http://localhost:0", []string{"BTC"}, time.Hour)

	newModel, _ := m.Update(SignalsMsg{Signals: []types.Signal{
		testSignal("a", "BTC", types.SignalStatusActive),
		testSignal("b", "ETH", types.SignalStatusActive),
	}})
	updated := newModel.(Model)

	assert.Len(t, updated.signals, 1)
	assert.Equal(t, "BTC", updated.signals[0].Ticker)
}

func TestFetchErrorMsgSetsError(t *testing.T) {
	m := NewModel("http://localhost:0", nil, time.Hour)

	newModel, _ := m.Update(FetchErrorMsg{Err: fmt.Errorf("connection refused")})
	updated := newModel.(Model)

	assert.Error(t, updated.err)
}

func TestSuccessfulFetchClearsError(t *testing.T) {
	m := NewModel("http://localhost:0", nil, time.Hour)
	m.err = fmt.Errorf("connection refused")

	newModel, _ := m.Update(SignalsMsg{Signals: nil})
	updated := newModel.(Model)

	assert.NoError(t, updated.err)
}

func TestWindowResize(t *testing.T) {
	m := NewModel("http://localhost:0", nil, time.Hour)

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated := newModel.(Model)

	assert.Equal(t, 120, updated.width)
	assert.Equal(t, 40, updated.height)
}

func TestViewRendersSignals(t *testing.T) {
	m := NewModel("http://localhost:0", nil, time.Hour)
	m.fetched = true
	m.signals = []types.Signal{testSignal("a", "BTC", types.SignalStatusActive)}
	m.signalTable = UpdateTableRows(m.signalTable, m.signals)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Live Signals")) &&
			bytes.Contains(bts, []byte("BTC"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestViewShowsWaitingBeforeFirstFetch(t *testing.T) {
	m := NewModel("http://localhost:0", nil, time.Hour)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Waiting for data"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestFetchFromAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/signals", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		err := json.NewEncoder(w).Encode([]types.Signal{
			testSignal("a", "SOL", types.SignalStatusActive),
		})
		assert.NoError(t, err)
	}))
	defer srv.Close()

	m := NewModel(srv.URL, nil, time.Hour)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("SOL"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

func TestQuitBehavior(t *testing.T) {
	t.Run("ctrl+c quits", func(t *testing.T) {
		m := NewModel("http://localhost:0", nil, time.Hour)
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	})

	t.Run("q quits", func(t *testing.T) {
		m := NewModel("http://localhost:0", nil, time.Hour)
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
			return bytes.Contains(bts, []byte("Live Signals"))
		}, teatest.WithDuration(2*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

		tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	})
}

func TestFormatProfit(t *testing.T) {
	tests := []struct {
		name     string
		pct      optional.Option[float64]
		expected string
	}{
		{
			name:     "positive shows up arrow",
			pct:      optional.Some(12.5),
			expected: "12.50% ▲",
		},
		{
			name:     "negative shows down arrow",
			pct:      optional.Some(-3.1),
			expected: "-3.10% ▼",
		},
		{
			name:     "zero has no arrow",
			pct:      optional.Some(0.0),
			expected: "0.00%",
		},
		{
			name:     "unset renders dash",
			pct:      optional.None[float64](),
			expected: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatProfit(tt.pct))
		})
	}
}

func TestFormatStatus(t *testing.T) {
	active := testSignal("a", "BTC", types.SignalStatusActive)
	assert.Equal(t, "active", formatStatus(active))

	closed := testSignal("b", "BTC", types.SignalStatusClosed)
	assert.Equal(t, "closed", formatStatus(closed))

	stopped := testSignal("c", "BTC", types.SignalStatusClosed)
	stopped.StoppedOut = true
	assert.Equal(t, "stopped", formatStatus(stopped))
}
