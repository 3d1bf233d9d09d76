package main

import "github.com/quantgate/signal-sentinel/internal/types"

// SignalsMsg carries a fresh snapshot of signals from the API.
type SignalsMsg struct {
	Signals []types.Signal
}

// FetchErrorMsg indicates a failed API poll.
type FetchErrorMsg struct {
	Err error
}

// TickMsg schedules the next poll.
type TickMsg struct{}
