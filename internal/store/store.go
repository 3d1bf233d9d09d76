package store

import (
	"context"

	"github.com/quantgate/signal-sentinel/internal/types"
)

// ListFilter narrows ListSignals results. Zero values match everything.
type ListFilter struct {
	Ticker string
	Status types.SignalStatus
}

// SignalStore persists signals and their append-only transition log.
//
// UpdateActive and CloseSignal are conditional writes: they only touch rows
// whose status is still active and report whether a row was updated. This
// keeps the closed state terminal and makes the close transition idempotent
// when two near-simultaneous events race on the same signal.
type SignalStore interface {
	// Initialize creates the schema and verifies schema version compatibility.
	Initialize() error
	// CreateSignal inserts a new signal.
	CreateSignal(ctx context.Context, signal types.Signal) error
	// GetSignal returns the signal with the given id.
	GetSignal(ctx context.Context, id string) (types.Signal, error)
	// ListSignals returns signals matching the filter, newest first.
	ListSignals(ctx context.Context, filter ListFilter) ([]types.Signal, error)
	// ListActiveByTicker returns every active signal for the ticker.
	ListActiveByTicker(ctx context.Context, ticker string) ([]types.Signal, error)
	// UpdateActive persists the signal's mutable fields while it stays active.
	UpdateActive(ctx context.Context, signal types.Signal) (bool, error)
	// CloseSignal persists the signal's mutable fields and transitions it to
	// closed, only if it is still active.
	CloseSignal(ctx context.Context, signal types.Signal) (bool, error)
	// AppendEvent inserts one row into the append-only event log.
	AppendEvent(ctx context.Context, event types.SignalEvent) error
	// ListEvents returns the event log for a signal, oldest first.
	ListEvents(ctx context.Context, signalID string) ([]types.SignalEvent, error)
	// Close releases the underlying database handle.
	Close() error
}
