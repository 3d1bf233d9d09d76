package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type SignalEventType string

const (
	// SignalEventStopHit records a stop-loss trigger
	SignalEventStopHit SignalEventType = "stop_hit"
	// SignalEventTargetHit records a profit target crossing
	SignalEventTargetHit SignalEventType = "target_hit"
	// SignalEventInvalidation records a candle-close invalidation
	SignalEventInvalidation SignalEventType = "invalidation"
)

// SignalEvent is one row of the append-only transition log. Rows are
// created by the evaluator and never mutated or deleted.
type SignalEvent struct {
	ID       string          `yaml:"id" json:"id"`
	SignalID string          `yaml:"signal_id" json:"signal_id"`
	Event    SignalEventType `yaml:"event" json:"event"`
	// Level is the zero-based target index, present for target_hit only.
	Level optional.Option[int] `yaml:"level" json:"level"`
	// Detail is an event-specific payload serialized as JSON.
	Detail    EventDetail `yaml:"detail" json:"detail"`
	CreatedAt time.Time   `yaml:"created_at" json:"created_at"`
}

// EventDetail carries the event-specific payload. Only the fields relevant
// to the event type are populated.
type EventDetail struct {
	// Price is the observed price that caused the transition.
	Price float64 `yaml:"price" json:"price"`
	// Target is the crossed target level, for target_hit events.
	Target optional.Option[float64] `yaml:"target" json:"target"`
	// CandleClose is the candle close, for invalidation events.
	CandleClose optional.Option[float64] `yaml:"candle_close" json:"candle_close"`
	// Rule names the invalidation rule that fired, for invalidation events.
	Rule optional.Option[InvalidationType] `yaml:"rule" json:"rule"`
	// Threshold is the invalidation price, for invalidation events.
	Threshold optional.Option[float64] `yaml:"threshold" json:"threshold"`
}
