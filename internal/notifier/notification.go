package notifier

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/quantgate/signal-sentinel/internal/types"
)

// NotificationType is the envelope type shared by every outbound notification.
const NotificationType = "live_trading_event"

type NotificationKind string

const (
	// KindTargetHit announces a crossed profit target on a still-open signal
	KindTargetHit NotificationKind = "target_hit"
	// KindPositionClosed announces a terminal transition
	KindPositionClosed NotificationKind = "position_closed"
)

// Notification is the outbound payload for a signal state transition.
type Notification struct {
	Type     string           `json:"type"`
	Ticker   string           `json:"ticker"`
	Kind     NotificationKind `json:"kind"`
	SignalID string           `json:"signal_id"`
	Price    float64          `json:"price"`
	// Level is the 1-based target number, for target_hit notifications.
	Level optional.Option[int] `json:"level"`
	// Target is the crossed target price, for target_hit notifications.
	Target optional.Option[float64] `json:"target"`
	// Reason explains a position_closed notification.
	Reason optional.Option[types.CloseReason] `json:"reason"`
}

// NewTargetHit builds a target_hit notification. level is 1-based for
// external consumers.
func NewTargetHit(signal types.Signal, price float64, level int, target float64) Notification {
	return Notification{
		Type:     NotificationType,
		Ticker:   signal.Ticker,
		Kind:     KindTargetHit,
		SignalID: signal.ID,
		Price:    price,
		Level:    optional.Some(level),
		Target:   optional.Some(target),
		Reason:   optional.None[types.CloseReason](),
	}
}

// NewPositionClosed builds a position_closed notification.
func NewPositionClosed(signal types.Signal, price float64, reason types.CloseReason) Notification {
	return Notification{
		Type:     NotificationType,
		Ticker:   signal.Ticker,
		Kind:     KindPositionClosed,
		SignalID: signal.ID,
		Price:    price,
		Level:    optional.None[int](),
		Target:   optional.None[float64](),
		Reason:   optional.Some(reason),
	}
}

// Text renders a short human-readable description, used by chat backends.
func (n Notification) Text() string {
	switch n.Kind {
	case KindTargetHit:
		return fmt.Sprintf("%s: target %d hit at %g (target price %g)",
			n.Ticker, n.Level.TakeOr(0), n.Price, n.Target.TakeOr(0))
	case KindPositionClosed:
		return fmt.Sprintf("%s: position closed at %g (%s)",
			n.Ticker, n.Price, n.Reason.TakeOr(""))
	default:
		return fmt.Sprintf("%s: %s at %g", n.Ticker, n.Kind, n.Price)
	}
}
