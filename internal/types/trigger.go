package types

import (
	"math"
	"time"

	"github.com/quantgate/signal-sentinel/pkg/errors"
)

type TriggerType string

const (
	// TriggerPrice is a single instantaneous price tick
	TriggerPrice TriggerType = "price"
	// TriggerCandleClose is a completed candle for a given interval
	TriggerCandleClose TriggerType = "candle_close"
)

// Candle is a completed candlestick for one interval.
type Candle struct {
	Interval  Interval `yaml:"interval" json:"interval"`
	Open      float64  `yaml:"open" json:"open"`
	High      float64  `yaml:"high" json:"high"`
	Low       float64  `yaml:"low" json:"low"`
	Close     float64  `yaml:"close" json:"close"`
	CloseTime int64    `yaml:"close_time" json:"close_time"`
}

// CloseAt returns the candle close time as a time.Time.
func (c Candle) CloseAt() time.Time {
	return time.Unix(c.CloseTime, 0).UTC()
}

// TriggerEvent is the tagged union the evaluator is invoked with. Event
// discriminates the shape: price events carry Price, candle_close events
// carry Candle.
type TriggerEvent struct {
	Event  TriggerType `yaml:"event" json:"event"`
	Ticker string      `yaml:"ticker" json:"ticker"`
	Price  float64     `yaml:"price,omitempty" json:"price,omitempty"`
	Candle *Candle     `yaml:"candle,omitempty" json:"candle,omitempty"`
}

// NewPriceTrigger builds a price tick trigger.
func NewPriceTrigger(ticker string, price float64) TriggerEvent {
	return TriggerEvent{
		Event:  TriggerPrice,
		Ticker: ticker,
		Price:  price,
		Candle: nil,
	}
}

// NewCandleTrigger builds a candle close trigger.
func NewCandleTrigger(ticker string, candle Candle) TriggerEvent {
	return TriggerEvent{
		Event:  TriggerCandleClose,
		Ticker: ticker,
		Price:  0,
		Candle: &candle,
	}
}

// ObservedPrice returns the price the evaluator measures profit against:
// the tick price for price events, the candle close for candle events.
func (t TriggerEvent) ObservedPrice() float64 {
	if t.Event == TriggerCandleClose && t.Candle != nil {
		return t.Candle.Close
	}

	return t.Price
}

// Validate rejects malformed triggers before any signal is loaded.
func (t TriggerEvent) Validate() error {
	if t.Ticker == "" {
		return errors.New(errors.ErrCodeInvalidTicker, "ticker must be a non-empty string")
	}

	switch t.Event {
	case TriggerPrice:
		if !isFinitePositive(t.Price) {
			return errors.Newf(errors.ErrCodeInvalidPrice, "price must be a finite positive number, got %v", t.Price)
		}
	case TriggerCandleClose:
		if t.Candle == nil {
			return errors.New(errors.ErrCodeInvalidCandle, "candle_close event requires a candle")
		}

		if t.Candle.Interval == "" {
			return errors.New(errors.ErrCodeInvalidInterval, "candle interval must be set")
		}

		if !isFinitePositive(t.Candle.Close) {
			return errors.Newf(errors.ErrCodeInvalidCandle, "candle close must be a finite positive number, got %v", t.Candle.Close)
		}
	default:
		return errors.Newf(errors.ErrCodeInvalidTrigger, "unknown event type %q", t.Event)
	}

	return nil
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
