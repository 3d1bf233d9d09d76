package types

import (
	"math"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/quantgate/signal-sentinel/pkg/errors"
	"github.com/shopspring/decimal"
)

type Direction string

const (
	// DirectionLong profits when price rises
	DirectionLong Direction = "long"
	// DirectionShort profits when price falls
	DirectionShort Direction = "short"
)

type SignalStatus string

const (
	// SignalStatusActive means the signal is still being evaluated
	SignalStatusActive SignalStatus = "active"
	// SignalStatusClosed is terminal; a closed signal is never mutated again
	SignalStatusClosed SignalStatus = "closed"
)

type InvalidationType string

const (
	// InvalidationCandleCloseBelow invalidates when a candle closes below the threshold
	InvalidationCandleCloseBelow InvalidationType = "candle_close_below"
	// InvalidationCandleCloseAbove invalidates when a candle closes above the threshold
	InvalidationCandleCloseAbove InvalidationType = "candle_close_above"
)

// CloseReason explains why a signal transitioned to closed.
type CloseReason string

const (
	CloseReasonStopLossHit   CloseReason = "stop_loss_hit"
	CloseReasonAllTargetsHit CloseReason = "all_targets_hit"
	CloseReasonInvalidation  CloseReason = "invalidation"
)

// Signal is a trading alert tracked through its lifecycle: entry, profit
// targets, stop loss and an optional candle-close invalidation rule.
type Signal struct {
	ID        string    `yaml:"id" json:"id" validate:"required,uuid"`
	Ticker    string    `yaml:"ticker" json:"ticker" validate:"required"`
	Direction Direction `yaml:"direction" json:"direction" validate:"required,oneof=long short"`
	// EntryPrice is the immutable reference price profit is measured against
	EntryPrice float64 `yaml:"entry_price" json:"entry_price" validate:"required,gt=0"`
	// StopLossPrice is optional. No stop check is performed when unset.
	StopLossPrice optional.Option[float64] `yaml:"stop_loss_price" json:"stop_loss_price"`
	// Targets are profit levels in insertion order; the index is significant.
	Targets []float64 `yaml:"targets" json:"targets" validate:"dive,gt=0"`
	// HitTargets holds indices into Targets already triggered, sorted ascending.
	// It only ever grows.
	HitTargets []int `yaml:"hit_targets" json:"hit_targets"`
	// InvalidationType, InvalidationPrice and InvalidationTimeframe form the
	// candle-close invalidation rule. All three must be set for the rule to apply.
	InvalidationType      optional.Option[InvalidationType] `yaml:"invalidation_type" json:"invalidation_type"`
	InvalidationPrice     optional.Option[float64]          `yaml:"invalidation_price" json:"invalidation_price"`
	InvalidationTimeframe optional.Option[Interval]         `yaml:"invalidation_timeframe" json:"invalidation_timeframe"`
	// CurrentPrice is the last observed price.
	CurrentPrice float64 `yaml:"current_price" json:"current_price"`
	// CurrentProfitPct is (current - entry) / entry * 100. The same formula is
	// used for both directions; a short's displayed profit is not sign-flipped.
	CurrentProfitPct optional.Option[float64] `yaml:"current_profit_pct" json:"current_profit_pct"`
	// MaxProfitPct is the running maximum of CurrentProfitPct, never decreasing.
	MaxProfitPct optional.Option[float64] `yaml:"max_profit_pct" json:"max_profit_pct"`
	// StoppedOut transitions false to true at most once.
	StoppedOut bool         `yaml:"stopped_out" json:"stopped_out"`
	Status     SignalStatus `yaml:"status" json:"status" validate:"required,oneof=active closed"`
	CreatedAt  time.Time    `yaml:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `yaml:"updated_at" json:"updated_at"`
}

// Validate validates the Signal struct.
func (s *Signal) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal", err)
	}

	// An invalidation rule is all-or-nothing.
	set := 0
	for _, present := range []bool{
		s.InvalidationType.IsSome(),
		s.InvalidationPrice.IsSome(),
		s.InvalidationTimeframe.IsSome(),
	} {
		if present {
			set++
		}
	}

	if set != 0 && set != 3 {
		return errors.New(errors.ErrCodeInvalidInvalidation,
			"invalidation_type, invalidation_price and invalidation_timeframe must be set together")
	}

	for _, idx := range s.HitTargets {
		if idx < 0 || idx >= len(s.Targets) {
			return errors.Newf(errors.ErrCodeInvalidSignal, "hit target index %d out of range", idx)
		}
	}

	return nil
}

// TargetHit reports whether target index i has already been triggered.
func (s *Signal) TargetHit(i int) bool {
	return slices.Contains(s.HitTargets, i)
}

// AllTargetsHit reports whether every target index has been triggered.
// A signal without targets never reports true.
func (s *Signal) AllTargetsHit() bool {
	return len(s.Targets) > 0 && len(s.HitTargets) == len(s.Targets)
}

// ProfitPct computes (to - from) / from * 100 using decimal arithmetic.
// Returns None when from is zero or either input is not a finite number.
func ProfitPct(from, to float64) optional.Option[float64] {
	if from == 0 || math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) {
		return optional.None[float64]()
	}

	fromDec := decimal.NewFromFloat(from)
	toDec := decimal.NewFromFloat(to)
	pct, _ := toDec.Sub(fromDec).Div(fromDec).Mul(decimal.NewFromInt(100)).Float64()

	return optional.Some(pct)
}

// MaxProfit returns the larger of the previous maximum and the current profit.
// When the previous maximum is unset the current value becomes the maximum.
func MaxProfit(prev, current optional.Option[float64]) optional.Option[float64] {
	if current.IsNone() {
		return prev
	}

	if prev.IsNone() {
		return current
	}

	return optional.Some(math.Max(prev.Unwrap(), current.Unwrap()))
}
