package evaluator

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/quantgate/signal-sentinel/internal/logger"
	"github.com/quantgate/signal-sentinel/internal/notifier"
	"github.com/quantgate/signal-sentinel/internal/store"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/quantgate/signal-sentinel/pkg/errors"
	"go.uber.org/zap"
)

// NotificationSink accepts notifications for asynchronous delivery.
// notifier.Dispatcher satisfies it.
type NotificationSink interface {
	Enqueue(notification notifier.Notification) error
}

// Evaluator re-evaluates every open signal for a ticker against its
// stop-loss, profit targets and invalidation rule whenever a price tick or
// candle close arrives. It is stateless: all state lives in the store.
type Evaluator struct {
	store  store.SignalStore
	sink   NotificationSink
	logger *logger.Logger
}

// New creates an Evaluator.
func New(signalStore store.SignalStore, sink NotificationSink, log *logger.Logger) *Evaluator {
	return &Evaluator{
		store:  signalStore,
		sink:   sink,
		logger: log,
	}
}

// Evaluate processes one trigger event. Malformed triggers fail before any
// signal is loaded. A load failure aborts the invocation; a persistence
// failure on one signal is logged and does not abort its siblings.
func (e *Evaluator) Evaluate(ctx context.Context, trigger types.TriggerEvent) error {
	if err := trigger.Validate(); err != nil {
		return err
	}

	signals, err := e.store.ListActiveByTicker(ctx, trigger.Ticker)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeLoadSignalsFailed, err,
			"failed to load active signals for ticker %s", trigger.Ticker)
	}

	for _, signal := range signals {
		if err := e.evaluateSignal(ctx, signal, trigger); err != nil {
			e.logger.Error("Signal evaluation failed",
				zap.String("signal_id", signal.ID),
				zap.String("ticker", signal.Ticker),
				zap.Error(err),
			)
		}
	}

	return nil
}

// evaluateSignal applies the ordered lifecycle checks to one signal:
// profit update, stop-loss, targets, invalidation, fallback persistence.
// Stop-loss short-circuits the remaining checks for this invocation.
func (e *Evaluator) evaluateSignal(ctx context.Context, signal types.Signal, trigger types.TriggerEvent) error {
	observed := trigger.ObservedPrice()

	signal.CurrentPrice = observed
	signal.CurrentProfitPct = types.ProfitPct(signal.EntryPrice, observed)
	signal.MaxProfitPct = types.MaxProfit(signal.MaxProfitPct, signal.CurrentProfitPct)

	if trigger.Event == types.TriggerPrice && e.stopTriggered(signal, trigger.Price) {
		return e.closeOnStop(ctx, signal, trigger.Price)
	}

	closed, err := e.checkTargets(ctx, &signal, observed)
	if err != nil || closed {
		return err
	}

	if trigger.Event == types.TriggerCandleClose {
		invalidated, err := e.checkInvalidation(ctx, signal, *trigger.Candle)
		if err != nil || invalidated {
			return err
		}
	}

	// Nothing fired: persist the updated profit fields only.
	if _, err := e.store.UpdateActive(ctx, signal); err != nil {
		return errors.Wrap(errors.ErrCodeEvaluationFailed, "failed to persist profit update", err)
	}

	return nil
}

func (e *Evaluator) stopTriggered(signal types.Signal, price float64) bool {
	if signal.StopLossPrice.IsNone() || signal.StoppedOut {
		return false
	}

	stop := signal.StopLossPrice.Unwrap()

	if signal.Direction == types.DirectionShort {
		return price >= stop
	}

	return price <= stop
}

// closeOnStop performs the stop-loss transition. The conditional close runs
// first so a racing invocation cannot double-fire the transition; the event
// row and notification are only produced by the invocation that won.
func (e *Evaluator) closeOnStop(ctx context.Context, signal types.Signal, price float64) error {
	signal.StoppedOut = true

	transitioned, err := e.store.CloseSignal(ctx, signal)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEvaluationFailed, "failed to close signal on stop loss", err)
	}

	if !transitioned {
		e.logger.Debug("Stop transition already applied elsewhere",
			zap.String("signal_id", signal.ID))

		return nil
	}

	event := types.SignalEvent{
		ID:       uuid.New().String(),
		SignalID: signal.ID,
		Event:    types.SignalEventStopHit,
		Level:    optional.None[int](),
		Detail:   types.EventDetail{Price: price},
	}
	if err := e.store.AppendEvent(ctx, event); err != nil {
		return errors.Wrap(errors.ErrCodeEvaluationFailed, "failed to append stop_hit event", err)
	}

	e.logger.Info("Stop loss hit",
		zap.String("signal_id", signal.ID),
		zap.String("ticker", signal.Ticker),
		zap.Float64("price", price),
	)
	e.notify(notifier.NewPositionClosed(signal, price, types.CloseReasonStopLossHit))

	return nil
}

// checkTargets walks the not-yet-hit targets in order. Hitting the final
// target closes the signal; earlier hits persist and notify but leave it
// active. Returns true when the signal closed.
func (e *Evaluator) checkTargets(ctx context.Context, signal *types.Signal, observed float64) (bool, error) {
	for i, target := range signal.Targets {
		if signal.TargetHit(i) || !targetCrossed(signal.Direction, observed, target) {
			continue
		}

		signal.HitTargets = append(signal.HitTargets, i)
		slices.Sort(signal.HitTargets)

		if signal.AllTargetsHit() {
			transitioned, err := e.store.CloseSignal(ctx, *signal)
			if err != nil {
				return false, errors.Wrap(errors.ErrCodeEvaluationFailed, "failed to close signal on final target", err)
			}

			if !transitioned {
				return true, nil
			}

			if err := e.appendTargetEvent(ctx, *signal, observed, i, target); err != nil {
				return false, err
			}

			e.logger.Info("All targets hit",
				zap.String("signal_id", signal.ID),
				zap.String("ticker", signal.Ticker),
				zap.Float64("price", observed),
			)
			e.notify(notifier.NewPositionClosed(*signal, observed, types.CloseReasonAllTargetsHit))

			return true, nil
		}

		if _, err := e.store.UpdateActive(ctx, *signal); err != nil {
			return false, errors.Wrap(errors.ErrCodeEvaluationFailed, "failed to persist target hit", err)
		}

		if err := e.appendTargetEvent(ctx, *signal, observed, i, target); err != nil {
			return false, err
		}

		e.logger.Info("Target hit",
			zap.String("signal_id", signal.ID),
			zap.String("ticker", signal.Ticker),
			zap.Int("level", i),
			zap.Float64("price", observed),
		)
		// External consumers see 1-based target levels.
		e.notify(notifier.NewTargetHit(*signal, observed, i+1, target))
	}

	return false, nil
}

func (e *Evaluator) appendTargetEvent(ctx context.Context, signal types.Signal, price float64, level int, target float64) error {
	event := types.SignalEvent{
		ID:       uuid.New().String(),
		SignalID: signal.ID,
		Event:    types.SignalEventTargetHit,
		Level:    optional.Some(level),
		Detail: types.EventDetail{
			Price:  price,
			Target: optional.Some(target),
		},
	}
	if err := e.store.AppendEvent(ctx, event); err != nil {
		return errors.Wrap(errors.ErrCodeEvaluationFailed, "failed to append target_hit event", err)
	}

	return nil
}

func targetCrossed(direction types.Direction, observed, target float64) bool {
	if direction == types.DirectionShort {
		return observed <= target
	}

	return observed >= target
}

// checkInvalidation applies the candle-close invalidation rule. It only
// fires when the candle interval equals the signal's invalidation timeframe.
// Returns true when the signal closed.
func (e *Evaluator) checkInvalidation(ctx context.Context, signal types.Signal, candle types.Candle) (bool, error) {
	if signal.InvalidationType.IsNone() || signal.InvalidationPrice.IsNone() || signal.InvalidationTimeframe.IsNone() {
		return false, nil
	}

	if signal.InvalidationTimeframe.Unwrap() != candle.Interval {
		return false, nil
	}

	rule := signal.InvalidationType.Unwrap()
	threshold := signal.InvalidationPrice.Unwrap()

	triggered := (rule == types.InvalidationCandleCloseBelow && candle.Close < threshold) ||
		(rule == types.InvalidationCandleCloseAbove && candle.Close > threshold)
	if !triggered {
		return false, nil
	}

	transitioned, err := e.store.CloseSignal(ctx, signal)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeEvaluationFailed, "failed to close signal on invalidation", err)
	}

	if !transitioned {
		return true, nil
	}

	event := types.SignalEvent{
		ID:       uuid.New().String(),
		SignalID: signal.ID,
		Event:    types.SignalEventInvalidation,
		Level:    optional.None[int](),
		Detail: types.EventDetail{
			Price:       candle.Close,
			CandleClose: optional.Some(candle.Close),
			Rule:        optional.Some(rule),
			Threshold:   optional.Some(threshold),
		},
	}
	if err := e.store.AppendEvent(ctx, event); err != nil {
		return false, errors.Wrap(errors.ErrCodeEvaluationFailed, "failed to append invalidation event", err)
	}

	e.logger.Info("Signal invalidated",
		zap.String("signal_id", signal.ID),
		zap.String("ticker", signal.Ticker),
		zap.String("rule", string(rule)),
		zap.Float64("close", candle.Close),
		zap.Float64("threshold", threshold),
	)
	e.notify(notifier.NewPositionClosed(signal, candle.Close, types.CloseReasonInvalidation))

	return true, nil
}

// notify is fire-and-forget: a full queue is logged, never propagated.
func (e *Evaluator) notify(notification notifier.Notification) {
	if err := e.sink.Enqueue(notification); err != nil {
		e.logger.Warn("Failed to enqueue notification",
			zap.String("kind", string(notification.Kind)),
			zap.String("signal_id", notification.SignalID),
			zap.Error(err),
		)
	}
}
