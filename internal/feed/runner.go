package feed

import (
	"context"

	"github.com/quantgate/signal-sentinel/internal/logger"
	"github.com/quantgate/signal-sentinel/internal/types"
	"go.uber.org/zap"
)

// TriggerEvaluator consumes lifecycle triggers. Satisfied by
// evaluator.Evaluator.
type TriggerEvaluator interface {
	Evaluate(ctx context.Context, trigger types.TriggerEvent) error
}

// Runner connects a Provider to the evaluator: every tick becomes a price
// trigger, every finalized candle additionally becomes a candle_close
// trigger.
type Runner struct {
	provider  Provider
	evaluator TriggerEvaluator
	logger    *logger.Logger
}

func NewRunner(provider Provider, eval TriggerEvaluator, log *logger.Logger) *Runner {
	return &Runner{
		provider:  provider,
		evaluator: eval,
		logger:    log,
	}
}

// Run streams ticks until the context is canceled. Evaluation and stream
// errors are logged; the stream keeps running.
func (r *Runner) Run(ctx context.Context, symbols []string, interval types.Interval) error {
	r.logger.Info("starting feed",
		zap.Strings("symbols", symbols),
		zap.String("interval", string(interval)),
	)

	var streamErr error

	for tick, err := range r.provider.Stream(ctx, symbols, interval) {
		if err != nil {
			streamErr = err
			r.logger.Error("feed stream error", zap.Error(err))
			continue
		}

		price := types.NewPriceTrigger(tick.Symbol, tick.Candle.Close)
		if err := r.evaluator.Evaluate(ctx, price); err != nil {
			r.logger.Error("price trigger failed",
				zap.String("symbol", tick.Symbol),
				zap.Error(err),
			)
		}

		if !tick.Final {
			continue
		}

		candle := types.NewCandleTrigger(tick.Symbol, tick.Candle)
		if err := r.evaluator.Evaluate(ctx, candle); err != nil {
			r.logger.Error("candle trigger failed",
				zap.String("symbol", tick.Symbol),
				zap.Error(err),
			)
		}
	}

	// A canceled context is a normal shutdown; anything else means the
	// stream ended on its own.
	if ctx.Err() != nil {
		return nil
	}

	return streamErr
}
