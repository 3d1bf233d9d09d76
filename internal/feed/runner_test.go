package feed

import (
	"context"
	"iter"
	"testing"

	"github.com/quantgate/signal-sentinel/internal/logger"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/quantgate/signal-sentinel/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// fakeProvider yields a fixed sequence of ticks and errors.
type fakeProvider struct {
	ticks []Tick
	errs  []error
}

func (f *fakeProvider) Stream(_ context.Context, _ []string, _ types.Interval) iter.Seq2[Tick, error] {
	return func(yield func(Tick, error) bool) {
		for _, err := range f.errs {
			if !yield(Tick{}, err) {
				return
			}
		}
		for _, tick := range f.ticks {
			if !yield(tick, nil) {
				return
			}
		}
	}
}

// recordingEvaluator captures every trigger it receives.
type recordingEvaluator struct {
	triggers []types.TriggerEvent
	err      error
}

func (r *recordingEvaluator) Evaluate(_ context.Context, trigger types.TriggerEvent) error {
	r.triggers = append(r.triggers, trigger)

	return r.err
}

type RunnerTestSuite struct {
	suite.Suite
	logger *logger.Logger
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (s *RunnerTestSuite) SetupTest() {
	log, err := logger.NewLogger()
	s.Require().NoError(err)
	s.logger = log
}

func (s *RunnerTestSuite) TestNonFinalTickBecomesPriceTrigger() {
	provider := &fakeProvider{
		ticks: []Tick{
			{Symbol: "BTC", Candle: types.Candle{Interval: types.Interval1m, Close: 42000}, Final: false},
		},
	}
	eval := &recordingEvaluator{}

	err := NewRunner(provider, eval, s.logger).Run(context.Background(), []string{"BTC"}, types.Interval1m)
	s.Require().NoError(err)

	s.Require().Len(eval.triggers, 1)
	s.Equal(types.TriggerPrice, eval.triggers[0].Event)
	s.Equal("BTC", eval.triggers[0].Ticker)
	s.Equal(42000.0, eval.triggers[0].Price)
}

func (s *RunnerTestSuite) TestFinalTickBecomesPriceAndCandleTriggers() {
	candle := types.Candle{Interval: types.Interval1h, Open: 100, High: 110, Low: 95, Close: 108, CloseTime: 1699999999}
	provider := &fakeProvider{
		ticks: []Tick{{Symbol: "BTC", Candle: candle, Final: true}},
	}
	eval := &recordingEvaluator{}

	err := NewRunner(provider, eval, s.logger).Run(context.Background(), []string{"BTC"}, types.Interval1h)
	s.Require().NoError(err)

	s.Require().Len(eval.triggers, 2)
	s.Equal(types.TriggerPrice, eval.triggers[0].Event)
	s.Equal(types.TriggerCandleClose, eval.triggers[1].Event)
	s.Require().NotNil(eval.triggers[1].Candle)
	s.Equal(candle, *eval.triggers[1].Candle)
}

func (s *RunnerTestSuite) TestEvaluationErrorDoesNotStopStream() {
	provider := &fakeProvider{
		ticks: []Tick{
			{Symbol: "BTC", Candle: types.Candle{Close: 100}, Final: false},
			{Symbol: "BTC", Candle: types.Candle{Close: 101}, Final: false},
		},
	}
	eval := &recordingEvaluator{err: errors.New(errors.ErrCodeEvaluationFailed, "boom")}

	err := NewRunner(provider, eval, s.logger).Run(context.Background(), []string{"BTC"}, types.Interval1m)
	s.Require().NoError(err)
	s.Len(eval.triggers, 2)
}

func (s *RunnerTestSuite) TestStreamErrorSurfacesWhenStreamEnds() {
	provider := &fakeProvider{
		errs: []error{errors.New(errors.ErrCodeStreamFailed, "stream down")},
	}
	eval := &recordingEvaluator{}

	err := NewRunner(provider, eval, s.logger).Run(context.Background(), []string{"BTC"}, types.Interval1m)
	s.Require().Error(err)
	s.Equal(errors.ErrCodeStreamFailed, errors.GetCode(err))
	s.Empty(eval.triggers)
}
