package feed

import (
	"context"
	"iter"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/quantgate/signal-sentinel/pkg/errors"
)

// PolygonProvider polls the Polygon aggregates API. It is the provider for
// instruments Binance does not carry (equities).
type PolygonProvider struct {
	client       *polygon.Client
	pollInterval time.Duration
}

func NewPolygonProvider(apiKey string, pollInterval time.Duration) (*PolygonProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeFeedUnavailable, "polygon provider requires an api key")
	}

	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}

	return &PolygonProvider{
		client:       polygon.New(apiKey),
		pollInterval: pollInterval,
	}, nil
}

// Stream polls recent aggregates for each symbol. A bar whose window has
// elapsed is yielded once as a final candle; the in-progress bar is yielded
// on every poll as a non-final tick.
func (p *PolygonProvider) Stream(ctx context.Context, symbols []string, interval types.Interval) iter.Seq2[Tick, error] {
	return func(yield func(Tick, error) bool) {
		if len(symbols) == 0 {
			yield(Tick{}, errors.New(errors.ErrCodeFeedUnavailable, "no symbols provided"))
			return
		}

		multiplier, timespan, err := convertIntervalToPolygon(interval)
		if err != nil {
			yield(Tick{}, err)
			return
		}

		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		// Start timestamps (ms) of bars already emitted as final, per symbol.
		emitted := make(map[string]map[int64]bool)
		for _, symbol := range symbols {
			emitted[symbol] = make(map[int64]bool)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			now := time.Now()
			window := interval.Duration()

			for _, symbol := range symbols {
				params := models.ListAggsParams{
					Ticker:     symbol,
					Multiplier: multiplier,
					Timespan:   timespan,
					From:       models.Millis(now.Add(-3 * window)),
					To:         models.Millis(now),
				}.WithLimit(10)

				aggs := p.client.ListAggs(ctx, params)
				for aggs.Next() {
					agg := aggs.Item()
					startMillis := time.Time(agg.Timestamp).UnixMilli()
					closeAt := time.Time(agg.Timestamp).Add(window)
					final := !closeAt.After(now)

					if final && emitted[symbol][startMillis] {
						continue
					}

					tick := Tick{
						Symbol: symbol,
						Candle: types.Candle{
							Interval:  interval,
							Open:      agg.Open,
							High:      agg.High,
							Low:       agg.Low,
							Close:     agg.Close,
							CloseTime: closeAt.Unix(),
						},
						Final: final,
					}

					if !yield(tick, nil) {
						return
					}

					if final {
						emitted[symbol][startMillis] = true
					}
				}

				if aggErr := aggs.Err(); aggErr != nil {
					if !yield(Tick{}, errors.Wrapf(errors.ErrCodeStreamFailed, aggErr, "failed to poll aggregates for %s", symbol)) {
						return
					}
				}
			}
		}
	}
}

// convertIntervalToPolygon converts a candle interval to a polygon
// multiplier and timespan.
func convertIntervalToPolygon(interval types.Interval) (int, models.Timespan, error) {
	switch interval {
	case types.Interval1m:
		return 1, models.Minute, nil
	case types.Interval5m:
		return 5, models.Minute, nil
	case types.Interval15m:
		return 15, models.Minute, nil
	case types.Interval30m:
		return 30, models.Minute, nil
	case types.Interval1h:
		return 1, models.Hour, nil
	case types.Interval4h:
		return 4, models.Hour, nil
	case types.Interval6h:
		return 6, models.Hour, nil
	case types.Interval8h:
		return 8, models.Hour, nil
	case types.Interval12h:
		return 12, models.Hour, nil
	case types.Interval1d:
		return 1, models.Day, nil
	case types.Interval1w:
		return 1, models.Week, nil
	default:
		return 0, "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval %q for polygon aggregates", interval)
	}
}
