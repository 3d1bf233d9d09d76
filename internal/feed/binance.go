package feed

import (
	"context"
	"iter"
	"strconv"

	binance "github.com/adshao/go-binance/v2"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/quantgate/signal-sentinel/pkg/errors"
)

// BinanceWsKline is a kline payload from the Binance websocket stream.
type BinanceWsKline struct {
	StartTime int64
	EndTime   int64
	Interval  string
	Open      string
	High      string
	Low       string
	Close     string
	Volume    string
	IsFinal   bool
}

// BinanceWsKlineEvent is a kline event from the Binance websocket stream.
type BinanceWsKlineEvent struct {
	Symbol string
	Kline  BinanceWsKline
}

type WsKlineHandler func(event *BinanceWsKlineEvent)

type WsErrorHandler func(err error)

// BinanceWebSocketService abstracts the Binance websocket kline subscription
// so streams can be tested without a live connection.
type BinanceWebSocketService interface {
	WsKlineServe(symbol string, interval string, handler WsKlineHandler, errHandler WsErrorHandler) (doneC chan struct{}, stopC chan struct{}, err error)
}

// binanceWebSocketService is the production implementation backed by the
// Binance client library.
type binanceWebSocketService struct{}

func (binanceWebSocketService) WsKlineServe(symbol string, interval string, handler WsKlineHandler, errHandler WsErrorHandler) (chan struct{}, chan struct{}, error) {
	return binance.WsKlineServe(symbol, interval, func(event *binance.WsKlineEvent) {
		handler(&BinanceWsKlineEvent{
			Symbol: event.Symbol,
			Kline: BinanceWsKline{
				StartTime: event.Kline.StartTime,
				EndTime:   event.Kline.EndTime,
				Interval:  event.Kline.Interval,
				Open:      event.Kline.Open,
				High:      event.Kline.High,
				Low:       event.Kline.Low,
				Close:     event.Kline.Close,
				Volume:    event.Kline.Volume,
				IsFinal:   event.Kline.IsFinal,
			},
		})
	}, binance.ErrHandler(errHandler))
}

type BinanceProvider struct {
	ws BinanceWebSocketService
}

// NewBinanceProvider creates a provider streaming from the public Binance
// websocket endpoint.
func NewBinanceProvider() *BinanceProvider {
	return &BinanceProvider{ws: binanceWebSocketService{}}
}

// NewBinanceProviderWithWebSocket creates a provider with a custom websocket
// service, used in tests.
func NewBinanceProviderWithWebSocket(ws BinanceWebSocketService) *BinanceProvider {
	return &BinanceProvider{ws: ws}
}

// Stream subscribes to kline updates for all symbols and yields every update
// as a Tick. Finalized klines are marked Final.
func (p *BinanceProvider) Stream(ctx context.Context, symbols []string, interval types.Interval) iter.Seq2[Tick, error] {
	return func(yield func(Tick, error) bool) {
		if len(symbols) == 0 {
			yield(Tick{}, errors.New(errors.ErrCodeFeedUnavailable, "no symbols provided"))
			return
		}

		if !isValidBinanceInterval(string(interval)) {
			yield(Tick{}, errors.Newf(errors.ErrCodeInvalidInterval, "invalid interval %q for binance stream", interval))
			return
		}

		ticks := make(chan Tick, 64)
		wsErrs := make(chan error, 8)

		var stops []chan struct{}
		defer func() {
			for _, stopC := range stops {
				close(stopC)
			}
		}()

		for _, symbol := range symbols {
			_, stopC, err := p.ws.WsKlineServe(symbol, string(interval),
				func(event *BinanceWsKlineEvent) {
					tick, convErr := convertWsKlineEvent(event)
					if convErr != nil {
						select {
						case wsErrs <- convErr:
						default:
						}
						return
					}
					select {
					case ticks <- tick:
					case <-ctx.Done():
					}
				},
				func(err error) {
					select {
					case wsErrs <- err:
					default:
					}
				})
			if err != nil {
				yield(Tick{}, errors.Wrapf(errors.ErrCodeStreamFailed, err, "failed to start websocket stream for %s", symbol))
				return
			}

			stops = append(stops, stopC)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case err := <-wsErrs:
				if !yield(Tick{}, errors.Wrap(errors.ErrCodeStreamFailed, "websocket error", err)) {
					return
				}
			case tick := <-ticks:
				if !yield(tick, nil) {
					return
				}
			}
		}
	}
}

// convertWsKlineEvent converts a Binance kline event to a Tick.
func convertWsKlineEvent(event *BinanceWsKlineEvent) (Tick, error) {
	open, err := strconv.ParseFloat(event.Kline.Open, 64)
	if err != nil {
		return Tick{}, errors.Wrap(errors.ErrCodeInvalidCandle, "unparseable kline open", err)
	}

	high, err := strconv.ParseFloat(event.Kline.High, 64)
	if err != nil {
		return Tick{}, errors.Wrap(errors.ErrCodeInvalidCandle, "unparseable kline high", err)
	}

	low, err := strconv.ParseFloat(event.Kline.Low, 64)
	if err != nil {
		return Tick{}, errors.Wrap(errors.ErrCodeInvalidCandle, "unparseable kline low", err)
	}

	closePrice, err := strconv.ParseFloat(event.Kline.Close, 64)
	if err != nil {
		return Tick{}, errors.Wrap(errors.ErrCodeInvalidCandle, "unparseable kline close", err)
	}

	return Tick{
		Symbol: event.Symbol,
		Candle: types.Candle{
			Interval:  types.Interval(event.Kline.Interval),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			CloseTime: event.Kline.EndTime / 1000,
		},
		Final: event.Kline.IsFinal,
	}, nil
}

// isValidBinanceInterval reports whether the interval is accepted by the
// Binance kline stream.
func isValidBinanceInterval(interval string) bool {
	switch interval {
	case "1m", "3m", "5m", "15m", "30m",
		"1h", "2h", "4h", "6h", "8h", "12h",
		"1d", "3d", "1w", "1M":
		return true
	default:
		return false
	}
}
