package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/stretchr/testify/suite"
)

// mockBinanceWebSocketService implements BinanceWebSocketService for testing.
type mockBinanceWebSocketService struct {
	events     []*BinanceWsKlineEvent
	errors     []error
	startError error
	eventDelay time.Duration
}

func (m *mockBinanceWebSocketService) WsKlineServe(
	symbol string,
	interval string,
	handler WsKlineHandler,
	errHandler WsErrorHandler,
) (doneC chan struct{}, stopC chan struct{}, err error) {
	if m.startError != nil {
		return nil, nil, m.startError
	}

	doneC = make(chan struct{})
	stopC = make(chan struct{})

	go func() {
		defer close(doneC)

		for _, event := range m.events {
			select {
			case <-stopC:
				return
			default:
				if m.eventDelay > 0 {
					time.Sleep(m.eventDelay)
				}
				handler(event)
			}
		}

		for _, err := range m.errors {
			errHandler(err)
		}

		select {
		case <-stopC:
		case <-time.After(5 * time.Second):
		}
	}()

	return doneC, stopC, nil
}

type BinanceStreamTestSuite struct {
	suite.Suite
}

func TestBinanceStreamSuite(t *testing.T) {
	suite.Run(t, new(BinanceStreamTestSuite))
}

func klineEvent(symbol string, closePrice string, final bool) *BinanceWsKlineEvent {
	return &BinanceWsKlineEvent{
		Symbol: symbol,
		Kline: BinanceWsKline{
			StartTime: 1704067200000,
			EndTime:   1704067259999,
			Interval:  "1m",
			Open:      "42000.50",
			High:      "42500.00",
			Low:       "41800.00",
			Close:     closePrice,
			Volume:    "1000.5",
			IsFinal:   final,
		},
	}
}

func (suite *BinanceStreamTestSuite) TestStreamYieldsTicks() {
	events := []*BinanceWsKlineEvent{
		klineEvent("BTCUSDT", "42300.00", false),
		klineEvent("BTCUSDT", "42550.00", true),
	}

	mockWs := &mockBinanceWebSocketService{events: events}
	provider := NewBinanceProviderWithWebSocket(mockWs)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var received []Tick

	for tick, err := range provider.Stream(ctx, []string{"BTCUSDT"}, types.Interval1m) {
		if err != nil {
			break
		}
		received = append(received, tick)
		if len(received) == 2 {
			break
		}
	}

	suite.Require().Len(received, 2)
	suite.Equal("BTCUSDT", received[0].Symbol)
	suite.InDelta(42300.00, received[0].Candle.Close, 0.01)
	suite.False(received[0].Final)
	suite.InDelta(42550.00, received[1].Candle.Close, 0.01)
	suite.True(received[1].Final)
	suite.Equal(types.Interval1m, received[1].Candle.Interval)
	suite.Equal(int64(1704067259), received[1].Candle.CloseTime)
}

func (suite *BinanceStreamTestSuite) TestStreamInvalidInterval() {
	provider := NewBinanceProviderWithWebSocket(&mockBinanceWebSocketService{})

	var gotError bool
	var errorMsg string
	for _, err := range provider.Stream(context.Background(), []string{"BTCUSDT"}, types.Interval("2m")) {
		if err != nil {
			gotError = true
			errorMsg = err.Error()
			break
		}
	}

	suite.True(gotError)
	suite.Contains(errorMsg, "invalid interval")
}

func (suite *BinanceStreamTestSuite) TestStreamEmptySymbols() {
	provider := NewBinanceProviderWithWebSocket(&mockBinanceWebSocketService{})

	var gotError bool
	var errorMsg string
	for _, err := range provider.Stream(context.Background(), []string{}, types.Interval1m) {
		if err != nil {
			gotError = true
			errorMsg = err.Error()
			break
		}
	}

	suite.True(gotError)
	suite.Contains(errorMsg, "no symbols provided")
}

func (suite *BinanceStreamTestSuite) TestStreamConnectionError() {
	mockWs := &mockBinanceWebSocketService{
		startError: errors.New("connection refused"),
	}
	provider := NewBinanceProviderWithWebSocket(mockWs)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var gotError bool
	var errorMsg string
	for _, err := range provider.Stream(ctx, []string{"BTCUSDT"}, types.Interval1m) {
		if err != nil {
			gotError = true
			errorMsg = err.Error()
			break
		}
	}

	suite.True(gotError)
	suite.Contains(errorMsg, "failed to start websocket")
	suite.Contains(errorMsg, "connection refused")
}

func (suite *BinanceStreamTestSuite) TestStreamWebSocketError() {
	mockWs := &mockBinanceWebSocketService{
		events: []*BinanceWsKlineEvent{},
		errors: []error{errors.New("websocket disconnected")},
	}
	provider := NewBinanceProviderWithWebSocket(mockWs)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var gotError bool
	var errorMsg string
	for _, err := range provider.Stream(ctx, []string{"BTCUSDT"}, types.Interval1m) {
		if err != nil {
			gotError = true
			errorMsg = err.Error()
			break
		}
	}

	suite.True(gotError)
	suite.Contains(errorMsg, "websocket error")
	suite.Contains(errorMsg, "websocket disconnected")
}

func (suite *BinanceStreamTestSuite) TestStreamContextCancellation() {
	mockWs := &mockBinanceWebSocketService{
		events:     []*BinanceWsKlineEvent{klineEvent("BTCUSDT", "42300.00", false)},
		eventDelay: 50 * time.Millisecond,
	}
	provider := NewBinanceProviderWithWebSocket(mockWs)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	iterationCount := 0
	for range provider.Stream(ctx, []string{"BTCUSDT"}, types.Interval1m) {
		iterationCount++
		if iterationCount > 10 {
			break
		}
	}

	suite.LessOrEqual(iterationCount, 10)
}

func (suite *BinanceStreamTestSuite) TestConvertWsKlineEvent() {
	tick, err := convertWsKlineEvent(klineEvent("ETHUSDT", "2340.00", true))
	suite.Require().NoError(err)

	suite.Equal("ETHUSDT", tick.Symbol)
	suite.InDelta(42000.50, tick.Candle.Open, 0.01)
	suite.InDelta(2340.00, tick.Candle.Close, 0.01)
	suite.True(tick.Final)

	event := klineEvent("ETHUSDT", "not-a-number", true)
	_, err = convertWsKlineEvent(event)
	suite.Require().Error(err)
}

func (suite *BinanceStreamTestSuite) TestIsValidBinanceInterval() {
	suite.True(isValidBinanceInterval("1m"))
	suite.True(isValidBinanceInterval("15m"))
	suite.True(isValidBinanceInterval("1h"))
	suite.True(isValidBinanceInterval("4h"))
	suite.True(isValidBinanceInterval("1d"))
	suite.True(isValidBinanceInterval("1w"))

	suite.False(isValidBinanceInterval("2m"))
	suite.False(isValidBinanceInterval("7h"))
	suite.False(isValidBinanceInterval(""))
}
