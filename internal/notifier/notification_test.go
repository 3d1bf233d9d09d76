package notifier

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/stretchr/testify/suite"
)

type NotificationTestSuite struct {
	suite.Suite
}

func TestNotificationSuite(t *testing.T) {
	suite.Run(t, new(NotificationTestSuite))
}

func (suite *NotificationTestSuite) testSignal() types.Signal {
	return types.Signal{
		ID:         uuid.New().String(),
		Ticker:     "BTC",
		Direction:  types.DirectionLong,
		EntryPrice: 100,
		Targets:    []float64{110, 120},
		Status:     types.SignalStatusActive,
	}
}

func (suite *NotificationTestSuite) TestNewTargetHit() {
	signal := suite.testSignal()
	n := NewTargetHit(signal, 111, 1, 110)

	suite.Equal(NotificationType, n.Type)
	suite.Equal("BTC", n.Ticker)
	suite.Equal(KindTargetHit, n.Kind)
	suite.Equal(signal.ID, n.SignalID)
	suite.Equal(111.0, n.Price)
	suite.Equal(1, n.Level.Unwrap())
	suite.Equal(110.0, n.Target.Unwrap())
	suite.True(n.Reason.IsNone())
}

func (suite *NotificationTestSuite) TestNewPositionClosed() {
	signal := suite.testSignal()
	n := NewPositionClosed(signal, 89, types.CloseReasonStopLossHit)

	suite.Equal(KindPositionClosed, n.Kind)
	suite.Equal(89.0, n.Price)
	suite.Equal(types.CloseReasonStopLossHit, n.Reason.Unwrap())
	suite.True(n.Level.IsNone())
}

func (suite *NotificationTestSuite) TestJSONEnvelope() {
	signal := suite.testSignal()
	n := NewPositionClosed(signal, 89, types.CloseReasonStopLossHit)

	payload, err := json.Marshal(n)
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal(payload, &decoded))
	suite.Equal("live_trading_event", decoded["type"])
	suite.Equal("position_closed", decoded["kind"])
	suite.Equal("stop_loss_hit", decoded["reason"])
}

func (suite *NotificationTestSuite) TestText() {
	signal := suite.testSignal()

	targetText := NewTargetHit(signal, 111, 1, 110).Text()
	suite.Contains(targetText, "BTC")
	suite.Contains(targetText, "target 1")

	closedText := NewPositionClosed(signal, 89, types.CloseReasonInvalidation).Text()
	suite.Contains(closedText, "position closed")
	suite.Contains(closedText, "invalidation")
}
