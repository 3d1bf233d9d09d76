// Package feed bridges external market data sources to lifecycle triggers.
// A Provider streams candle ticks for a set of symbols; the Runner turns
// every tick into a price trigger and every finalized candle into a
// candle_close trigger.
package feed

import (
	"context"
	"iter"
	"time"

	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/quantgate/signal-sentinel/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderBinance ProviderType = "binance"
	ProviderPolygon ProviderType = "polygon"
)

// Tick is one observation from a provider. Candle carries the in-progress
// OHLC for the current interval; Final marks a completed candle.
type Tick struct {
	Symbol string
	Candle types.Candle
	Final  bool
}

type Provider interface {
	// Stream returns an iterator that yields realtime candle ticks.
	// The iterator yields Tick and error pairs. Cancel the context to stop
	// streaming.
	Stream(ctx context.Context, symbols []string, interval types.Interval) iter.Seq2[Tick, error]
}

// ProviderConfig carries provider-specific settings.
type ProviderConfig struct {
	PolygonAPIKey string
	PollInterval  time.Duration
}

// NewProvider creates a market data provider based on the provider type.
func NewProvider(providerType ProviderType, config ProviderConfig) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceProvider(), nil
	case ProviderPolygon:
		return NewPolygonProvider(config.PolygonAPIKey, config.PollInterval)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
