// Package replay feeds historical candles from a CSV file through the
// evaluator, used to re-derive signal state after downtime.
package replay

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/quantgate/signal-sentinel/internal/logger"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/quantgate/signal-sentinel/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// csv column layout, after the header row
const (
	colTicker = iota
	colInterval
	colOpen
	colHigh
	colLow
	colClose
	colCloseTime
	columnCount
)

// TriggerEvaluator consumes lifecycle triggers.
type TriggerEvaluator interface {
	Evaluate(ctx context.Context, trigger types.TriggerEvent) error
}

type Replayer struct {
	evaluator TriggerEvaluator
	logger    *logger.Logger
	// ShowProgress renders a progress bar while replaying.
	ShowProgress bool
}

func NewReplayer(eval TriggerEvaluator, log *logger.Logger) *Replayer {
	return &Replayer{
		evaluator:    eval,
		logger:       log,
		ShowProgress: false,
	}
}

// ReplayFile replays every candle row in the file, oldest first, as a price
// trigger followed by a candle_close trigger. Returns the number of candles
// replayed. A malformed row aborts the replay; evaluation errors for
// individual candles are logged and skipped.
func (r *Replayer) ReplayFile(ctx context.Context, path string) (int, error) {
	candles, err := readCandleFile(path)
	if err != nil {
		return 0, err
	}

	var bar *progressbar.ProgressBar
	if r.ShowProgress {
		bar = progressbar.NewOptions(len(candles),
			progressbar.OptionSetDescription("Replaying candles"),
			progressbar.OptionShowCount(),
		)
	}

	replayed := 0

	for _, row := range candles {
		if ctx.Err() != nil {
			return replayed, ctx.Err()
		}

		price := types.NewPriceTrigger(row.ticker, row.candle.Close)
		if err := r.evaluator.Evaluate(ctx, price); err != nil {
			r.logger.Error("replay price trigger failed",
				zap.String("ticker", row.ticker),
				zap.Error(err),
			)
		}

		candle := types.NewCandleTrigger(row.ticker, row.candle)
		if err := r.evaluator.Evaluate(ctx, candle); err != nil {
			r.logger.Error("replay candle trigger failed",
				zap.String("ticker", row.ticker),
				zap.Error(err),
			)
		}

		replayed++

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	return replayed, nil
}

type candleRow struct {
	ticker string
	candle types.Candle
}

// readCandleFile parses a CSV of candles with a header row:
// ticker,interval,open,high,low,close,close_time.
func readCandleFile(path string) ([]candleRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeConfigReadFailed, err, "failed to open candle file %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = columnCount

	// header
	if _, err := reader.Read(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCandle, "failed to read candle file header", err)
	}

	var rows []candleRow

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidCandle, err, "malformed candle row at line %d", line)
		}

		row, err := parseCandleRow(record)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidCandle, err, "malformed candle row at line %d", line)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func parseCandleRow(record []string) (candleRow, error) {
	open, err := strconv.ParseFloat(record[colOpen], 64)
	if err != nil {
		return candleRow{}, err
	}

	high, err := strconv.ParseFloat(record[colHigh], 64)
	if err != nil {
		return candleRow{}, err
	}

	low, err := strconv.ParseFloat(record[colLow], 64)
	if err != nil {
		return candleRow{}, err
	}

	closePrice, err := strconv.ParseFloat(record[colClose], 64)
	if err != nil {
		return candleRow{}, err
	}

	closeTime, err := strconv.ParseInt(record[colCloseTime], 10, 64)
	if err != nil {
		return candleRow{}, err
	}

	return candleRow{
		ticker: record[colTicker],
		candle: types.Candle{
			Interval:  types.Interval(record[colInterval]),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			CloseTime: closeTime,
		},
	}, nil
}
