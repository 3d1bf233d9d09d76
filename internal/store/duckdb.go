package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/quantgate/signal-sentinel/internal/logger"
	"github.com/quantgate/signal-sentinel/internal/types"
	"github.com/quantgate/signal-sentinel/internal/version"
	"github.com/quantgate/signal-sentinel/pkg/errors"
	"go.uber.org/zap"
)

// SchemaVersion is recorded in the database on first initialization and
// checked on every subsequent open. Same major.minor required, patch free.
const SchemaVersion = "1.0.0"

var signalColumns = []string{
	"id", "ticker", "direction", "entry_price", "stop_loss_price",
	"targets", "hit_targets",
	"invalidation_type", "invalidation_price", "invalidation_timeframe",
	"current_price", "current_profit_pct", "max_profit_pct",
	"stopped_out", "status", "created_at", "updated_at",
}

// DuckDBStore implements SignalStore on an embedded DuckDB database.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBStore opens (or creates) a DuckDB database at the given path.
// Use ":memory:" for an ephemeral store.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to open database", err)
	}

	return &DuckDBStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the signal tables and verifies the schema version.
func (s *DuckDBStore) Initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS signals (
			id TEXT PRIMARY KEY,
			ticker TEXT NOT NULL,
			direction TEXT NOT NULL,
			entry_price DOUBLE NOT NULL,
			stop_loss_price DOUBLE,
			targets TEXT NOT NULL,
			hit_targets TEXT NOT NULL,
			invalidation_type TEXT,
			invalidation_price DOUBLE,
			invalidation_timeframe TEXT,
			current_price DOUBLE,
			current_profit_pct DOUBLE,
			max_profit_pct DOUBLE,
			stopped_out BOOLEAN,
			status TEXT NOT NULL,
			created_at TIMESTAMP,
			updated_at TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create signals table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS signal_events (
			id TEXT PRIMARY KEY,
			signal_id TEXT NOT NULL,
			event TEXT NOT NULL,
			level INTEGER,
			detail TEXT,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create signal_events table", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_info (version TEXT NOT NULL)`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create schema_info table", err)
	}

	return s.checkSchemaVersion()
}

func (s *DuckDBStore) checkSchemaVersion() error {
	var stored string

	err := s.db.QueryRow(`SELECT version FROM schema_info LIMIT 1`).Scan(&stored)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, SchemaVersion); err != nil {
			return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to record schema version", err)
		}

		return nil
	}

	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to read schema version", err)
	}

	if err := version.CheckSchemaCompatibility(SchemaVersion, stored); err != nil {
		return errors.Wrap(errors.ErrCodeSchemaIncompatible, "incompatible database schema", err)
	}

	return nil
}

// CreateSignal implements SignalStore.
func (s *DuckDBStore) CreateSignal(ctx context.Context, signal types.Signal) error {
	now := time.Now().UTC()
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = now
	}

	if signal.UpdatedAt.IsZero() {
		signal.UpdatedAt = now
	}

	targets, err := encodeFloats(signal.Targets)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to encode targets", err)
	}

	hitTargets, err := encodeInts(signal.HitTargets)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to encode hit targets", err)
	}

	query, args, err := s.sq.
		Insert("signals").
		Columns(signalColumns...).
		Values(
			signal.ID, signal.Ticker, string(signal.Direction), signal.EntryPrice,
			floatOrNil(signal.StopLossPrice),
			targets, hitTargets,
			invalidationTypeOrNil(signal.InvalidationType),
			floatOrNil(signal.InvalidationPrice),
			intervalOrNil(signal.InvalidationTimeframe),
			signal.CurrentPrice,
			floatOrNil(signal.CurrentProfitPct),
			floatOrNil(signal.MaxProfitPct),
			signal.StoppedOut, string(signal.Status),
			signal.CreatedAt, signal.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build insert query", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert signal", err)
	}

	s.logger.Debug("Signal created",
		zap.String("id", signal.ID),
		zap.String("ticker", signal.Ticker),
	)

	return nil
}

// GetSignal implements SignalStore.
func (s *DuckDBStore) GetSignal(ctx context.Context, id string) (types.Signal, error) {
	query, args, err := s.sq.
		Select(signalColumns...).
		From("signals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return types.Signal{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build select query", err)
	}

	row := s.db.QueryRowContext(ctx, query, args...)

	signal, err := scanSignal(row)
	if err == sql.ErrNoRows {
		return types.Signal{}, errors.Newf(errors.ErrCodeSignalNotFound, "signal %s not found", id)
	}

	if err != nil {
		return types.Signal{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan signal", err)
	}

	return signal, nil
}

// ListSignals implements SignalStore.
func (s *DuckDBStore) ListSignals(ctx context.Context, filter ListFilter) ([]types.Signal, error) {
	builder := s.sq.
		Select(signalColumns...).
		From("signals").
		OrderBy("created_at DESC")

	if filter.Ticker != "" {
		builder = builder.Where(squirrel.Eq{"ticker": filter.Ticker})
	}

	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": string(filter.Status)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build list query", err)
	}

	return s.querySignals(ctx, query, args)
}

// ListActiveByTicker implements SignalStore.
func (s *DuckDBStore) ListActiveByTicker(ctx context.Context, ticker string) ([]types.Signal, error) {
	query, args, err := s.sq.
		Select(signalColumns...).
		From("signals").
		Where(squirrel.And{
			squirrel.Eq{"ticker": ticker},
			squirrel.Eq{"status": string(types.SignalStatusActive)},
		}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build active signals query", err)
	}

	return s.querySignals(ctx, query, args)
}

func (s *DuckDBStore) querySignals(ctx context.Context, query string, args []any) ([]types.Signal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query signals", err)
	}
	defer rows.Close()

	signals := make([]types.Signal, 0)

	for rows.Next() {
		signal, err := scanSignal(rows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan signal row", err)
		}

		signals = append(signals, signal)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate signal rows", err)
	}

	return signals, nil
}

// UpdateActive implements SignalStore.
func (s *DuckDBStore) UpdateActive(ctx context.Context, signal types.Signal) (bool, error) {
	return s.updateGuarded(ctx, signal, types.SignalStatusActive)
}

// CloseSignal implements SignalStore.
func (s *DuckDBStore) CloseSignal(ctx context.Context, signal types.Signal) (bool, error) {
	signal.Status = types.SignalStatusClosed

	return s.updateGuarded(ctx, signal, types.SignalStatusClosed)
}

// updateGuarded writes the signal's mutable fields, but only while the row is
// still active. The guard keeps closed signals immutable and prevents two
// racing invocations from both firing the same close transition.
func (s *DuckDBStore) updateGuarded(ctx context.Context, signal types.Signal, newStatus types.SignalStatus) (bool, error) {
	hitTargets, err := encodeInts(signal.HitTargets)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to encode hit targets", err)
	}

	query, args, err := s.sq.
		Update("signals").
		Set("hit_targets", hitTargets).
		Set("current_price", signal.CurrentPrice).
		Set("current_profit_pct", floatOrNil(signal.CurrentProfitPct)).
		Set("max_profit_pct", floatOrNil(signal.MaxProfitPct)).
		Set("stopped_out", signal.StoppedOut).
		Set("status", string(newStatus)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.And{
			squirrel.Eq{"id": signal.ID},
			squirrel.Eq{"status": string(types.SignalStatusActive)},
		}).
		ToSql()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build update query", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to update signal", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read rows affected", err)
	}

	return affected > 0, nil
}

// AppendEvent implements SignalStore.
func (s *DuckDBStore) AppendEvent(ctx context.Context, event types.SignalEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	detail, err := json.Marshal(event.Detail)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEventAppendFailed, "failed to encode event detail", err)
	}

	query, args, err := s.sq.
		Insert("signal_events").
		Columns("id", "signal_id", "event", "level", "detail", "created_at").
		Values(
			event.ID, event.SignalID, string(event.Event),
			intOrNil(event.Level), string(detail), event.CreatedAt,
		).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeEventAppendFailed, "failed to build event insert", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeEventAppendFailed, "failed to insert signal event", err)
	}

	return nil
}

// ListEvents implements SignalStore.
func (s *DuckDBStore) ListEvents(ctx context.Context, signalID string) ([]types.SignalEvent, error) {
	query, args, err := s.sq.
		Select("id", "signal_id", "event", "level", "detail", "created_at").
		From("signal_events").
		Where(squirrel.Eq{"signal_id": signalID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build events query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query signal events", err)
	}
	defer rows.Close()

	events := make([]types.SignalEvent, 0)

	for rows.Next() {
		var (
			event     types.SignalEvent
			eventType string
			level     sql.NullInt32
			detail    sql.NullString
		)

		if err := rows.Scan(&event.ID, &event.SignalID, &eventType, &level, &detail, &event.CreatedAt); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan event row", err)
		}

		event.Event = types.SignalEventType(eventType)

		if level.Valid {
			event.Level = optional.Some(int(level.Int32))
		} else {
			event.Level = optional.None[int]()
		}

		if detail.Valid && detail.String != "" {
			if err := json.Unmarshal([]byte(detail.String), &event.Detail); err != nil {
				return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to decode event detail", err)
			}
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate event rows", err)
	}

	return events, nil
}

// Close implements SignalStore.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignal(row rowScanner) (types.Signal, error) {
	var (
		signal                types.Signal
		direction             string
		status                string
		stopLoss              sql.NullFloat64
		targets               string
		hitTargets            string
		invalidationType      sql.NullString
		invalidationPrice     sql.NullFloat64
		invalidationTimeframe sql.NullString
		currentPrice          sql.NullFloat64
		currentProfitPct      sql.NullFloat64
		maxProfitPct          sql.NullFloat64
	)

	err := row.Scan(
		&signal.ID, &signal.Ticker, &direction, &signal.EntryPrice, &stopLoss,
		&targets, &hitTargets,
		&invalidationType, &invalidationPrice, &invalidationTimeframe,
		&currentPrice, &currentProfitPct, &maxProfitPct,
		&signal.StoppedOut, &status, &signal.CreatedAt, &signal.UpdatedAt,
	)
	if err != nil {
		return types.Signal{}, err
	}

	signal.Direction = types.Direction(direction)
	signal.Status = types.SignalStatus(status)

	if err := json.Unmarshal([]byte(targets), &signal.Targets); err != nil {
		return types.Signal{}, err
	}

	if err := json.Unmarshal([]byte(hitTargets), &signal.HitTargets); err != nil {
		return types.Signal{}, err
	}

	signal.StopLossPrice = nullToOptionFloat(stopLoss)
	signal.InvalidationPrice = nullToOptionFloat(invalidationPrice)
	signal.CurrentProfitPct = nullToOptionFloat(currentProfitPct)
	signal.MaxProfitPct = nullToOptionFloat(maxProfitPct)

	if currentPrice.Valid {
		signal.CurrentPrice = currentPrice.Float64
	}

	if invalidationType.Valid {
		signal.InvalidationType = optional.Some(types.InvalidationType(invalidationType.String))
	} else {
		signal.InvalidationType = optional.None[types.InvalidationType]()
	}

	if invalidationTimeframe.Valid {
		signal.InvalidationTimeframe = optional.Some(types.Interval(invalidationTimeframe.String))
	} else {
		signal.InvalidationTimeframe = optional.None[types.Interval]()
	}

	return signal, nil
}

func encodeFloats(values []float64) (string, error) {
	if values == nil {
		values = []float64{}
	}

	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

func encodeInts(values []int) (string, error) {
	if values == nil {
		values = []int{}
	}

	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

func nullToOptionFloat(v sql.NullFloat64) optional.Option[float64] {
	if v.Valid {
		return optional.Some(v.Float64)
	}

	return optional.None[float64]()
}

func floatOrNil(o optional.Option[float64]) any {
	if o.IsNone() {
		return nil
	}

	return o.Unwrap()
}

func intOrNil(o optional.Option[int]) any {
	if o.IsNone() {
		return nil
	}

	return o.Unwrap()
}

func invalidationTypeOrNil(o optional.Option[types.InvalidationType]) any {
	if o.IsNone() {
		return nil
	}

	return string(o.Unwrap())
}

func intervalOrNil(o optional.Option[types.Interval]) any {
	if o.IsNone() {
		return nil
	}

	return string(o.Unwrap())
}
