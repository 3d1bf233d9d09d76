package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/quantgate/signal-sentinel/internal/logger"
	"github.com/quantgate/signal-sentinel/pkg/errors"
	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultQueueSize   = 256
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// DispatcherConfig configures the notification queue and its retry policy.
type DispatcherConfig struct {
	// QueueSize is the notification queue capacity (default: 256).
	QueueSize int `json:"queue_size" yaml:"queue_size" jsonschema:"description=Notification queue capacity,default=256"`
	// MaxAttempts is the number of delivery attempts per backend (default: 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" jsonschema:"description=Delivery attempts per backend,default=3"`
	// RetryDelay is the base delay between attempts, multiplied linearly (default: 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" jsonschema:"description=Base delay between delivery attempts"`
}

// Dispatcher decouples evaluation from notification delivery: the evaluator
// enqueues and moves on, a background worker delivers with its own retry
// policy. Delivery failures never reach the evaluator.
type Dispatcher struct {
	config    DispatcherConfig
	notifiers []Notifier
	queue     chan Notification
	logger    *logger.Logger
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewDispatcher creates a Dispatcher with the given configuration.
func NewDispatcher(config DispatcherConfig, log *logger.Logger) *Dispatcher {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}

	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}

	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}

	return &Dispatcher{
		config:    config,
		notifiers: nil,
		queue:     make(chan Notification, config.QueueSize),
		logger:    log,
	}
}

// Register adds a delivery backend. Must be called before Start.
func (d *Dispatcher) Register(n Notifier) {
	d.notifiers = append(d.notifiers, n)
}

// Start launches the delivery worker. The worker runs until Stop is called
// or the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		d.wg.Add(1)

		go d.run(ctx)
	})
}

// Enqueue queues a notification without blocking. When the queue is full the
// notification is dropped and an error returned; callers treat this as
// fire-and-forget and only log it.
func (d *Dispatcher) Enqueue(notification Notification) error {
	select {
	case d.queue <- notification:
		return nil
	default:
		return errors.Newf(errors.ErrCodeQueueFull,
			"notification queue full, dropping %s for %s", notification.Kind, notification.Ticker)
	}
}

// Stop closes the queue and waits for the worker to drain it.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case notification, ok := <-d.queue:
			if !ok {
				return
			}

			d.deliver(ctx, notification)
		}
	}
}

// deliver attempts delivery to every registered backend with linear-backoff
// retry. Failures are logged and swallowed.
func (d *Dispatcher) deliver(ctx context.Context, notification Notification) {
	for _, n := range d.notifiers {
		var lastErr error

		for attempt := 1; attempt <= d.config.MaxAttempts; attempt++ {
			lastErr = n.Send(ctx, notification)
			if lastErr == nil {
				break
			}

			if attempt < d.config.MaxAttempts {
				select {
				case <-ctx.Done():
					return
				case <-time.After(d.config.RetryDelay * time.Duration(attempt)):
				}
			}
		}

		if lastErr != nil {
			d.logger.Warn("Notification delivery failed",
				zap.String("backend", n.Name()),
				zap.String("kind", string(notification.Kind)),
				zap.String("ticker", notification.Ticker),
				zap.String("signal_id", notification.SignalID),
				zap.Error(lastErr),
			)
		}
	}
}
