package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/middleware"
	"github.com/SscSPs/campus_coin_ledger/internal/platform/metrics"
)

// NotificationDispatcher delivers notifications on a fixed pool of workers fed
// by a bounded queue. Delivery failures are logged and counted, never returned.
type NotificationDispatcher struct {
	notifier portssvc.Notifier
	logger   *slog.Logger
	workers  int

	mu     sync.RWMutex
	queue  chan domain.Notification
	closed bool

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

var _ portssvc.NotificationQueue = (*NotificationDispatcher)(nil)

func NewNotificationDispatcher(notifier portssvc.Notifier, queueSize, workers int, logger *slog.Logger) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationDispatcher{
		notifier: notifier,
		logger:   logger,
		workers:  workers,
		queue:    make(chan domain.Notification, queueSize),
	}
}

// Start launches the workers. ctx is passed to every delivery; cancelling it
// makes in-flight deliveries fail fast but does not stop the workers.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.run(ctx)
		}
	})
}

// Stop closes the queue and waits until everything already queued was attempted.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
}

// Enqueue never blocks. A full or stopped queue drops the message.
func (d *NotificationDispatcher) Enqueue(ctx context.Context, n domain.Notification) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		middleware.GetLoggerFromCtx(ctx).Warn("Notification dropped, dispatcher stopped", slog.String("to", n.To))
		metrics.NotificationResult("dropped")
		return false
	}
	select {
	case d.queue <- n:
		return true
	default:
		middleware.GetLoggerFromCtx(ctx).Warn("Notification dropped, queue full", slog.String("to", n.To), slog.String("subject", n.Subject))
		metrics.NotificationResult("dropped")
		return false
	}
}

func (d *NotificationDispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(ctx, n)
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, n domain.Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Notifier panicked", slog.Any("panic", r), slog.String("to", n.To))
			metrics.NotificationResult("failed")
		}
	}()

	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Warn("Notification delivery failed",
			slog.String("to", n.To),
			slog.String("subject", n.Subject),
			slog.String("error", err.Error()),
		)
		metrics.NotificationResult("failed")
		return
	}
	metrics.NotificationResult("sent")
}
