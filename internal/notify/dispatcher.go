package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/mediplus/internal/config"
	"github.com/BruksfildServices01/mediplus/internal/metrics"
)

// Dispatcher sends messages on a bounded queue drained by a fixed number of
// workers. Dispatch never blocks: when the queue is full the message is
// dropped. There are no retries.
type Dispatcher struct {
	sink    Sink
	log     *zap.Logger
	metrics *metrics.Collector
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Message
	wg     sync.WaitGroup
}

func NewDispatcher(
	sink Sink,
	cfg config.NotifyConfig,
	log *zap.Logger,
	m *metrics.Collector,
) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	d := &Dispatcher{
		sink:    sink,
		log:     log.Named("notify"),
		metrics: m,
		timeout: timeout,
		queue:   make(chan Message, cfg.QueueSize),
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}

	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.sink.Send(ctx, msg)
		cancel()

		if err != nil {
			d.metrics.NotificationsTotal.WithLabelValues(msg.Template, "failed").Inc()
			d.log.Warn("notification failed",
				zap.String("template", msg.Template),
				zap.String("to", msg.To),
				zap.Error(err),
			)
			continue
		}

		d.metrics.NotificationsTotal.WithLabelValues(msg.Template, "sent").Inc()
	}
}

// Dispatch queues msg and reports whether it was accepted.
func (d *Dispatcher) Dispatch(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("dispatcher closed, dropping notification", zap.String("template", msg.Template))
		d.metrics.NotificationsDropped.Inc()
		return false
	}

	select {
	case d.queue <- msg:
		return true
	default:
		d.log.Warn("notification queue full, dropping message",
			zap.String("template", msg.Template),
			zap.String("to", msg.To),
		)
		d.metrics.NotificationsDropped.Inc()
		return false
	}
}

// Shutdown stops accepting messages and waits for queued ones to be sent
// or for ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.log.Warn("notification drain timed out", zap.Int("pending", len(d.queue)))
		return ctx.Err()
	}
}
