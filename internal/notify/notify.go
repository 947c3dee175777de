// Package notify delivers "submission accepted" notifications to form
// owners. Delivery is fire-and-forget: a sink failure is logged and never
// surfaces into the submission response.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event describes one accepted, non-spam submission.
type Event struct {
	FormID     uuid.UUID
	FormName   string
	Recipients []string
	ReceivedAt time.Time
}

// Sink delivers a notification. Implementations must be safe for concurrent
// use.
type Sink interface {
	Notify(ctx context.Context, event Event) error
}

// LogSink writes notifications to the log; the development default.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log-backed sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs the event.
func (s *LogSink) Notify(_ context.Context, event Event) error {
	s.logger.Info("submission notification",
		"form_id", event.FormID,
		"form_name", event.FormName,
		"recipients", len(event.Recipients),
	)
	return nil
}

// Dispatcher queues events and delivers them from a background goroutine so
// the submission hot path never waits on a sink. When the buffer is full the
// event is dropped with a warning rather than blocking.
type Dispatcher struct {
	sink   Sink
	events chan Event
	wg     sync.WaitGroup
	logger *slog.Logger
	onDrop func()
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithBuffer sets the queue size (default 64).
func WithBuffer(size int) DispatcherOption {
	return func(d *Dispatcher) {
		if size > 0 {
			d.events = make(chan Event, size)
		}
	}
}

// WithDropCallback registers a hook invoked each time a full buffer forces an
// event to be dropped. Used to feed the dropped-notifications counter.
func WithDropCallback(fn func()) DispatcherOption {
	return func(d *Dispatcher) {
		d.onDrop = fn
	}
}

// NewDispatcher creates a dispatcher and starts its delivery goroutine.
func NewDispatcher(sink Sink, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sink:   sink,
		events: make(chan Event, 64),
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.wg.Add(1)
	go d.deliver()
	return d
}

func (d *Dispatcher) deliver() {
	defer d.wg.Done()
	for event := range d.events {
		// Each delivery gets its own deadline; an unreachable sink must not
		// stall the queue forever.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := d.sink.Notify(ctx, event); err != nil {
			d.logger.Error("notification delivery failed",
				"error", err,
				"form_id", event.FormID,
			)
		}
		cancel()
	}
}

// Dispatch queues an event. Never blocks and never returns an error; the
// caller's response must not depend on notification delivery.
func (d *Dispatcher) Dispatch(event Event) {
	select {
	case d.events <- event:
	default:
		d.logger.Warn("notification buffer full, event dropped",
			"form_id", event.FormID,
		)
		if d.onDrop != nil {
			d.onDrop()
		}
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	close(d.events)
	d.wg.Wait()
}
