package notifications

import (
	"context"
	"sync"
	"time"
	"villa/pkg/logger"
)

const publishTimeout = 10 * time.Second

// Dispatcher decouples booking writes from notification delivery. Emit only
// enqueues; a fixed pool of workers hands events to the sink. A full queue
// drops the event with a warning instead of slowing the request down.
type Dispatcher struct {
	sink    Sink
	events  chan Event
	workers int
	log     *logger.Logger

	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func NewDispatcher(sink Sink, buffer, workers int, log *logger.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		sink:    sink,
		events:  make(chan Event, buffer),
		workers: workers,
		log:     log,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(i)
	}
}

func (d *Dispatcher) Emit(event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("Notification dropped, dispatcher closed", "event_type", event.Type, "booking_id", event.Booking.ID)
		return
	}

	select {
	case d.events <- event:
	default:
		d.log.Warn("Notification dropped, queue full",
			"event_type", event.Type,
			"booking_id", event.Booking.ID,
			"capacity", cap(d.events),
		)
	}
}

func (d *Dispatcher) run(worker int) {
	defer d.wg.Done()

	for event := range d.events {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := d.sink.Publish(ctx, event); err != nil {
			d.log.Error("Failed to publish notification",
				"worker", worker,
				"event_id", event.ID,
				"event_type", event.Type,
				"booking_id", event.Booking.ID,
				"error", err,
			)
		}
		cancel()
	}
}

// Close stops accepting events and waits for queued ones to drain, then
// closes the sink. If ctx expires first the sink is left open, since workers
// may still be publishing to it, and ctx's error is returned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.events)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return d.sink.Close()
	case <-ctx.Done():
		d.log.Warn("Notification queue not drained before shutdown, sink left open", "pending", len(d.events))
		return ctx.Err()
	}
}
