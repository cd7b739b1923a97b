package notifier

import (
	"context"
	"log"
	"sync/atomic"

	"BitcoinClicker/internal/model"
)

// Sender delivers formatted text somewhere.
type Sender interface {
	Send(text string) error
}

type retrySender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// LogSender writes messages to the standard logger.
type LogSender struct{}

func (LogSender) Send(text string) error {
	log.Printf("[INFO] notify: %s", text)
	return nil
}

// Dispatcher queues notifications and forwards them to a Sender from its own
// goroutine. Notify never blocks: when the queue is full the notification is dropped.
type Dispatcher struct {
	sender  Sender
	queue   chan model.Notification
	retries int
	dropped atomic.Int64
}

// NewDispatcher creates a dispatcher with the given queue size.
func NewDispatcher(sender Sender, size, retries int) *Dispatcher {
	if size <= 0 {
		size = 64
	}
	return &Dispatcher{
		sender:  sender,
		queue:   make(chan model.Notification, size),
		retries: retries,
	}
}

// Notify enqueues n without blocking.
func (d *Dispatcher) Notify(n model.Notification) {
	select {
	case d.queue <- n:
	default:
		d.dropped.Add(1)
		log.Printf("[WARN] notification queue full, dropped %q", n.Title)
	}
}

// Dropped returns how many notifications were discarded.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Run forwards queued notifications until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n model.Notification) {
	text := FormatNotification(n)
	var err error
	if rs, ok := d.sender.(retrySender); ok && d.retries > 0 {
		err = rs.SendWithRetry(ctx, text, d.retries)
	} else {
		err = d.sender.Send(text)
	}
	if err != nil {
		log.Printf("[ERROR] deliver notification %q: %v", n.Title, err)
	}
}
