package events

import "context"

const DefaultBusSize = 10

// Sender is the producer side of a Bus.
type Sender interface {
	// Send enqueues event, waiting while the bus is full.
	// It only fails when ctx is done before the event could be enqueued.
	Send(ctx context.Context, event Event) error
}

// Receiver is the consumer side of a Bus.
type Receiver interface {
	// Receive waits for the next event.
	Receive(ctx context.Context) (Event, error)
}

// Bus is a bounded FIFO queue of events with any number of
// producers and a single consumer.
type Bus struct {
	ch chan Event
}

func NewBus(size int) *Bus {
	if size <= 0 {
		size = DefaultBusSize
	}
	return &Bus{
		ch: make(chan Event, size),
	}
}

func (b *Bus) Send(ctx context.Context, event Event) error {
	select {
	case b.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) Receive(ctx context.Context) (Event, error) {
	select {
	case event := <-b.ch:
		return event, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of queued events.
func (b *Bus) Len() int {
	return len(b.ch)
}

func (b *Bus) Cap() int {
	return cap(b.ch)
}
