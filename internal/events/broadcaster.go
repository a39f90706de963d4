package events

import (
	"log/slog"
	"sync"

	"github.com/calram/skirmish/internal/model"
)

// subscriberBuffer is the per-subscriber channel depth. Slow consumers drop
// events rather than stall an emitting operation.
const subscriberBuffer = 64

// Subscription is a live event feed. Close it when done to release the
// subscriber slot.
type Subscription struct {
	C chan model.Event

	broadcaster *Broadcaster
	once        sync.Once
}

// Close unregisters the subscription from its broadcaster
func (s *Subscription) Close() {
	s.once.Do(func() {
		select {
		case s.broadcaster.unregister <- s:
		case <-s.broadcaster.done:
		}
	})
}

// Broadcaster fans emitted events out to all live subscriptions. It is the
// in-process implementation of the notification boundary.
type Broadcaster struct {
	logger *slog.Logger

	subscribers map[*Subscription]bool

	register   chan *Subscription
	unregister chan *Subscription
	emit       chan model.Event
	done       chan struct{}
	closeOnce  sync.Once
}

// Ensure Broadcaster implements Bus
var _ Bus = (*Broadcaster)(nil)

// NewBroadcaster creates a broadcaster. Call Run in a goroutine before
// emitting.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		logger:      logger,
		subscribers: make(map[*Subscription]bool),
		register:    make(chan *Subscription),
		unregister:  make(chan *Subscription),
		emit:        make(chan model.Event, 256),
		done:        make(chan struct{}),
	}
}

// Run starts the broadcaster's event loop
func (b *Broadcaster) Run() {
	b.logger.Info("event broadcaster started")
	for {
		select {
		case sub := <-b.register:
			b.subscribers[sub] = true
			b.logger.Info("event subscriber registered",
				slog.Int("total_subscribers", len(b.subscribers)))

		case sub := <-b.unregister:
			if _, ok := b.subscribers[sub]; ok {
				delete(b.subscribers, sub)
				close(sub.C)
				b.logger.Info("event subscriber unregistered",
					slog.Int("total_subscribers", len(b.subscribers)))
			}

		case event := <-b.emit:
			dropped := 0
			for sub := range b.subscribers {
				select {
				case sub.C <- event:
				default:
					dropped++
				}
			}
			if dropped > 0 {
				b.logger.Warn("event dropped for slow subscribers",
					slog.String("type", string(event.Type)),
					slog.Int("dropped", dropped))
			}

		case <-b.done:
			for sub := range b.subscribers {
				close(sub.C)
				delete(b.subscribers, sub)
			}
			b.logger.Info("event broadcaster stopped")
			return
		}
	}
}

// Close stops the event loop and closes all subscriptions
func (b *Broadcaster) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

// Subscribe registers a new event feed
func (b *Broadcaster) Subscribe() *Subscription {
	sub := &Subscription{
		C:           make(chan model.Event, subscriberBuffer),
		broadcaster: b,
	}
	select {
	case b.register <- sub:
	case <-b.done:
		close(sub.C)
	}
	return sub
}

// Emit queues an event for fan-out. If the broadcaster's queue is full the
// event is dropped; emission is best-effort by contract.
func (b *Broadcaster) Emit(event model.Event) {
	select {
	case b.emit <- event:
	default:
		b.logger.Warn("event queue full, dropping event",
			slog.String("type", string(event.Type)))
	}
}
