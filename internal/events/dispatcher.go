package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// InMemoryDispatcher delivers events synchronously in-process. Handler
// failures are logged and never stop the remaining handlers; every publish
// is counted per event type.
type InMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	published map[EventType]int64
	logger    *zap.Logger
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger) *InMemoryDispatcher {
	return &InMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
		published: make(map[EventType]int64),
		logger:    logger,
	}
}

// Publish synchronously invokes handlers for the given event.
func (d *InMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.Lock()
	d.published[event.Type]++
	handlers := append([]EventHandler(nil), d.listeners[event.Type]...)
	d.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			d.logger.Warn("event handler failed",
				zap.String("type", string(event.Type)),
				zap.String("entity_id", event.EntityID),
				zap.Error(err))
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *InMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Published returns how many events of the type were dispatched.
func (d *InMemoryDispatcher) Published(eventType EventType) int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.published[eventType]
}
