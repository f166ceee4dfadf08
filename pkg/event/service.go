package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwalitptl/clinic-records/pkg/logger"
)

// Bus dispatches committed-mutation events to in-process subscribers. Handlers
// run synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	subscribers map[EventType][]Handler
	mu          sync.RWMutex
	logger      *logger.Logger
}

func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{
		subscribers: make(map[EventType][]Handler),
		logger:      log,
	}
}

// Subscribe registers handler for eventType, or for everything with Wildcard.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subscribers[evt.Type])+len(b.subscribers[Wildcard]))
	handlers = append(handlers, b.subscribers[evt.Type]...)
	handlers = append(handlers, b.subscribers[Wildcard]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			b.logger.Error(fmt.Errorf("event handler error: %w", err), "Failed to handle event",
				"event_type", string(evt.Type), "entity_id", evt.EntityID)
		}
	}
}
