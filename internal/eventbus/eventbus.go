// Package eventbus implements the domain event bus:
// NodeCreated/NodeUpdated/NodeDeleted/NodeMoved/WorkflowTransitioned
// notifications fanned out to in-process subscribers (path cache
// invalidation, storage mirrors, workflow triggers) in a one-way
// fire-and-forget publish/subscribe shape.
package eventbus

import (
	"sync"
	"time"
)

// EventType names a domain occurrence. Subscribers register against one
// of these, or "" to receive every event.
type EventType string

const (
	NodeCreated            EventType = "NodeCreated"
	NodeUpdated            EventType = "NodeUpdated"
	NodeDeleted            EventType = "NodeDeleted"
	NodeMoved              EventType = "NodeMoved"
	WorkflowTransitioned   EventType = "WorkflowTransitioned"
	WorkflowInstanceFailed EventType = "WorkflowInstanceFailed"
)

// Envelope is the wire shape published on every event: id, type,
// timestamp and a free-form payload.
type Envelope struct {
	ID        string
	Type      EventType
	UUID      string
	ParentID  string
	Timestamp time.Time
	Payload   map[string]any
}

// Handler processes one published envelope. Handlers run synchronously
// on the publishing goroutine in Bus and must not block indefinitely.
type Handler func(Envelope)

// Bus is a synchronous, in-process publish/subscribe bus, the default
// nodeservice.Publisher used when no redisbus fanout is configured.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	all      []Handler
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{handlers: map[EventType][]Handler{}}
}

// Subscribe registers handler for eventType. An empty eventType
// subscribes to every event published on the bus.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if eventType == "" {
		b.all = append(b.all, handler)
		return
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers env to every handler subscribed to env.Type and to
// every wildcard handler, synchronously, in registration order.
func (b *Bus) Publish(env Envelope) {
	b.mu.RLock()
	handlers := append([]Handler{}, b.handlers[env.Type]...)
	wildcards := append([]Handler{}, b.all...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(env)
	}
	for _, h := range wildcards {
		h(env)
	}
}

// SubscribeStringPayload adapts a storage.ChangeSubscriber-shaped
// callback (eventType string, payload map[string]any) to Bus, letting
// storage adapters subscribe without importing eventbus's typed
// EventType.
func (b *Bus) SubscribeStringPayload(eventType string, handler func(payload map[string]any)) {
	b.Subscribe(EventType(eventType), func(env Envelope) { handler(env.Payload) })
}
