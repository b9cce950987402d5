// Package events provides a small in-process publish/subscribe bus used
// to decouple the gateways from each other, including delayed delivery
// for staged notifications.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler consumes one published payload. Handlers run on the
// publisher's goroutine (or the timer goroutine for delayed publishes)
// and must not block.
type Handler func(payload any)

// Bus fans published payloads out to the handlers subscribed to a topic.
// The zero value is not usable; construct with NewBus. Safe for
// concurrent use.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	logger   *zap.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers h for every future publish on topic.
//
// Precondition: h must not be nil.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish delivers payload to every handler subscribed to topic, in
// subscription order. A topic with no subscribers is logged and dropped.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.Lock()
	hs := make([]Handler, len(b.handlers[topic]))
	copy(hs, b.handlers[topic])
	b.mu.Unlock()

	if len(hs) == 0 {
		b.logger.Debug("event with no subscribers dropped", zap.String("topic", topic))
		return
	}
	for _, h := range hs {
		h(payload)
	}
}

// PublishAfter delivers payload to topic once delay elapses. The
// returned cancel function stops an undelivered publish; calling it is
// idempotent and a no-op after delivery.
//
// Precondition: delay >= 0.
func (b *Bus) PublishAfter(delay time.Duration, topic string, payload any) (cancel func()) {
	t := time.AfterFunc(delay, func() {
		b.Publish(topic, payload)
	})
	return func() { t.Stop() }
}
