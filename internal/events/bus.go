// Package events provides the typed publish/subscribe bus for generation
// lifecycle notifications.
package events

import (
	"sync"
	"time"

	"github.com/jonathan/draft-assistant/internal/types"
)

// Type names a lifecycle notification.
type Type string

const (
	TypeRunStarted       Type = "run_started"
	TypeSegmentCompleted Type = "segment_completed"
	TypeRunCompleted     Type = "run_completed"
	TypeRunAborted       Type = "run_aborted"
	TypeRunReset         Type = "run_reset"
)

// Event is the payload delivered to subscribers. Content is present only
// on completion events that carry partial or merged output.
type Event struct {
	Type      Type                `json:"type"`
	JobID     string              `json:"job_id,omitempty"`
	Segment   types.SegmentKey    `json:"segment,omitempty"`
	Status    types.SegmentStatus `json:"status,omitempty"`
	Error     string              `json:"error,omitempty"`
	Content   any                 `json:"content,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine and must not block.
type Handler func(Event)

// Bus is a fire-and-forget subscriber registry. Publishing with no
// subscribers is a no-op, and a panicking subscriber never aborts the
// publisher or starves the remaining subscribers.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns a token for Unsubscribe.
func (b *Bus) Subscribe(h Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[b.nextID] = h
	return b.nextID
}

// Unsubscribe removes a previously registered handler. Unknown tokens are
// ignored.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
}

// Publish stamps the event and delivers it to every subscriber.
func (b *Bus) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		deliver(h, ev)
	}
}

func deliver(h Handler, ev Event) {
	defer func() {
		_ = recover()
	}()
	h(ev)
}
