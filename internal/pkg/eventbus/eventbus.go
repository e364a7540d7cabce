// Package eventbus fans domain events out to every API instance.
package eventbus

import (
	"context"
	"encoding/json"
	"sync"
)

// Event types
const (
	TypeMessageCreated = "message.created"
)

// Event is a domain event addressed to one user.
type Event struct {
	Type        string          `json:"type"`
	RecipientID int64           `json:"recipientId"`
	Data        json.RawMessage `json:"data"`
}

// NewEvent marshals data into an Event.
func NewEvent(eventType string, recipientID int64, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, RecipientID: recipientID, Data: raw}, nil
}

// Handler receives delivered events.
type Handler func(Event)

// Bus publishes events and delivers them to subscribers.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(h Handler) error
	Close() error
}

// LocalBus delivers events synchronously inside the process.
type LocalBus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewLocalBus creates an in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

// Publish calls every handler in order.
func (b *LocalBus) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
	return nil
}

// Subscribe registers a handler.
func (b *LocalBus) Subscribe(h Handler) error {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
	return nil
}

// Close is a no-op.
func (b *LocalBus) Close() error {
	return nil
}
