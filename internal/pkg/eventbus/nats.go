package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATSBus publishes events to <prefix>.<type> and subscribes to <prefix>.>
type NATSBus struct {
	nc     *nats.Conn
	prefix string
	logger zerolog.Logger
	subs   []*nats.Subscription
}

// ConnectNATS dials the server and returns a bus bound to the subject prefix
func ConnectNATS(url, prefix string, logger zerolog.Logger) (*NATSBus, error) {
	nc, err := nats.Connect(url,
		nats.Name("campusconnect-api"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info().Str("url", url).Msg("Connected to NATS")
	return NewNATSBus(nc, prefix, logger), nil
}

// NewNATSBus wraps an existing connection
func NewNATSBus(nc *nats.Conn, prefix string, logger zerolog.Logger) *NATSBus {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = "campusconnect"
	}
	return &NATSBus{nc: nc, prefix: prefix, logger: logger}
}

// Subject returns the subject an event type is published on.
func (b *NATSBus) Subject(eventType string) string {
	return b.prefix + "." + eventType
}

// Publish sends the event as JSON.
func (b *NATSBus) Publish(_ context.Context, ev Event) error {
	if b.nc == nil || !b.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.nc.Publish(b.Subject(ev.Type), data)
}

// Subscribe delivers every event under the prefix to h.
func (b *NATSBus) Subscribe(h Handler) error {
	sub, err := b.nc.Subscribe(b.prefix+".>", func(msg *nats.Msg) {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			b.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("Dropping malformed event")
			return
		}
		h(ev)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s.>: %w", b.prefix, err)
	}
	b.subs = append(b.subs, sub)
	return nil
}

// Close drains subscriptions and closes the connection.
func (b *NATSBus) Close() error {
	if b.nc == nil {
		return nil
	}
	for _, sub := range b.subs {
		_ = sub.Unsubscribe()
	}
	b.nc.Close()
	return nil
}
