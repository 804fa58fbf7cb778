// Package feed pushes aggregate-change notifications over NATS. Events are
// at-least-once hints; consumers refetch the authoritative rows by key.
package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher wraps a NATS connection. A nil Publisher is valid and drops
// everything, so callers never need to branch on whether the feed is wired.
type Publisher struct {
	conn *nats.Conn
	log  *slog.Logger
}

// Connect dials the NATS url and returns a Publisher. Reconnects are handled
// by the client; a short buffer of events survives a broker restart.
func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name("omerta-feed"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("feed disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("feed reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: conn, log: logger}, nil
}

// Publish marshals the payload as JSON and sends it on the subject.
func (p *Publisher) Publish(subject string, payload any) error {
	if p == nil || p.conn == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode feed event: %w", err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe registers a handler for a subject and returns an unsubscribe
// function. Used by the CLI to stream the activity feed.
func (p *Publisher) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	if p == nil || p.conn == nil {
		return nil, fmt.Errorf("feed not connected")
	}
	sub, err := p.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Close flushes pending events and drops the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Flush()
	p.conn.Close()
}
