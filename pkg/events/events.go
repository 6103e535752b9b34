// Package events publishes domain events on NATS. Subjects are
// "<base>.<entity id>" and the payload is the JSON-encoded event.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Alijeyrad/telecare_backend/config"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, id uuid.UUID, payload any) error
}

// Subject joins a base subject and an entity id.
func Subject(base string, id uuid.UUID) string {
	return base + "." + id.String()
}

// IDFromSubject extracts the trailing entity id from a subject.
func IDFromSubject(subject string) (uuid.UUID, error) {
	i := strings.LastIndexByte(subject, '.')
	if i < 0 {
		return uuid.Nil, fmt.Errorf("subject %q has no id token", subject)
	}
	return uuid.Parse(subject[i+1:])
}

// Connect dials NATS. A disabled config yields a nil connection.
func Connect(cfg config.NatsConfig) (*nats.Conn, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url,
		nats.Name("telecare"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

type natsPublisher struct {
	nc *nats.Conn
}

// NewPublisher returns a NATS publisher, or a no-op one when nc is nil.
func NewPublisher(nc *nats.Conn) Publisher {
	if nc == nil {
		return Noop{}
	}
	return &natsPublisher{nc: nc}
}

func (p *natsPublisher) Publish(_ context.Context, subject string, id uuid.UUID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.nc.Publish(Subject(subject, id), data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, uuid.UUID, any) error { return nil }

// Decode unmarshals an event payload.
func Decode(msg *nats.Msg, out any) error {
	return json.Unmarshal(msg.Data, out)
}
