package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Config holds NATS connection settings.
type Config struct {
	URL           string        // nats://localhost:4222
	Name          string        // client name for identification
	ReconnectWait time.Duration // time between reconnect attempts
	MaxReconnects int           // max reconnect attempts (-1 for infinite)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:           "nats://localhost:4222",
		Name:          "chatguard",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1, // infinite reconnects
	}
}

// Publisher publishes enforcement events to NATS. A nil *Publisher is a
// valid no-op publisher, so the bot runs unchanged when NATS is not
// configured.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS with the given config and returns a ready
// publisher. It returns an error if the initial connection fails.
func NewPublisher(config Config) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[nats] disconnected: %v", err)
			} else {
				log.Printf("[nats] disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[nats] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Printf("[nats] connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("events: nats connect: %w", err)
	}

	log.Printf("[nats] connected to %s", nc.ConnectedUrl())
	return &Publisher{conn: nc}, nil
}

// Publish sends one enforcement event to its subject.
func (p *Publisher) Publish(event EnforcementEvent) error {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event %s: %w", event.EventID, err)
	}
	if err := p.conn.Publish(event.Subject(), data); err != nil {
		return fmt.Errorf("events: publish %s: %w", event.Subject(), err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		log.Printf("[nats] connection drain: %v", err)
	}
	log.Printf("[nats] publisher closed")
}

// Subscriber consumes enforcement events, used by the auditor service.
type Subscriber struct {
	conn *nats.Conn
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS for event consumption.
func NewSubscriber(config Config) (*Subscriber, error) {
	nc, err := nats.Connect(config.URL,
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
	)
	if err != nil {
		return nil, fmt.Errorf("events: nats connect: %w", err)
	}
	log.Printf("[nats] connected to %s", nc.ConnectedUrl())
	return &Subscriber{conn: nc}, nil
}

// SubscribeEnforcement registers a handler for all enforcement events,
// complete and partial. Malformed payloads are logged and skipped.
func (s *Subscriber) SubscribeEnforcement(handler func(EnforcementEvent)) error {
	// moderation.enforced.> would miss the bare subject, so subscribe to both.
	for _, subject := range []string{SubjectEnforced, SubjectPartial} {
		sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
			var event EnforcementEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				log.Printf("[nats] unmarshal event on %s: %v", msg.Subject, err)
				return
			}
			handler(event)
		})
		if err != nil {
			return fmt.Errorf("events: subscribe %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

// Close drains all subscriptions and the connection.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		if err := sub.Drain(); err != nil {
			log.Printf("[nats] drain %s: %v", sub.Subject, err)
		}
	}
	if err := s.conn.Drain(); err != nil {
		log.Printf("[nats] connection drain: %v", err)
	}
	log.Printf("[nats] subscriber closed")
}
