package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
)

// Event subjects published by this service.
const (
	SubjectOrderCreated       = "order.created"
	SubjectOrderStatusChanged = "order.status_changed"
	SubjectOrderCancelled     = "order.cancelled"
	SubjectProductCreated     = "product.created"
	SubjectProductDiscounted  = "product.discounted"
	SubjectReviewUpdated      = "review.updated"
)

const streamName = "MARKETPLACE_EVENTS"

// Event is the envelope published on every subject.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Publisher publishes domain events to NATS JetStream. Every publish is
// best-effort: failures are logged and never block the caller.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the marketplace event stream
// exists. A nil Publisher is safe to call; callers may run without NATS.
func NewPublisher(natsURL, clientName string, logger *logrus.Logger) (*Publisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name(clientName),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"order.>", "product.>", "review.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to ensure event stream (may already exist)")
	}

	return &Publisher{
		nc:     nc,
		js:     js,
		logger: logger.WithField("component", "events"),
	}, nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	_ = p.nc.Drain()
}

// Publish emits one event asynchronously.
func (p *Publisher) Publish(subject string, data map[string]interface{}) {
	if p == nil || p.js == nil {
		return
	}

	event := Event{
		ID:        uuid.New().String(),
		Type:      subject,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		payload, err := json.Marshal(event)
		if err != nil {
			p.logger.WithError(err).Error("Failed to marshal event")
			return
		}
		if _, err := p.js.Publish(ctx, subject, payload); err != nil {
			p.logger.WithFields(logrus.Fields{
				"subject": subject,
				"eventId": event.ID,
			}).WithError(err).Warn("Failed to publish event")
			return
		}
		p.logger.WithFields(logrus.Fields{
			"subject": subject,
			"eventId": event.ID,
		}).Debug("Event published")
	}()
}
