// Package events carries domain events between Steward subsystems over an
// in-process watermill pub/sub. Publishers fire and forget; subscribers
// acknowledge every message whether or not handling succeeds.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/JaimeStill/steward/pkg/lifecycle"
)

// Handler processes a decoded message. Returned errors are logged.
type Handler func(ctx context.Context, msg *message.Message) error

// Bus publishes and subscribes to domain events.
type Bus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(topic string, handler Handler)
	Start(lc *lifecycle.Coordinator) error
}

type subscription struct {
	topic   string
	handler Handler
}

type bus struct {
	pubsub  *gochannel.GoChannel
	logger  *slog.Logger
	mu      sync.Mutex
	subs    []subscription
	started bool
}

// New creates a Bus backed by a watermill gochannel with the given output buffer.
func New(buffer int64, logger *slog.Logger) Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: buffer},
		watermill.NewSlogLogger(logger),
	)
	return &bus{
		pubsub: pubsub,
		logger: logger.With("system", "events"),
	}
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", msg.UUID, err)
	}
	return v, nil
}

func (b *bus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	b.logger.Debug("event published", "topic", topic, "message_uuid", msg.UUID)
	return nil
}

// Subscribe registers handler for topic. Handlers must be registered before Start.
func (b *bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{topic: topic, handler: handler})
}

func (b *bus) Start(lc *lifecycle.Coordinator) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}

	ctx := lc.Context()
	for _, s := range b.subs {
		messages, err := b.pubsub.Subscribe(ctx, s.topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", s.topic, err)
		}
		go b.consume(ctx, s, messages)
	}
	b.started = true

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		b.logger.Info("closing event bus")
		if err := b.pubsub.Close(); err != nil {
			b.logger.Error("event bus close failed", "error", err)
			return
		}
		b.logger.Info("event bus closed")
	})

	return nil
}

func (b *bus) consume(ctx context.Context, s subscription, messages <-chan *message.Message) {
	for msg := range messages {
		if err := s.handler(ctx, msg); err != nil {
			b.logger.Error(
				"event handling failed",
				"topic", s.topic,
				"message_uuid", msg.UUID,
				"error", err,
			)
		}
		msg.Ack()
	}
}
