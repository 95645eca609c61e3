package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"kuppi/internal/shared/logger"
)

// ChangeStream identifies which projector input stream an event belongs to.
type ChangeStream string

const (
	// StreamCatalog covers subject, course card and video mutations. Catalog
	// changes affect every connected user.
	StreamCatalog ChangeStream = "catalog"
	// StreamProgress covers per-user play count changes.
	StreamProgress ChangeStream = "progress"
	// StreamPurchase covers purchase completions and failures.
	StreamPurchase ChangeStream = "purchase"
)

// ChangeEvent is published whenever entitlement-relevant state mutates. The
// projector re-derives the affected users' views on every event; payloads
// carry identity only, never the new state, so a missed event costs one
// recomputation and nothing else.
type ChangeEvent struct {
	EventID   string       `json:"event_id"`
	Stream    ChangeStream `json:"stream"`
	EntitySID string       `json:"entity_sid,omitempty"`
	UserID    uint         `json:"user_id,omitempty"` // zero for catalog-wide events
	Timestamp int64        `json:"timestamp"`
}

// ChangeEventHandler is a callback invoked for each received event.
type ChangeEventHandler func(ctx context.Context, event ChangeEvent)

// ChangeEventPublisher defines the interface for publishing change events.
type ChangeEventPublisher interface {
	PublishCatalogChange(ctx context.Context, entitySID string) error
	PublishProgressChange(ctx context.Context, userID uint, videoSID string) error
	PublishPurchaseChange(ctx context.Context, userID uint, cardSID string) error
}

// ChangeEventSubscriber defines the interface for consuming change events.
type ChangeEventSubscriber interface {
	Subscribe(ctx context.Context, handler ChangeEventHandler) error
}

const changeEventChannel = "kuppi:entitlement:change"

// RedisChangeEventBus implements both ChangeEventPublisher and
// ChangeEventSubscriber using Redis Pub/Sub, so projectors on every
// instance see mutations made on any instance.
type RedisChangeEventBus struct {
	client *redis.Client
	logger logger.Interface
}

// NewRedisChangeEventBus creates a new Redis-based change event bus.
func NewRedisChangeEventBus(client *redis.Client, logger logger.Interface) *RedisChangeEventBus {
	return &RedisChangeEventBus{
		client: client,
		logger: logger,
	}
}

// PublishCatalogChange publishes a catalog-wide change event.
func (b *RedisChangeEventBus) PublishCatalogChange(ctx context.Context, entitySID string) error {
	return b.publish(ctx, ChangeEvent{
		Stream:    StreamCatalog,
		EntitySID: entitySID,
		Timestamp: time.Now().Unix(),
	})
}

// PublishProgressChange publishes a play count change for one user.
func (b *RedisChangeEventBus) PublishProgressChange(ctx context.Context, userID uint, videoSID string) error {
	return b.publish(ctx, ChangeEvent{
		Stream:    StreamProgress,
		EntitySID: videoSID,
		UserID:    userID,
		Timestamp: time.Now().Unix(),
	})
}

// PublishPurchaseChange publishes a purchase state change for one user.
func (b *RedisChangeEventBus) PublishPurchaseChange(ctx context.Context, userID uint, cardSID string) error {
	return b.publish(ctx, ChangeEvent{
		Stream:    StreamPurchase,
		EntitySID: cardSID,
		UserID:    userID,
		Timestamp: time.Now().Unix(),
	})
}

func (b *RedisChangeEventBus) publish(ctx context.Context, event ChangeEvent) error {
	event.EventID = uuid.NewString()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, changeEventChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish change event",
			"stream", event.Stream,
			"entity_sid", event.EntitySID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("change event published",
		"stream", event.Stream,
		"entity_sid", event.EntitySID,
		"user_id", event.UserID,
	)
	return nil
}

// Subscribe blocks consuming change events until ctx is cancelled, calling
// the handler for each event.
func (b *RedisChangeEventBus) Subscribe(ctx context.Context, handler ChangeEventHandler) error {
	pubsub := b.client.Subscribe(ctx, changeEventChannel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	_, err := pubsub.Receive(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to change events", "channel", changeEventChannel)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("change event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("change event channel closed")
				return nil
			}

			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal change event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			// handle in background so a slow handler cannot stall the loop
			go handler(context.Background(), event)
		}
	}
}
