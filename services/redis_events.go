package services

import (
	"context"
	"encoding/json"
	"errors"

	"faculty-management-api/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventChannel is the Redis pub/sub channel shared by all API instances.
const EventChannel = "faculty:events"

// RedisEventBus publishes events to Redis so every instance sees them.
// Run relays received events into the local hub.
type RedisEventBus struct {
	rdb     *redis.Client
	local   *EventHub
	channel string
	origin  string
}

func NewRedisEventBus(rdb *redis.Client, local *EventHub) *RedisEventBus {
	return &RedisEventBus{rdb: rdb, local: local, channel: EventChannel, origin: uuid.NewString()}
}

// Origin is the id this instance stamps on the events it publishes.
func (b *RedisEventBus) Origin() string { return b.origin }

// Publish falls back to the local hub when Redis rejects the message.
func (b *RedisEventBus) Publish(ctx context.Context, evt Event) {
	evt.Origin = b.origin
	payload, err := json.Marshal(evt)
	if err != nil {
		config.Log.Error("encode event", zap.Error(err))
		return
	}
	if err := b.rdb.Publish(persistentContext(ctx), b.channel, payload).Err(); err != nil {
		config.Log.Warn("redis publish failed, delivering locally", zap.Error(err))
		b.local.Publish(ctx, evt)
	}
}

// Run subscribes to the channel until ctx is cancelled.
func (b *RedisEventBus) Run(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis subscription closed")
			}
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				config.Log.Warn("discarding malformed event", zap.Error(err))
				continue
			}
			b.local.Publish(ctx, evt)
		}
	}
}
