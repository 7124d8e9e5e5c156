// Package redisbus fans domain events out across process boundaries via
// Redis pub/sub, for deployments running more than one antboxd instance
// where cache invalidation and workflow triggers have to reach every
// process. Payloads are JSON-marshaled Envelopes on a fire-and-forget
// pub/sub channel.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/antbox/antbox/internal/eventbus"
)

// Config configures the Redis fanout bus.
type Config struct {
	RedisURL string // defaults to ANTBOX_REDIS_URL or redis://localhost:6379/0
	Channel  string // defaults to "antbox:events"
}

// Bus publishes eventbus.Envelope values to a Redis channel and delivers
// envelopes received on that channel to a local eventbus.Bus, giving
// every subscribed instance the same fanout.
type Bus struct {
	client  *redis.Client
	channel string
	local   *eventbus.Bus
}

// New connects to Redis and wraps local for delivering remote events.
func New(ctx context.Context, cfg Config, local *eventbus.Bus) (*Bus, error) {
	url := cfg.RedisURL
	if url == "" {
		url = os.Getenv("ANTBOX_REDIS_URL")
	}
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redisbus: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redisbus: connect: %w", err)
	}
	channel := cfg.Channel
	if channel == "" {
		channel = "antbox:events"
	}
	return &Bus{client: client, channel: channel, local: local}, nil
}

// Close releases the Redis connection.
func (b *Bus) Close() error { return b.client.Close() }

// Publish delivers env to local subscribers immediately, then forwards
// it to Redis for other instances. A Redis publish failure does not
// undo the local delivery; local subscribers must not depend on
// cross-instance fanout succeeding.
func (b *Bus) Publish(ctx context.Context, env eventbus.Envelope) error {
	b.local.Publish(env)
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("redisbus: marshal envelope: %w", err)
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

// Listen blocks, relaying every envelope received on the configured
// channel into the local bus, until ctx is canceled. Call it from its
// own goroutine at startup.
func (b *Bus) Listen(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env eventbus.Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				continue
			}
			b.local.Publish(env)
		}
	}
}
