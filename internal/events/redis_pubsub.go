package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisPublisher struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisPublisher(client *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		p.log.Warn("event publish failed", zap.String("channel", channel), zap.String("type", event.Type), zap.Error(err))
		return err
	}
	return nil
}

type RedisSubscriber struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisSubscriber(client *redis.Client, log *zap.Logger) *RedisSubscriber {
	return &RedisSubscriber{client: client, log: log}
}

// Subscribe delivers events on channel to handler until ctx is done.
func (s *RedisSubscriber) Subscribe(ctx context.Context, channel string, handler func(Event)) error {
	pubsub := s.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					s.log.Error("failed to unmarshal event", zap.String("channel", channel), zap.Error(err))
					continue
				}
				handler(event)
			}
		}
	}()

	return nil
}

// NopPublisher drops events; used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }
