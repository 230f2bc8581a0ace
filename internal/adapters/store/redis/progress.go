package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"datapulse.api/internal/core/domain"
	"datapulse.api/internal/core/logger"
)

const ProgressChannel = "datapulse:progress"

// Connect parses a redis:// URL and returns a client for it.
func Connect(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// ProgressBus shares scraper progress between server instances over a Redis
// pub/sub channel.
type ProgressBus struct {
	client *redis.Client
}

func NewProgressBus(client *redis.Client) *ProgressBus {
	return &ProgressBus{client: client}
}

func (b *ProgressBus) PublishProgress(ctx context.Context, p domain.ScraperProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, ProgressChannel, data).Err()
}

// SubscribeProgress forwards every progress message on the channel until ctx
// is done. Malformed payloads are skipped.
func (b *ProgressBus) SubscribeProgress(ctx context.Context) (<-chan domain.ScraperProgress, error) {
	pubsub := b.client.Subscribe(ctx, ProgressChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", ProgressChannel, err)
	}
	ch := make(chan domain.ScraperProgress)

	go func() {
		defer pubsub.Close()
		defer close(ch)

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var p domain.ScraperProgress
				if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
					logger.Component("redis").Debug("Dropping malformed progress message", "error", err)
					continue
				}
				select {
				case ch <- p:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
