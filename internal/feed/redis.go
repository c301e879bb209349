package feed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ikkim/variant-reservation/internal/engine"
	"github.com/ikkim/variant-reservation/pkg/logger"
	appredis "github.com/ikkim/variant-reservation/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
)

// RedisFeed fans stock events out over Redis pub/sub, one channel per
// product. Redis delivers a channel's messages in publish order; lost
// deliveries are not retried.
type RedisFeed struct {
	client *goredis.Client
}

func NewRedisFeed(client *goredis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

func (f *RedisFeed) Publish(ctx context.Context, ev engine.StockEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	return appredis.PublishJSON(ctx, f.client, appredis.StockChannel(ev.ProductID), ev)
}

func (f *RedisFeed) Subscribe(ctx context.Context, productID uint, handler func(engine.StockEvent)) (engine.Unsubscribe, error) {
	channel := appredis.StockChannel(productID)
	pubsub, err := appredis.Subscribe(ctx, f.client, channel)
	if err != nil {
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			ev, err := decodeStockEvent(msg.Payload)
			if err != nil {
				logger.Warn("Malformed stock event", map[string]interface{}{
					"channel": channel,
					"error":   err.Error(),
				})
				continue
			}
			handler(ev)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := pubsub.Close(); err != nil {
				logger.Warn("Failed to close stock subscription", map[string]interface{}{
					"channel": channel,
					"error":   err.Error(),
				})
			}
		})
	}, nil
}

func decodeStockEvent(payload string) (engine.StockEvent, error) {
	var ev engine.StockEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, err
	}
	return ev, ev.Validate()
}
