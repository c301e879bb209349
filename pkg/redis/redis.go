package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/variant-reservation/config"
	"github.com/ikkim/variant-reservation/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const stockChannelPrefix = "stock:product:"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// StockChannel is the pub/sub channel carrying stock changes of one product.
func StockChannel(productID uint) string {
	return fmt.Sprintf("%s%d", stockChannelPrefix, productID)
}

// PublishJSON encodes v and publishes it on channel.
func PublishJSON(ctx context.Context, c *redis.Client, channel string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message for %s: %w", channel, err)
	}
	if err := c.Publish(ctx, channel, payload).Err(); err != nil {
		logger.Error("Failed to publish message", err, map[string]interface{}{
			"channel": channel,
		})
		return err
	}
	return nil
}

// Subscribe opens a subscription and waits for the confirmation so no
// message published after it returns is missed.
func Subscribe(ctx context.Context, c *redis.Client, channel string) (*redis.PubSub, error) {
	pubsub := c.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		logger.Error("Failed to subscribe", err, map[string]interface{}{
			"channel": channel,
		})
		return nil, err
	}
	logger.Debug("Subscribed to channel", map[string]interface{}{
		"channel": channel,
	})
	return pubsub, nil
}
