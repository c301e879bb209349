// Package feed carries stock change events from the backing store to the
// shopper sessions watching a product.
package feed

import (
	"context"

	"github.com/ikkim/variant-reservation/internal/engine"
)

// Publisher is the write side of a feed.
type Publisher interface {
	Publish(ctx context.Context, ev engine.StockEvent) error
}

// Feed is both sides of a change feed.
type Feed interface {
	Publisher
	engine.Feed
}
