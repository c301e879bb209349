package feed

import (
	"context"
	"testing"

	"github.com/ikkim/variant-reservation/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockUpdate(productID uint, stock int) engine.StockEvent {
	return engine.StockEvent{
		ProductID: productID,
		Kind:      engine.EventUpdate,
		Variant:   &engine.Variant{ID: 1, ProductID: productID, Size: "M", Color: "Red", Stock: stock, Active: true},
	}
}

func TestMemoryFeed_DeliversInPublishOrder(t *testing.T) {
	f := NewMemoryFeed()
	ctx := context.Background()

	var got []int
	unsub, err := f.Subscribe(ctx, 1, func(ev engine.StockEvent) {
		got = append(got, ev.Variant.Stock)
	})
	require.NoError(t, err)
	defer unsub()

	for _, n := range []int{5, 4, 3} {
		require.NoError(t, f.Publish(ctx, stockUpdate(1, n)))
	}

	assert.Equal(t, []int{5, 4, 3}, got)
}

func TestMemoryFeed_ScopesByProduct(t *testing.T) {
	f := NewMemoryFeed()
	ctx := context.Background()

	calls := 0
	_, err := f.Subscribe(ctx, 1, func(engine.StockEvent) { calls++ })
	require.NoError(t, err)

	require.NoError(t, f.Publish(ctx, stockUpdate(2, 1)))
	assert.Zero(t, calls)
}

func TestMemoryFeed_Unsubscribe(t *testing.T) {
	f := NewMemoryFeed()
	ctx := context.Background()

	calls := 0
	unsub, err := f.Subscribe(ctx, 1, func(engine.StockEvent) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, f.Subscribers(1))

	unsub()
	unsub()
	assert.Zero(t, f.Subscribers(1))

	require.NoError(t, f.Publish(ctx, stockUpdate(1, 1)))
	assert.Zero(t, calls)
}

func TestMemoryFeed_RejectsInvalidEvents(t *testing.T) {
	f := NewMemoryFeed()

	err := f.Publish(context.Background(), engine.StockEvent{ProductID: 1, Kind: engine.EventInsert})
	assert.Error(t, err)
}
