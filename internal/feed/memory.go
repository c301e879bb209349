package feed

import (
	"context"
	"sort"
	"sync"

	"github.com/ikkim/variant-reservation/internal/engine"
)

// MemoryFeed delivers events in-process, synchronously and in publish order.
// It serves tests and single-node deployments.
type MemoryFeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[uint]map[int]func(engine.StockEvent)
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[uint]map[int]func(engine.StockEvent))}
}

func (f *MemoryFeed) Subscribe(_ context.Context, productID uint, handler func(engine.StockEvent)) (engine.Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	if f.subs[productID] == nil {
		f.subs[productID] = make(map[int]func(engine.StockEvent))
	}
	f.subs[productID][id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs[productID], id)
			if len(f.subs[productID]) == 0 {
				delete(f.subs, productID)
			}
		})
	}, nil
}

func (f *MemoryFeed) Publish(_ context.Context, ev engine.StockEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	ids := make([]int, 0, len(f.subs[ev.ProductID]))
	for id := range f.subs[ev.ProductID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(engine.StockEvent), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, f.subs[ev.ProductID][id])
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
	return nil
}

// Subscribers returns how many handlers watch productID.
func (f *MemoryFeed) Subscribers(productID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[productID])
}
