package engine

import (
	"context"
	"fmt"
)

// CartSink is the cart collaborator. It receives one call per distinct
// size/color pair of a successful commit.
type CartSink interface {
	EmitLineItem(ctx context.Context, item LineItem) error
}

// CartSinkFunc adapts a function to CartSink.
type CartSinkFunc func(ctx context.Context, item LineItem) error

func (f CartSinkFunc) EmitLineItem(ctx context.Context, item LineItem) error {
	return f(ctx, item)
}

// Aggregate collapses a finalized plan into one line per key, in
// first-appearance order. Nothing is returned unless the quantities add up
// to quantity exactly.
func Aggregate(product ProductRecord, p Plan, quantity int) ([]LineItem, error) {
	counts, order := p.Counts()
	first := make(map[string]Slot, len(order))
	for _, s := range p {
		if _, ok := first[s.Key()]; !ok {
			first[s.Key()] = s
		}
	}

	lines := make([]LineItem, 0, len(order))
	total := 0
	for _, k := range order {
		s := first[k]
		lines = append(lines, newLineItem(product, s.Size, s.Color, counts[k]))
		total += counts[k]
	}
	if total != quantity {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrQuantityMismatch, total, quantity)
	}
	return lines, nil
}

// SingleLine builds the line for the single-unit path without grouping.
func SingleLine(product ProductRecord, size, color string) LineItem {
	return newLineItem(product, size, color, 1)
}

func newLineItem(product ProductRecord, size, color string, quantity int) LineItem {
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return LineItem{
		ID:       LineItemID(product.ID, size, color),
		Name:     product.Name,
		Price:    product.Price,
		Image:    image,
		Quantity: quantity,
		Size:     size,
		Color:    color,
	}
}

// BatchSink is a CartSink that takes a whole commit at once and either
// accepts every line or none of them.
type BatchSink interface {
	CartSink
	EmitLineItems(ctx context.Context, lines []LineItem) error
}

// Emit hands the lines to the sink. A BatchSink receives them in one call;
// any other sink gets them in order until the first error.
func Emit(ctx context.Context, sink CartSink, lines []LineItem) error {
	if batch, ok := sink.(BatchSink); ok {
		if err := batch.EmitLineItems(ctx, lines); err != nil {
			return fmt.Errorf("emit %d line items: %w", len(lines), err)
		}
		return nil
	}
	for _, line := range lines {
		if err := sink.EmitLineItem(ctx, line); err != nil {
			return fmt.Errorf("emit line item %s: %w", line.ID, err)
		}
	}
	return nil
}
