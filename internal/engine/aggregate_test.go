package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_GroupsByKey(t *testing.T) {
	p := Plan{
		{Size: "M", Color: "Red"},
		{Size: "L", Color: "Blue"},
		{Size: "M", Color: "red"},
	}

	lines, err := Aggregate(testProduct(), p, 3)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "7|M|red", lines[0].ID)
	assert.Equal(t, "Red", lines[0].Color)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "7|L|blue", lines[1].ID)
	assert.Equal(t, 1, lines[1].Quantity)

	assert.Equal(t, "Everyday Tee", lines[0].Name)
	assert.True(t, lines[0].Price.Equal(testProduct().Price))
	assert.Equal(t, "https://cdn.example.com/tee.jpg", lines[0].Image)
}

func TestAggregate_AllOrNothing(t *testing.T) {
	lines, err := Aggregate(testProduct(), Plan{{Size: "M", Color: "Red"}}, 2)

	assert.Nil(t, lines)
	assert.ErrorIs(t, err, ErrQuantityMismatch)
}

// Summing the emitted quantities per key reproduces the requested quantity.
func TestAggregate_RoundTrip(t *testing.T) {
	plans := []Plan{
		{{Size: "S", Color: "Red"}},
		{{Size: "S", Color: "Red"}, {Size: "S", Color: "Red"}, {Size: "M", Color: "Blue"}},
		{{Size: "L", Color: "Green"}, {Size: "M", Color: "Green"}, {Size: "L", Color: "GREEN"}, {Size: "M", Color: "green"}},
	}

	for _, p := range plans {
		lines, err := Aggregate(testProduct(), p, len(p))
		require.NoError(t, err)

		want, _ := p.Counts()
		got := make(map[string]int)
		total := 0
		for _, line := range lines {
			got[Key(line.Size, line.Color)] += line.Quantity
			total += line.Quantity
		}
		assert.Equal(t, want, got)
		assert.Equal(t, len(p), total)
	}
}

func TestSingleLine(t *testing.T) {
	product := testProduct()
	product.Images = nil

	line := SingleLine(product, "M", "Red")

	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, "7|M|red", line.ID)
	assert.Empty(t, line.Image)
}

func TestEmit_StopsAtFirstError(t *testing.T) {
	lines := []LineItem{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	var seen []string
	boom := errors.New("cart offline")

	err := Emit(context.Background(), CartSinkFunc(func(_ context.Context, item LineItem) error {
		seen = append(seen, item.ID)
		if item.ID == "b" {
			return boom
		}
		return nil
	}), lines)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, seen)
}

type batchSink struct {
	batches [][]LineItem
	singles int
}

func (s *batchSink) EmitLineItem(context.Context, LineItem) error {
	s.singles++
	return nil
}

func (s *batchSink) EmitLineItems(_ context.Context, lines []LineItem) error {
	s.batches = append(s.batches, lines)
	return nil
}

func TestEmit_PrefersBatchSink(t *testing.T) {
	sink := &batchSink{}
	lines := []LineItem{{ID: "a"}, {ID: "b"}}

	require.NoError(t, Emit(context.Background(), sink, lines))

	assert.Zero(t, sink.singles)
	require.Len(t, sink.batches, 1)
	assert.Equal(t, lines, sink.batches[0])
}
