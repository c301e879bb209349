package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoAdd(t *testing.T) {
	idx := StockIndex{"M|red": 1, "L|blue": 3}

	t.Run("appends one slot", func(t *testing.T) {
		p, rej := AutoAdd(nil, idx, "M", "Red", 2)

		require.Nil(t, rej)
		assert.Equal(t, Plan{{Size: "M", Color: "Red"}}, p)
	})

	t.Run("rejects unknown combination", func(t *testing.T) {
		p, rej := AutoAdd(nil, idx, "S", "Red", 2)

		require.NotNil(t, rej)
		assert.Equal(t, RejectCombinationUnavailable, rej.Kind)
		assert.Empty(t, p)
	})

	t.Run("rejects past stock", func(t *testing.T) {
		start := Plan{{Size: "M", Color: "Red"}}
		p, rej := AutoAdd(start, idx, "M", "red", 3)

		require.NotNil(t, rej)
		assert.Equal(t, RejectInsufficientStock, rej.Kind)
		assert.Equal(t, start, p)
	})

	t.Run("rejects once the plan is full", func(t *testing.T) {
		start := Plan{{Size: "L", Color: "Blue"}, {Size: "L", Color: "Blue"}}
		p, rej := AutoAdd(start, idx, "L", "Blue", 2)

		require.NotNil(t, rej)
		assert.Len(t, p, 2)
	})
}

func TestTruncate_KeepsFront(t *testing.T) {
	p := Plan{
		{Size: "S", Color: "Red"},
		{Size: "M", Color: "Red"},
		{Size: "L", Color: "Red"},
	}

	assert.Equal(t, p[:2], Truncate(p, 2))
	assert.Equal(t, p, Truncate(p, 5))
	assert.Empty(t, Truncate(p, 0))
	assert.Len(t, p, 3)
}

func TestFill(t *testing.T) {
	base := Slot{Size: "M", Color: "Red"}

	t.Run("duplicates base up to quantity", func(t *testing.T) {
		p, rej := Fill(Plan{base}, StockIndex{"M|red": 5}, base, 3)

		require.Nil(t, rej)
		assert.Equal(t, Plan{base, base, base}, p)
	})

	t.Run("all or nothing", func(t *testing.T) {
		start := Plan{base}
		p, rej := Fill(start, StockIndex{"M|red": 2}, base, 4)

		require.NotNil(t, rej)
		assert.Equal(t, RejectInsufficientStock, rej.Kind)
		assert.Equal(t, "Insufficient stock to complete the requested quantity", rej.Message)
		assert.Equal(t, start, p)
	})

	t.Run("stock below current count duplicates nothing", func(t *testing.T) {
		p, rej := Fill(Plan{base, base}, StockIndex{"M|red": 1}, base, 3)

		require.NotNil(t, rej)
		assert.Len(t, p, 2)
	})

	t.Run("unknown base", func(t *testing.T) {
		_, rej := Fill(nil, StockIndex{}, base, 2)

		require.NotNil(t, rej)
		assert.Equal(t, RejectCombinationUnavailable, rej.Kind)
	})
}

func TestFillBase(t *testing.T) {
	last := Slot{Size: "L", Color: "Blue"}
	p := Plan{{Size: "M", Color: "Red"}, last}

	got, rej := FillBase(p, NewSelection())
	require.Nil(t, rej)
	assert.Equal(t, last, got)

	sel := Selection{Size: Some("S"), Color: Some("Green"), Quantity: 2}
	got, rej = FillBase(nil, sel)
	require.Nil(t, rej)
	assert.Equal(t, Slot{Size: "S", Color: "Green"}, got)

	_, rej = FillBase(nil, Selection{Size: Some("S"), Quantity: 2})
	require.NotNil(t, rej)
	assert.Equal(t, RejectSelectionIncomplete, rej.Kind)
	assert.ErrorIs(t, rej, ErrSelectionIncomplete)
}

// Every slot was appended under its key's stock at append time.
func TestPlanner_NeverAppendsPastStock(t *testing.T) {
	idx := StockIndex{"M|red": 2, "L|red": 1, "M|blue": 0}
	picks := []Slot{
		{Size: "M", Color: "Red"},
		{Size: "M", Color: "Red"},
		{Size: "M", Color: "Red"},
		{Size: "L", Color: "Red"},
		{Size: "L", Color: "Red"},
		{Size: "M", Color: "Blue"},
	}

	var p Plan
	for _, pick := range picks {
		p, _ = AutoAdd(p, idx, pick.Size, pick.Color, 10)
		counts, _ := p.Counts()
		for k, n := range counts {
			assert.LessOrEqual(t, n, idx[k], "key %s", k)
		}
	}
	assert.Len(t, p, 3)
}
