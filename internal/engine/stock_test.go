package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_LowercasesColorOnly(t *testing.T) {
	assert.Equal(t, "M|red", Key("M", "Red"))
	assert.Equal(t, "xl|navy blue", Key("xl", "Navy Blue"))
	assert.Equal(t, "7|M|red", LineItemID(7, "M", "RED"))
}

func TestBuildIndex_SkipsInactiveRows(t *testing.T) {
	inactive := variant(2, "L", "Blue", 4)
	inactive.Active = false

	idx := BuildIndex([]Variant{variant(1, "M", "Red", 3), inactive})

	stock, ok := idx.Lookup("M|red")
	assert.True(t, ok)
	assert.Equal(t, 3, stock)

	_, ok = idx.Lookup("L|blue")
	assert.False(t, ok)
}

func TestBuildIndex_DuplicateKeyLastWins(t *testing.T) {
	idx := BuildIndex([]Variant{
		variant(1, "M", "Red", 3),
		variant(2, "M", "RED", 8),
	})

	assert.Len(t, idx, 1)
	assert.Equal(t, 8, idx["M|red"])
}

func TestBuildIndex_ZeroStockIsIndexed(t *testing.T) {
	idx := BuildIndex([]Variant{variant(1, "S", "White", 0)})

	stock, ok := idx.Lookup("S|white")
	assert.True(t, ok)
	assert.Zero(t, stock)
}

func TestMirror_Apply(t *testing.T) {
	base := Mirror{Variants: []Variant{variant(1, "M", "Red", 3)}, FallbackStock: 2}

	t.Run("insert appends", func(t *testing.T) {
		v := variant(2, "L", "Blue", 1)
		next := base.Apply(StockEvent{ProductID: 7, Kind: EventInsert, Variant: &v})

		require.Len(t, next.Variants, 2)
		assert.Equal(t, 1, next.Index()["L|blue"])
		assert.Len(t, base.Variants, 1, "receiver must not change")
	})

	t.Run("update replaces by id", func(t *testing.T) {
		v := variant(1, "M", "Red", 0)
		next := base.Apply(StockEvent{ProductID: 7, Kind: EventUpdate, Variant: &v})

		require.Len(t, next.Variants, 1)
		assert.Equal(t, 0, next.Index()["M|red"])
		assert.Equal(t, 3, base.Variants[0].Stock)
	})

	t.Run("update of unknown id inserts", func(t *testing.T) {
		v := variant(9, "S", "Green", 2)
		next := base.Apply(StockEvent{ProductID: 7, Kind: EventUpdate, Variant: &v})

		assert.Len(t, next.Variants, 2)
	})

	t.Run("delete removes by id", func(t *testing.T) {
		next := base.Apply(StockEvent{ProductID: 7, Kind: EventDelete, VariantID: 1})

		assert.Empty(t, next.Variants)
		assert.True(t, next.Variantless())
		assert.Len(t, base.Variants, 1)
	})

	t.Run("delete of unknown id is a no-op", func(t *testing.T) {
		next := base.Apply(StockEvent{ProductID: 7, Kind: EventDelete, VariantID: 42})

		assert.Equal(t, base.Variants, next.Variants)
	})

	t.Run("product stock replaces fallback", func(t *testing.T) {
		next := base.Apply(StockEvent{ProductID: 7, Kind: EventProductStock, FallbackStock: intPtr(11)})

		assert.Equal(t, 11, next.FallbackStock)
		assert.Equal(t, 2, base.FallbackStock)
	})
}

func TestStockEvent_Validate(t *testing.T) {
	v := variant(1, "M", "Red", 1)

	assert.NoError(t, StockEvent{Kind: EventInsert, Variant: &v}.Validate())
	assert.NoError(t, StockEvent{Kind: EventDelete, VariantID: 1}.Validate())
	assert.NoError(t, StockEvent{Kind: EventProductStock, FallbackStock: intPtr(0)}.Validate())

	assert.Error(t, StockEvent{Kind: EventUpdate}.Validate())
	assert.Error(t, StockEvent{Kind: EventDelete}.Validate())
	assert.Error(t, StockEvent{Kind: EventProductStock}.Validate())
	assert.Error(t, StockEvent{Kind: "truncate"}.Validate())
}

func TestMirror_SizesAndColors(t *testing.T) {
	hidden := variant(4, "XL", "Green", 1)
	hidden.Active = false

	red := variant(1, "M", "Red", 1)
	red.ColorHex = "#FF0000"
	m := Mirror{Variants: []Variant{
		red,
		variant(2, "L", "red", 1),
		variant(3, "M", "Blue", 1),
		hidden,
	}}

	assert.Equal(t, []string{"M", "L"}, m.Sizes())
	assert.Equal(t, []ColorOption{
		{Name: "Red", Hex: "#FF0000"},
		{Name: "Blue"},
	}, m.Colors())
}
