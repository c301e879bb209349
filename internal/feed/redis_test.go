package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStockEvent(t *testing.T) {
	ev, err := decodeStockEvent(`{"product_id":4,"kind":"product_stock","fallback_stock":0}`)
	require.NoError(t, err)
	assert.Equal(t, uint(4), ev.ProductID)
	require.NotNil(t, ev.FallbackStock)
	assert.Zero(t, *ev.FallbackStock)

	ev, err = decodeStockEvent(`{"product_id":4,"kind":"delete","variant_id":9}`)
	require.NoError(t, err)
	assert.Equal(t, uint(9), ev.VariantID)

	_, err = decodeStockEvent(`{"product_id":4,"kind":"update"}`)
	assert.Error(t, err)

	_, err = decodeStockEvent(`not json`)
	assert.Error(t, err)
}
