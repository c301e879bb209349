package main

import (
	"context"
	"testing"

	"github.com/ikkim/variant-reservation/internal/app/model"
	"github.com/ikkim/variant-reservation/internal/app/repository"
	"github.com/ikkim/variant-reservation/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariantRows(t *testing.T) {
	rows := [][]string{
		{"상품명", "가격", "사이즈", "색상", "색상코드", "재고", "판매여부"},
		{"Everyday Tee", "29,000", "M", "Red", "#FF0000", "5", "Y"},
		{"Everyday Tee", "29000", "L", "Red", "red", "0", "N"},
		{"Everyday Tee", "29000", "XL", "Red", "", "-1"},
		{"", "29000", "S", "Red", "", "1"},
		{"Everyday Tee", "free", "S", "Red", "", "1"},
		{"Everyday Tee", "29000", "S"},
		{"Oxford Shirt", "59000", "100", "Blue", "#0000FF", "2"},
	}

	parsed, skipped := parseVariantRows(rows)

	require.Len(t, parsed, 3)
	assert.Equal(t, 4, skipped)

	assert.Equal(t, "29000", parsed[0].Price.String())
	assert.Equal(t, "#FF0000", parsed[0].ColorHex)
	assert.True(t, parsed[0].Active)

	assert.Empty(t, parsed[1].ColorHex, "malformed hex is dropped")
	assert.False(t, parsed[1].Active)
	assert.Zero(t, parsed[1].Stock)

	assert.Equal(t, "Oxford Shirt", parsed[2].ProductName)
	assert.True(t, parsed[2].Active, "missing active column means active")
}

func TestParseActive(t *testing.T) {
	for _, s := range []string{"N", "no", " false ", "0", "OFF", "판매중지"} {
		assert.False(t, parseActive(s), s)
	}
	for _, s := range []string{"Y", "yes", "1", "", "판매중"} {
		assert.True(t, parseActive(s), s)
	}
}

func TestAttachProducts(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	ctx := context.Background()
	productRepo := repository.NewProductRepository(testDB)
	existing := &model.Product{Name: "Oxford Shirt", Price: decimal.NewFromInt(59000)}
	require.NoError(t, productRepo.Create(ctx, existing))

	rows := []variantRow{
		{ProductName: "Everyday Tee", Price: decimal.NewFromInt(29000), Size: "M", Color: "Red", Stock: 5, Active: true},
		{ProductName: "Everyday Tee", Price: decimal.NewFromInt(29000), Size: "L", Color: "Red", Stock: 2, Active: true},
		{ProductName: "Oxford Shirt", Price: decimal.NewFromInt(59000), Size: "100", Color: "Blue", Stock: 1},
	}

	variants, err := attachProducts(ctx, productRepo, rows)
	require.NoError(t, err)
	require.Len(t, variants, 3)

	assert.Equal(t, variants[0].ProductID, variants[1].ProductID)
	assert.NotZero(t, variants[0].ProductID)
	assert.Equal(t, existing.ID, variants[2].ProductID)
	assert.False(t, variants[2].Active)

	var count int64
	require.NoError(t, testDB.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
