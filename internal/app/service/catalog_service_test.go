package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ikkim/variant-reservation/internal/app/model"
	"github.com/ikkim/variant-reservation/internal/app/repository"
	"github.com/ikkim/variant-reservation/internal/db"
	"github.com/ikkim/variant-reservation/internal/engine"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixResolver struct {
	prefix string
	fail   string
}

func (r prefixResolver) ResolveURL(_ context.Context, key string) (string, error) {
	if key == r.fail {
		return "", errors.New("presign failed")
	}
	return r.prefix + key, nil
}

func setupCatalogTest(t *testing.T, images ImageResolver) (CatalogService, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	ctx := context.Background()
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)

	product := &model.Product{
		Name:          "Everyday Tee",
		Price:         decimal.NewFromInt(29000),
		Images:        pq.StringArray{"tee.jpg", "broken.jpg"},
		StockQuantity: 6,
	}
	require.NoError(t, productRepo.Create(ctx, product))
	require.NoError(t, variantRepo.BulkCreate(ctx, []model.Variant{
		{ProductID: product.ID, Size: "M", Color: "Red", ColorHex: "#FF0000", Stock: 2, Active: true},
		{ProductID: product.ID, Size: "L", Color: "red", Stock: 0, Active: true},
		{ProductID: product.ID, Size: "XL", Color: "Green", Stock: 9, Active: false},
	}, 10))

	return NewCatalogService(productRepo, variantRepo, images), product
}

func TestCatalogService_GetProduct(t *testing.T) {
	svc, product := setupCatalogTest(t, prefixResolver{prefix: "https://cdn.example.com/", fail: "broken.jpg"})

	record, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, record.ID)
	assert.Equal(t, "Everyday Tee", record.Name)
	assert.Equal(t, []string{"https://cdn.example.com/tee.jpg", "broken.jpg"}, record.Images)

	_, err = svc.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_GetProductWithoutResolver(t *testing.T) {
	svc, product := setupCatalogTest(t, nil)

	record, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tee.jpg", "broken.jpg"}, record.Images)
}

func TestCatalogService_FetchesForSessions(t *testing.T) {
	svc, product := setupCatalogTest(t, nil)
	ctx := context.Background()

	variants, err := svc.FetchVariants(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 3)
	assert.False(t, variants[2].Active, "inactive rows are left to the index to skip")

	fallback, err := svc.FetchFallbackStock(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, fallback)

	_, err = svc.FetchFallbackStock(ctx, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_GetStockView(t *testing.T) {
	svc, product := setupCatalogTest(t, nil)

	view, err := svc.GetStockView(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"M", "L"}, view.Sizes)
	assert.Equal(t, []engine.ColorOption{{Name: "Red", Hex: "#FF0000"}}, view.Colors)
	assert.Equal(t, engine.StockIndex{"M|red": 2, "L|red": 0}, view.Stock)
	assert.Equal(t, 6, view.FallbackStock)
}
