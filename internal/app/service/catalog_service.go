package service

import (
	"context"
	"errors"

	"github.com/ikkim/variant-reservation/internal/app/repository"
	"github.com/ikkim/variant-reservation/internal/engine"
	"github.com/ikkim/variant-reservation/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ImageResolver turns a stored image key into a URL the shopper can load.
type ImageResolver interface {
	ResolveURL(ctx context.Context, key string) (string, error)
}

// StockView is the read-only stock picture of a product.
type StockView struct {
	ProductID     uint                 `json:"product_id"`
	Sizes         []string             `json:"sizes"`
	Colors        []engine.ColorOption `json:"colors"`
	Stock         engine.StockIndex    `json:"stock"`
	FallbackStock int                  `json:"fallback_stock"`
	Variants      []engine.Variant     `json:"variants"`
}

// CatalogService is the product collaborator of the shopper sessions.
type CatalogService interface {
	engine.Catalog
	GetProduct(ctx context.Context, productID uint) (engine.ProductRecord, error)
	GetStockView(ctx context.Context, productID uint) (*StockView, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	images      ImageResolver
}

// NewCatalogService builds the catalog. images may be nil, in which case
// image keys are returned as stored.
func NewCatalogService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	images ImageResolver,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		images:      images,
	}
}

func (s *catalogService) GetProduct(ctx context.Context, productID uint) (engine.ProductRecord, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.ProductRecord{}, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return engine.ProductRecord{}, err
	}

	record := product.ToRecord()
	if s.images == nil {
		return record, nil
	}
	for i, key := range record.Images {
		url, err := s.images.ResolveURL(ctx, key)
		if err != nil {
			logger.Warn("Failed to resolve product image", map[string]interface{}{
				"product_id": productID,
				"key":        key,
				"error":      err.Error(),
			})
			continue
		}
		record.Images[i] = url
	}
	return record, nil
}

func (s *catalogService) FetchVariants(ctx context.Context, productID uint) ([]engine.Variant, error) {
	rows, err := s.variantRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	variants := make([]engine.Variant, 0, len(rows))
	for _, row := range rows {
		variants = append(variants, row.ToEngine())
	}
	return variants, nil
}

func (s *catalogService) FetchFallbackStock(ctx context.Context, productID uint) (int, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return product.StockQuantity, nil
}

func (s *catalogService) GetStockView(ctx context.Context, productID uint) (*StockView, error) {
	fallback, err := s.FetchFallbackStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	variants, err := s.FetchVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	mirror := engine.Mirror{Variants: variants, FallbackStock: fallback}
	return &StockView{
		ProductID:     productID,
		Sizes:         mirror.Sizes(),
		Colors:        mirror.Colors(),
		Stock:         mirror.Index(),
		FallbackStock: fallback,
		Variants:      variants,
	}, nil
}
