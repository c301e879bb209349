package repository

import (
	"context"

	"github.com/ikkim/variant-reservation/internal/app/model"
	"github.com/ikkim/variant-reservation/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VariantRepository interface {
	Create(ctx context.Context, variant *model.Variant) error
	BulkCreate(ctx context.Context, variants []model.Variant, batchSize int) error
	FindByID(ctx context.Context, id uint) (*model.Variant, error)
	FindByProductID(ctx context.Context, productID uint) ([]model.Variant, error)
	Update(ctx context.Context, variant *model.Variant) error
	Delete(ctx context.Context, id uint) error
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Variant, error)
	Transaction(ctx context.Context, fn func(repo VariantRepository) error) error
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) Create(ctx context.Context, variant *model.Variant) error {
	logger.Debug("Creating variant", map[string]interface{}{
		"product_id": variant.ProductID,
		"size":       variant.Size,
		"color":      variant.Color,
	})

	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		logger.Error("Failed to create variant", err, map[string]interface{}{
			"product_id": variant.ProductID,
			"size":       variant.Size,
			"color":      variant.Color,
		})
		return err
	}

	logger.Debug("Variant created", map[string]interface{}{
		"variant_id": variant.ID,
	})
	return nil
}

func (r *variantRepository) BulkCreate(ctx context.Context, variants []model.Variant, batchSize int) error {
	if len(variants) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(variants, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create variants", err, map[string]interface{}{
			"count": len(variants),
		})
		return err
	}
	logger.Info("Variants imported", map[string]interface{}{
		"count": len(variants),
	})
	return nil
}

func (r *variantRepository) FindByID(ctx context.Context, id uint) (*model.Variant, error) {
	var variant model.Variant
	if err := r.db.WithContext(ctx).First(&variant, id).Error; err != nil {
		logger.Debug("Variant lookup failed", map[string]interface{}{
			"variant_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &variant, nil
}

// FindByProductID returns every variant row of the product, active or not,
// in insertion order.
func (r *variantRepository) FindByProductID(ctx context.Context, productID uint) ([]model.Variant, error) {
	logger.Debug("Finding variants by product", map[string]interface{}{
		"product_id": productID,
	})

	var variants []model.Variant
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id ASC").Find(&variants).Error; err != nil {
		logger.Error("Failed to find variants", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Variants found", map[string]interface{}{
		"product_id": productID,
		"count":      len(variants),
	})
	return variants, nil
}

func (r *variantRepository) Update(ctx context.Context, variant *model.Variant) error {
	if err := r.db.WithContext(ctx).Save(variant).Error; err != nil {
		logger.Error("Failed to update variant", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}

	logger.Debug("Variant updated", map[string]interface{}{
		"variant_id": variant.ID,
		"stock":      variant.Stock,
		"active":     variant.Active,
	})
	return nil
}

func (r *variantRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Variant{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete variant", result.Error, map[string]interface{}{
			"variant_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *variantRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Variant, error) {
	var variant model.Variant
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&variant, id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// Transaction runs fn with a repository bound to one database transaction.
func (r *variantRepository) Transaction(ctx context.Context, fn func(repo VariantRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&variantRepository{db: tx})
	})
}
