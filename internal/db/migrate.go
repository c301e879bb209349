package db

import (
	"github.com/ikkim/variant-reservation/internal/app/model"
	"github.com/ikkim/variant-reservation/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Product{},
		&model.Variant{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds a demo product with a few variants when the catalog is empty.
func Seed() error {
	return seedDemoProduct(DB)
}

func seedDemoProduct(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding demo product...")

	product := model.Product{
		Name:  "Everyday Tee",
		Price: decimal.RequireFromString("29000"),
		Variants: []model.Variant{
			{Size: "S", Color: "Black", ColorHex: "#000000", Stock: 5, Active: true},
			{Size: "M", Color: "Black", ColorHex: "#000000", Stock: 3, Active: true},
			{Size: "M", Color: "White", ColorHex: "#FFFFFF", Stock: 2, Active: true},
			{Size: "L", Color: "White", ColorHex: "#FFFFFF", Stock: 0, Active: true},
		},
	}

	if err := db.Create(&product).Error; err != nil {
		logger.Error("Failed to create demo product", err)
		return err
	}

	logger.Info("Demo product seeded successfully", map[string]interface{}{
		"product_id": product.ID,
		"variants":   len(product.Variants),
	})
	return nil
}
