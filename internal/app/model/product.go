package model

import (
	"time"

	"github.com/ikkim/variant-reservation/internal/engine"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID    uint            `gorm:"primarykey" json:"id"`
	Name  string          `gorm:"not null" json:"name"`
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	// Images holds storage keys or absolute URLs; the first one is used on line items.
	Images pq.StringArray `gorm:"type:text[]" json:"images"`
	// StockQuantity is the product-level fallback stock.
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Variants []Variant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ToRecord converts the row to the catalog record handed to the engine.
// Image keys are passed through unresolved.
func (p Product) ToRecord() engine.ProductRecord {
	images := make([]string, len(p.Images))
	copy(images, p.Images)
	return engine.ProductRecord{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price,
		Images: images,
	}
}
