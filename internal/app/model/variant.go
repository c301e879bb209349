package model

import (
	"time"

	"github.com/ikkim/variant-reservation/internal/engine"
	"gorm.io/gorm"
)

type Variant struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // 고유 옵션 ID
	ProductID uint           `gorm:"index;not null" json:"product_id"`  // 소속 상품 ID
	Size      string         `gorm:"not null" json:"size"`              // 사이즈
	Color     string         `gorm:"not null" json:"color"`             // 색상 표시명
	ColorHex  string         `gorm:"type:varchar(16)" json:"color_hex"` // 색상 스와치
	Stock     int            `gorm:"not null;default:0" json:"stock"`   // 남은 재고
	Active    bool           `gorm:"not null" json:"active"`            // 판매 여부
	CreatedAt time.Time      `json:"created_at"`                        // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"`                        // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // 삭제 시각(소프트 삭제)

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Variant) TableName() string {
	return "variants"
}

func (v Variant) ToEngine() engine.Variant {
	return engine.Variant{
		ID:        v.ID,
		ProductID: v.ProductID,
		Size:      v.Size,
		Color:     v.Color,
		ColorHex:  v.ColorHex,
		Stock:     v.Stock,
		Active:    v.Active,
	}
}
