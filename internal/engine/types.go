package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Variant is one purchasable size/color row of a product.
type Variant struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	ColorHex  string `json:"color_hex"`
	Stock     int    `json:"stock"`
	Active    bool   `json:"active"`
}

// Key returns the stock index key of the variant.
func (v Variant) Key() string {
	return Key(v.Size, v.Color)
}

// ProductRecord is supplied once by the catalog when a product view activates.
type ProductRecord struct {
	ID     uint            `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images"`
}

// Slot assigns exactly one unit of the purchase to a size/color pair.
type Slot struct {
	Size  string `json:"size"`
	Color string `json:"color"`
}

func (s Slot) Key() string {
	return Key(s.Size, s.Color)
}

// LineItem is one cart row per distinct size/color pair.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
}

// Key builds the canonical "size|lowercase(color)" index key.
func Key(size, color string) string {
	return size + "|" + strings.ToLower(color)
}

// LineItemID builds "productId|size|lowercase(color)".
func LineItemID(productID uint, size, color string) string {
	return fmt.Sprintf("%d|%s", productID, Key(size, color))
}

// Choice is an optional shopper choice. The zero value is unset.
type Choice struct {
	value string
	set   bool
}

func Some(v string) Choice {
	return Choice{value: v, set: true}
}

func None() Choice {
	return Choice{}
}

func (c Choice) IsSet() bool {
	return c.set
}

// Get returns the value and whether it was chosen.
func (c Choice) Get() (string, bool) {
	return c.value, c.set
}

// String returns the chosen value or "" when unset.
func (c Choice) String() string {
	return c.value
}
