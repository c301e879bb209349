package engine

import (
	"fmt"
	"strings"
)

// EventKind is the kind of change carried by a StockEvent.
type EventKind string

const (
	EventInsert       EventKind = "insert"
	EventUpdate       EventKind = "update"
	EventDelete       EventKind = "delete"
	EventProductStock EventKind = "product_stock"
)

// StockEvent is one change-feed notification scoped to a product.
type StockEvent struct {
	ProductID     uint      `json:"product_id"`
	Kind          EventKind `json:"kind"`
	Variant       *Variant  `json:"variant,omitempty"`
	VariantID     uint      `json:"variant_id,omitempty"`
	FallbackStock *int      `json:"fallback_stock,omitempty"`
}

// Validate reports events that cannot be applied to a mirror.
func (e StockEvent) Validate() error {
	switch e.Kind {
	case EventInsert, EventUpdate:
		if e.Variant == nil {
			return fmt.Errorf("%s event without variant", e.Kind)
		}
	case EventDelete:
		if e.VariantID == 0 && e.Variant == nil {
			return fmt.Errorf("delete event without variant id")
		}
	case EventProductStock:
		if e.FallbackStock == nil {
			return fmt.Errorf("product_stock event without fallback stock")
		}
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}

func (e StockEvent) variantID() uint {
	if e.VariantID != 0 {
		return e.VariantID
	}
	if e.Variant != nil {
		return e.Variant.ID
	}
	return 0
}

// StockIndex maps "size|lowercase(color)" to remaining stock. It is rebuilt
// on every mirror change and never patched in place.
type StockIndex map[string]int

// Lookup returns the stock for key and whether the combination exists.
func (idx StockIndex) Lookup(key string) (int, bool) {
	n, ok := idx[key]
	return n, ok
}

// BuildIndex indexes the active variants. Rows sharing a key are not summed;
// the last one processed wins.
func BuildIndex(variants []Variant) StockIndex {
	idx := make(StockIndex, len(variants))
	for _, v := range variants {
		if !v.Active {
			continue
		}
		idx[v.Key()] = v.Stock
	}
	return idx
}

// ColorOption is a distinct color with its swatch.
type ColorOption struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Mirror is the read-only local copy of a product's variant rows and
// fallback stock.
type Mirror struct {
	Variants      []Variant
	FallbackStock int
}

// Apply returns a new mirror with the event applied. The receiver is not
// modified.
func (m Mirror) Apply(ev StockEvent) Mirror {
	next := Mirror{
		Variants:      make([]Variant, len(m.Variants)),
		FallbackStock: m.FallbackStock,
	}
	copy(next.Variants, m.Variants)

	switch ev.Kind {
	case EventInsert, EventUpdate:
		next.Variants = upsert(next.Variants, *ev.Variant)
	case EventDelete:
		id := ev.variantID()
		kept := next.Variants[:0]
		for _, v := range next.Variants {
			if v.ID != id {
				kept = append(kept, v)
			}
		}
		next.Variants = kept
	case EventProductStock:
		next.FallbackStock = *ev.FallbackStock
	}
	return next
}

func upsert(variants []Variant, v Variant) []Variant {
	for i := range variants {
		if variants[i].ID == v.ID {
			variants[i] = v
			return variants
		}
	}
	return append(variants, v)
}

// Index rebuilds the stock index from the full mirror.
func (m Mirror) Index() StockIndex {
	return BuildIndex(m.Variants)
}

// Variantless reports a product with no active variant rows; such a product
// is gated on its fallback stock only.
func (m Mirror) Variantless() bool {
	for _, v := range m.Variants {
		if v.Active {
			return false
		}
	}
	return true
}

// Sizes lists distinct sizes of active variants in first-appearance order.
func (m Mirror) Sizes() []string {
	seen := make(map[string]bool)
	sizes := []string{}
	for _, v := range m.Variants {
		if !v.Active || v.Size == "" || seen[v.Size] {
			continue
		}
		seen[v.Size] = true
		sizes = append(sizes, v.Size)
	}
	return sizes
}

// Colors lists distinct colors (case-insensitive) of active variants.
func (m Mirror) Colors() []ColorOption {
	seen := make(map[string]bool)
	colors := []ColorOption{}
	for _, v := range m.Variants {
		name := strings.ToLower(v.Color)
		if !v.Active || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		colors = append(colors, ColorOption{Name: v.Color, Hex: v.ColorHex})
	}
	return colors
}
