package engine

import "github.com/shopspring/decimal"

func testProduct() ProductRecord {
	return ProductRecord{
		ID:     7,
		Name:   "Everyday Tee",
		Price:  decimal.RequireFromString("29000"),
		Images: []string{"https://cdn.example.com/tee.jpg", "https://cdn.example.com/tee-back.jpg"},
	}
}

func variant(id uint, size, color string, stock int) Variant {
	return Variant{ID: id, ProductID: 7, Size: size, Color: color, Stock: stock, Active: true}
}

// loadedSession returns a session for testProduct with variants already loaded.
func loadedSession(variants ...Variant) Session {
	s, _ := Step(NewSession(testProduct()), StockLoaded{ProductID: 7, Variants: variants})
	return s
}

func step(s Session, events ...Event) (Session, []LineItem) {
	var lines []LineItem
	for _, ev := range events {
		var out []LineItem
		s, out = Step(s, ev)
		lines = append(lines, out...)
	}
	return s, lines
}

func intPtr(n int) *int {
	return &n
}
