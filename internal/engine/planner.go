package engine

// Plan is the ordered list of slots accumulated for the current quantity.
// Functions in this file never mutate the plan they are given.
type Plan []Slot

// Count returns how many slots use key.
func (p Plan) Count(key string) int {
	n := 0
	for _, s := range p {
		if s.Key() == key {
			n++
		}
	}
	return n
}

// Counts returns per-key slot counts and the keys in first-appearance order.
func (p Plan) Counts() (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, s := range p {
		k := s.Key()
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	return counts, order
}

func (p Plan) clone(extra int) Plan {
	out := make(Plan, len(p), len(p)+extra)
	copy(out, p)
	return out
}

// AutoAdd appends at most one slot for size/color. The append is refused when
// the combination is not indexed, when it would push the key's count above
// its indexed stock, or when the plan already holds quantity slots.
func AutoAdd(p Plan, idx StockIndex, size, color string, quantity int) (Plan, *Rejection) {
	key := Key(size, color)
	stock, ok := idx.Lookup(key)
	if !ok {
		return p, unavailable(size, color)
	}
	if p.Count(key)+1 > stock || len(p) >= quantity {
		return p, insufficient("Not enough stock to add another " + size + " / " + color)
	}
	next := p.clone(1)
	return append(next, Slot{Size: size, Color: color}), nil
}

// Truncate keeps at most quantity slots from the front.
func Truncate(p Plan, quantity int) Plan {
	if quantity < 0 {
		quantity = 0
	}
	if len(p) <= quantity {
		return p
	}
	return p.clone(0)[:quantity]
}

// Fill completes the plan to quantity by duplicating base, bounded by the
// stock left for base's key. It is all-or-nothing: on rejection the original
// plan is returned.
func Fill(p Plan, idx StockIndex, base Slot, quantity int) (Plan, *Rejection) {
	key := base.Key()
	stock, ok := idx.Lookup(key)
	if !ok {
		return p, unavailable(base.Size, base.Color)
	}

	remaining := quantity - len(p)
	canDuplicate := min(remaining, stock-p.Count(key))
	if canDuplicate < 0 {
		canDuplicate = 0
	}

	next := p.clone(canDuplicate)
	for i := 0; i < canDuplicate; i++ {
		next = append(next, base)
	}
	if len(next) < quantity {
		return p, insufficient("Insufficient stock to complete the requested quantity")
	}
	return next, nil
}

// FillBase picks the slot that Fill duplicates: the last slot in the plan,
// otherwise the current selection when both size and color are chosen.
func FillBase(p Plan, sel Selection) (Slot, *Rejection) {
	if len(p) > 0 {
		return p[len(p)-1], nil
	}
	size, okSize := sel.Size.Get()
	color, okColor := sel.Color.Get()
	if !okSize || !okColor {
		return Slot{}, &Rejection{
			Kind:    RejectSelectionIncomplete,
			Message: "Select a combination to complete the quantity",
		}
	}
	return Slot{Size: size, Color: color}, nil
}
