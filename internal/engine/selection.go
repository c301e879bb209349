package engine

// Selection is the shopper's current choice on one product view.
type Selection struct {
	Size     Choice
	Color    Choice
	Quantity int
}

// NewSelection starts with nothing chosen and a quantity of one.
func NewSelection() Selection {
	return Selection{Quantity: 1}
}

// Complete reports whether both size and color are chosen.
func (s Selection) Complete() bool {
	return s.Size.IsSet() && s.Color.IsSet()
}

// SetSize records the size and runs one auto-add step.
func SetSize(sel Selection, p Plan, idx StockIndex, size string) (Selection, Plan, *Rejection) {
	sel.Size = Some(size)
	p, rej := autoAdd(sel, p, idx)
	return sel, p, rej
}

// SetColor records the color and runs one auto-add step.
func SetColor(sel Selection, p Plan, idx StockIndex, color string) (Selection, Plan, *Rejection) {
	sel.Color = Some(color)
	p, rej := autoAdd(sel, p, idx)
	return sel, p, rej
}

// SetQuantity clamps n to at least one and truncates the plan when the
// quantity goes down.
func SetQuantity(sel Selection, p Plan, n int) (Selection, Plan) {
	if n < 1 {
		n = 1
	}
	if n < sel.Quantity {
		p = Truncate(p, n)
	}
	sel.Quantity = n
	return sel, p
}

// autoAdd only applies to multi-unit purchases with a resolvable pair.
func autoAdd(sel Selection, p Plan, idx StockIndex) (Plan, *Rejection) {
	if sel.Quantity <= 1 {
		return p, nil
	}
	size, okSize := sel.Size.Get()
	color, okColor := sel.Color.Get()
	if !okSize || !okColor {
		return p, nil
	}
	return AutoAdd(p, idx, size, color, sel.Quantity)
}

// AutoSelect fills an unset choice when there is exactly one option.
func AutoSelect(sel Selection, sizes []string, colors []ColorOption) Selection {
	if !sel.Size.IsSet() && len(sizes) == 1 {
		sel.Size = Some(sizes[0])
	}
	if !sel.Color.IsSet() && len(colors) == 1 {
		sel.Color = Some(colors[0].Name)
	}
	return sel
}
