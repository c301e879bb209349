package engine

import "fmt"

// StatusKind is the single feasibility verdict shown to the shopper.
type StatusKind string

const (
	StatusFeasible               StatusKind = "feasible"
	StatusNeedsSelection         StatusKind = "needs_selection"
	StatusCombinationUnavailable StatusKind = "combination_unavailable"
	StatusOverstock              StatusKind = "overstock"
)

// Status carries the verdict and its message. Message is empty when feasible.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message,omitempty"`
}

// CanCommit reports whether the commit action is enabled.
func (s Status) CanCommit() bool {
	return s.Kind == StatusFeasible
}

var feasible = Status{Kind: StatusFeasible}

// Evaluate checks the selection and plan against the current index. Plan
// slots are checked by aggregate count, independent of the append-time guard,
// so a stock decrease after an append turns the verdict to overstock.
func Evaluate(s Session) Status {
	sel, p, idx := s.Selection, s.Plan, s.Index

	if s.Variantless() {
		if sel.Quantity > s.Mirror.FallbackStock {
			return Status{
				Kind:    StatusOverstock,
				Message: fmt.Sprintf("Only %d left in stock", max(s.Mirror.FallbackStock, 0)),
			}
		}
		return feasible
	}

	if sel.Quantity == 1 {
		if !sel.Complete() {
			return Status{Kind: StatusNeedsSelection, Message: "Select a size and color"}
		}
		return checkSlots(Plan{{Size: sel.Size.String(), Color: sel.Color.String()}}, idx)
	}

	if len(p) == 0 {
		if !sel.Complete() {
			return Status{
				Kind:    StatusNeedsSelection,
				Message: "Select a size and color to complete the quantity",
			}
		}
		p = Plan{{Size: sel.Size.String(), Color: sel.Color.String()}}
	}
	return checkSlots(p, idx)
}

func checkSlots(p Plan, idx StockIndex) Status {
	counts, order := p.Counts()
	first := make(map[string]Slot, len(order))
	for _, s := range p {
		if _, ok := first[s.Key()]; !ok {
			first[s.Key()] = s
		}
	}

	for _, k := range order {
		if _, ok := idx.Lookup(k); !ok {
			s := first[k]
			return Status{
				Kind:    StatusCombinationUnavailable,
				Message: unavailable(s.Size, s.Color).Message,
			}
		}
	}
	for _, k := range order {
		stock, _ := idx.Lookup(k)
		if counts[k] > stock {
			s := first[k]
			msg := fmt.Sprintf("Only %d left in %s / %s", max(stock, 0), s.Size, s.Color)
			if stock <= 0 {
				msg = fmt.Sprintf("%s / %s is out of stock", s.Size, s.Color)
			}
			return Status{Kind: StatusOverstock, Message: msg}
		}
	}
	return feasible
}
